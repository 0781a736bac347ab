// Package visibility decides which block types the editor may insert and
// manages the administrator's hidden-block settings.
package visibility

import (
	"fmt"

	"github.com/haukened/block-visibility/internal/blocks/common/log"
	"github.com/haukened/block-visibility/internal/blocks/domain"
)

// Options configures a Service.
type Options struct {
	Settings SettingsAccessor
	Registry BlockRegistry
	Logger   log.Logger
}

// Service is the block visibility filter. Every call reads the current
// exclusion list and, for allow-all requests, the current registry.
// No capability check is applied: the filter is the same for every caller.
type Service struct {
	settings SettingsAccessor
	registry BlockRegistry
	logger   log.Logger
}

// ChecklistItem is one row of the settings page.
type ChecklistItem struct {
	Block  domain.BlockType
	Hidden bool // currently excluded
	Locked bool // fixed exclusion, cannot be un-hidden
}

// New constructs a Service.
func New(opts Options) (*Service, error) {
	if opts.Settings == nil {
		return nil, fmt.Errorf("visibility service requires a settings accessor")
	}
	if opts.Registry == nil {
		return nil, fmt.Errorf("visibility service requires a block registry")
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Service{settings: opts.Settings, registry: opts.Registry, logger: logger}, nil
}

// AllowedBlockTypes is the allowed-block-types filter hook. editorContext is
// opaque and passed through unexamined.
func (s *Service) AllowedBlockTypes(requested domain.Requested, editorContext any) []domain.BlockIdentifier {
	exclusions := s.settings.Read()
	allowed := domain.ComputeAllowed(requested, s.registry.Names, exclusions)

	s.logger.Debug(map[string]any{
		"requested":  requested.Kind().String(),
		"excluded":   len(exclusions),
		"allowed":    len(allowed),
		"registered": s.registry.Len(),
	}, "Computed allowed block types")
	return allowed
}

// Exclusions returns the effective exclusion list, fixed entries included.
func (s *Service) Exclusions() domain.ExclusionSet {
	return s.settings.Read()
}

// SaveExclusions replaces the stored exclusion list with candidate. Fixed
// exclusions apply regardless of what is saved.
func (s *Service) SaveExclusions(candidate any) (domain.ExclusionSet, error) {
	saved, err := s.settings.Write(candidate)
	if err != nil {
		s.logger.Error(map[string]any{"error": err.Error()}, "Failed to save exclusion list")
		return nil, err
	}
	return saved, nil
}

// Checklist lists every registered block type, marking hidden and locked ones.
func (s *Service) Checklist() []ChecklistItem {
	excluded := s.settings.Read().Index()
	fixed := s.settings.Fixed().Index()

	blocks := s.registry.All()
	items := make([]ChecklistItem, 0, len(blocks))
	for _, bt := range blocks {
		_, hidden := excluded[bt.Name]
		_, locked := fixed[bt.Name]
		items = append(items, ChecklistItem{Block: bt, Hidden: hidden, Locked: locked})
	}
	return items
}

// RegisteredCount returns the number of known block types.
func (s *Service) RegisteredCount() int {
	return s.registry.Len()
}
