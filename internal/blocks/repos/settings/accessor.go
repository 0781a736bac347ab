package settings

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/haukened/block-visibility/internal/blocks/common/log"
	"github.com/haukened/block-visibility/internal/blocks/domain"
)

// AccessorOptions configures an Accessor.
type AccessorOptions struct {
	Store  Store
	Cache  ExclusionCache // optional
	Option string         // settings key the exclusion list lives under
	Fixed  []domain.BlockIdentifier
	Logger log.Logger
}

// Accessor reads and writes the persisted exclusion list. It composes a
// Store with an optional decode cache: reads go cache → store, writes go to
// the store and purge the cache.
//
// Reads never fail. A missing option, an undecodable value or a store error
// all read as "nothing stored".
type Accessor struct {
	mu     sync.RWMutex
	store  Store
	cache  ExclusionCache
	option string
	fixed  domain.ExclusionSet
	logger log.Logger
}

// NewAccessor constructs an Accessor. Store and Option are required.
func NewAccessor(opts AccessorOptions) (*Accessor, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("settings accessor requires a store")
	}
	if opts.Option == "" {
		return nil, fmt.Errorf("settings accessor requires an option name")
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Accessor{
		store:  opts.Store,
		cache:  opts.Cache,
		option: opts.Option,
		fixed:  domain.ExclusionSet{}.With(opts.Fixed),
		logger: logger,
	}, nil
}

// Option returns the settings key used for the exclusion list.
func (a *Accessor) Option() string { return a.option }

// Fixed returns the configured exclusions that can never be removed.
func (a *Accessor) Fixed() domain.ExclusionSet {
	return append(domain.ExclusionSet{}, a.fixed...)
}

// Read returns the effective exclusion list: the stored list followed by any
// fixed exclusions it does not already contain.
func (a *Accessor) Read() domain.ExclusionSet {
	return a.Stored().With(a.fixed)
}

// Stored returns the exclusion list exactly as persisted, or an empty list.
func (a *Accessor) Stored() domain.ExclusionSet {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.cache != nil {
		if set, ok := a.cache.Get(a.option); ok {
			return append(domain.ExclusionSet{}, set...)
		}
	}

	set := a.load()
	if a.cache != nil {
		a.cache.Put(a.option, set)
	}
	return append(domain.ExclusionSet{}, set...)
}

// load fetches and decodes the stored list, degrading to empty on any problem.
func (a *Accessor) load() domain.ExclusionSet {
	raw, ok, err := a.store.Get(a.option)
	if err != nil {
		a.logger.Error(map[string]any{
			"option": a.option,
			"error":  err.Error(),
		}, "Failed to read exclusion list, treating as empty")
		return domain.ExclusionSet{}
	}
	if !ok {
		a.logger.Debug(map[string]any{"option": a.option}, "Exclusion list never saved")
		return domain.ExclusionSet{}
	}

	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		a.logger.Warn(map[string]any{
			"option": a.option,
			"error":  err.Error(),
		}, "Stored exclusion list is not valid JSON, treating as empty")
		return domain.ExclusionSet{}
	}
	if !domain.IsSequence(decoded) {
		a.logger.Warn(map[string]any{
			"option": a.option,
			"type":   fmt.Sprintf("%T", decoded),
		}, "Stored exclusion list is not a list, treating as empty")
		return domain.ExclusionSet{}
	}
	return domain.Sanitize(decoded)
}

// Write sanitizes candidate and persists it, replacing whatever was stored.
// A candidate that is not a list is saved as the empty list. Fixed exclusions
// are stripped before saving since Read adds them back. The returned error
// only reports storage failures.
func (a *Accessor) Write(candidate any) (domain.ExclusionSet, error) {
	if !domain.IsSequence(candidate) {
		a.logger.Debug(map[string]any{
			"option": a.option,
			"type":   fmt.Sprintf("%T", candidate),
		}, "Exclusion candidate is not a list, saving empty list")
	}
	set := domain.Sanitize(candidate).Without(a.fixed)

	raw, err := json.Marshal(domain.Strings(set))
	if err != nil {
		return nil, fmt.Errorf("encode exclusion list: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.store.Put(a.option, raw); err != nil {
		return nil, fmt.Errorf("persist exclusion list %q: %w", a.option, err)
	}
	if a.cache != nil {
		a.cache.Purge()
	}

	a.logger.Info(map[string]any{
		"option": a.option,
		"count":  len(set),
	}, "Exclusion list saved")
	return append(domain.ExclusionSet{}, set...), nil
}
