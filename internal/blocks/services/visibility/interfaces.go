package visibility

import "github.com/haukened/block-visibility/internal/blocks/domain"

// SettingsAccessor reads and replaces the persisted exclusion list.
type SettingsAccessor interface {
	Read() domain.ExclusionSet
	Fixed() domain.ExclusionSet
	Write(candidate any) (domain.ExclusionSet, error)
}

// BlockRegistry enumerates the block types known to the host.
type BlockRegistry interface {
	Names() []domain.BlockIdentifier
	All() []domain.BlockType
	Len() int
}
