package settings

import (
	"errors"

	"github.com/haukened/block-visibility/internal/blocks/domain"
)

// ErrStoreClosed is returned by Store operations after Close.
var ErrStoreClosed = errors.New("settings store is closed")

// StoreStats captures counts and write metadata for the persistent store.
type StoreStats struct {
	Options     uint64
	Revision    uint64 // incremented on every Put
	UpdatedUnix int64  // seconds since epoch of the last Put
}

// Store is a key-value option store. Values are opaque bytes and are always
// replaced whole; there is no partial update.
type Store interface {
	Get(key string) (value []byte, ok bool, err error)
	Put(key string, value []byte) error
	Stats() StoreStats
	Close() error
}

// ExclusionCache caches decoded exclusion lists by option name with basic metrics.
type ExclusionCache interface {
	Get(option string) (domain.ExclusionSet, bool)
	Put(option string, set domain.ExclusionSet)
	Len() int
	Purge()
	Stats() (hits, misses, evictions uint64)
}
