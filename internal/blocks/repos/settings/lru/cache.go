package lru

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/haukened/block-visibility/internal/blocks/domain"
	"github.com/haukened/block-visibility/internal/blocks/repos/settings"
)

// exclusionCache is an LRU-backed settings.ExclusionCache. It tracks hits,
// misses and evictions.
type exclusionCache struct {
	lru       *lru.Cache[string, domain.ExclusionSet]
	hits      uint64
	misses    uint64
	evictions uint64
}

// disabledCache always misses.
type disabledCache struct{}

// New creates an ExclusionCache holding up to size option values. A size
// <= 0 returns a disabled cache.
func New(size int) (settings.ExclusionCache, error) {
	if size <= 0 {
		return disabledCache{}, nil
	}

	c := &exclusionCache{}
	cache, err := lru.NewWithEvict(size, func(_ string, _ domain.ExclusionSet) {
		atomic.AddUint64(&c.evictions, 1)
	})
	if err != nil {
		return nil, err
	}
	c.lru = cache
	return c, nil
}

// Get returns a copy of the cached set so callers cannot mutate cache state.
func (c *exclusionCache) Get(option string) (domain.ExclusionSet, bool) {
	if set, ok := c.lru.Get(option); ok {
		atomic.AddUint64(&c.hits, 1)
		return append(domain.ExclusionSet{}, set...), true
	}
	atomic.AddUint64(&c.misses, 1)
	return nil, false
}

func (c *exclusionCache) Put(option string, set domain.ExclusionSet) {
	c.lru.Add(option, append(domain.ExclusionSet{}, set...))
}

func (c *exclusionCache) Len() int { return c.lru.Len() }

// Purge clears all entries. Purged entries count as evictions.
func (c *exclusionCache) Purge() { c.lru.Purge() }

func (c *exclusionCache) Stats() (hits, misses, evictions uint64) {
	return atomic.LoadUint64(&c.hits), atomic.LoadUint64(&c.misses), atomic.LoadUint64(&c.evictions)
}

func (disabledCache) Get(string) (domain.ExclusionSet, bool) { return nil, false }
func (disabledCache) Put(string, domain.ExclusionSet)        {}
func (disabledCache) Len() int                               { return 0 }
func (disabledCache) Purge()                                 {}
func (disabledCache) Stats() (uint64, uint64, uint64)        { return 0, 0, 0 }

var _ settings.ExclusionCache = (*exclusionCache)(nil)
var _ settings.ExclusionCache = disabledCache{}
