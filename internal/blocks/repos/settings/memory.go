package settings

import (
	"sync"
	"time"
)

// MemoryStore is an in-process Store. Nothing survives a restart.
type MemoryStore struct {
	mu       sync.RWMutex
	values   map[string][]byte
	revision uint64
	updated  int64
	closed   bool
	now      func() time.Time
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string][]byte), now: time.Now}
}

func (m *MemoryStore) Get(key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, false, ErrStoreClosed
	}
	v, ok := m.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *MemoryStore) Put(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrStoreClosed
	}
	m.values[key] = append([]byte(nil), value...)
	m.revision++
	m.updated = m.now().Unix()
	return nil
}

func (m *MemoryStore) Stats() StoreStats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return StoreStats{
		Options:     uint64(len(m.values)),
		Revision:    m.revision,
		UpdatedUnix: m.updated,
	}
}

func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

var _ Store = (*MemoryStore)(nil)
