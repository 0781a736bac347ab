// Package registry holds the live set of block types known to the host,
// in registration order.
package registry

import (
	"errors"
	"fmt"
	"sync"

	"github.com/haukened/block-visibility/internal/blocks/domain"
)

var (
	// ErrEmptyName is returned when registering a block type without a name.
	ErrEmptyName = errors.New("block type name must not be empty")
	// ErrAlreadyRegistered is returned when a name is registered twice.
	ErrAlreadyRegistered = errors.New("block type already registered")
)

// Registry is a concurrency-safe, ordered set of block types.
type Registry struct {
	mu    sync.RWMutex
	order []domain.BlockIdentifier
	types map[domain.BlockIdentifier]domain.BlockType
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{types: make(map[domain.BlockIdentifier]domain.BlockType)}
}

// Register adds bt. Names must be non-empty and unique.
func (r *Registry) Register(bt domain.BlockType) error {
	if bt.Name == "" {
		return ErrEmptyName
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.types[bt.Name]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, bt.Name)
	}
	r.types[bt.Name] = bt
	r.order = append(r.order, bt.Name)
	return nil
}

// RegisterAll adds every block type in bts, or none of them. It fails on an
// empty name, on a name already registered, or on a name repeated within bts.
func (r *Registry) RegisterAll(bts []domain.BlockType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[domain.BlockIdentifier]struct{}, len(bts))
	for _, bt := range bts {
		if bt.Name == "" {
			return ErrEmptyName
		}
		if _, ok := r.types[bt.Name]; ok {
			return fmt.Errorf("%w: %s from %s", ErrAlreadyRegistered, bt.Name, bt.Source)
		}
		if _, ok := seen[bt.Name]; ok {
			return fmt.Errorf("%w: %s from %s", ErrAlreadyRegistered, bt.Name, bt.Source)
		}
		seen[bt.Name] = struct{}{}
	}
	for _, bt := range bts {
		r.types[bt.Name] = bt
		r.order = append(r.order, bt.Name)
	}
	return nil
}

// Unregister removes name and reports whether it was present.
func (r *Registry) Unregister(name domain.BlockIdentifier) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.types[name]; !ok {
		return false
	}
	delete(r.types, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Get returns the block type registered under name.
func (r *Registry) Get(name domain.BlockIdentifier) (domain.BlockType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	bt, ok := r.types[name]
	return bt, ok
}

// Names returns every registered identifier in registration order.
func (r *Registry) Names() []domain.BlockIdentifier {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.BlockIdentifier{}, r.order...)
}

// All returns every registered block type in registration order.
func (r *Registry) All() []domain.BlockType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.BlockType, 0, len(r.order))
	for _, n := range r.order {
		out = append(out, r.types[n])
	}
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
