package registry

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haukened/block-visibility/internal/blocks/domain"
)

func TestRegistry_RegisterPreservesOrder(t *testing.T) {
	r := New()
	for _, n := range []string{"core/paragraph", "core/image", "acf/card"} {
		require.NoError(t, r.Register(domain.BlockType{Name: domain.BlockIdentifier(n), Source: "runtime"}))
	}

	assert.Equal(t, domain.Identifiers("core/paragraph", "core/image", "acf/card"), r.Names())
	assert.Equal(t, 3, r.Len())

	all := r.All()
	require.Len(t, all, 3)
	assert.Equal(t, domain.BlockIdentifier("acf/card"), all[2].Name)
}

func TestRegistry_RegisterErrors(t *testing.T) {
	r := New()
	assert.ErrorIs(t, r.Register(domain.BlockType{}), ErrEmptyName)

	require.NoError(t, r.Register(domain.BlockType{Name: "core/list"}))
	assert.ErrorIs(t, r.Register(domain.BlockType{Name: "core/list", Title: "again"}), ErrAlreadyRegistered)
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_RegisterAll(t *testing.T) {
	r := New()
	require.NoError(t, r.RegisterAll([]domain.BlockType{{Name: "core/paragraph"}, {Name: "core/image"}}))
	assert.Equal(t, domain.Identifiers("core/paragraph", "core/image"), r.Names())

	tests := []struct {
		name string
		bts  []domain.BlockType
		want error
	}{
		{name: "empty name", bts: []domain.BlockType{{Name: "core/list"}, {}}, want: ErrEmptyName},
		{name: "already registered", bts: []domain.BlockType{{Name: "core/list"}, {Name: "core/image"}}, want: ErrAlreadyRegistered},
		{name: "repeated in batch", bts: []domain.BlockType{{Name: "core/list"}, {Name: "core/list"}}, want: ErrAlreadyRegistered},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, r.RegisterAll(tt.bts), tt.want)
			assert.Equal(t, 2, r.Len())
			_, ok := r.Get("core/list")
			assert.False(t, ok)
		})
	}
}

func TestRegistry_GetAndUnregister(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(domain.BlockType{Name: "a", Title: "A"}))
	require.NoError(t, r.Register(domain.BlockType{Name: "b"}))
	require.NoError(t, r.Register(domain.BlockType{Name: "c"}))

	bt, ok := r.Get("a")
	require.True(t, ok)
	assert.Equal(t, "A", bt.Title)

	assert.True(t, r.Unregister("b"))
	assert.False(t, r.Unregister("b"))
	assert.Equal(t, domain.Identifiers("a", "c"), r.Names())

	_, ok = r.Get("b")
	assert.False(t, ok)

	require.NoError(t, r.Register(domain.BlockType{Name: "b"}))
	assert.Equal(t, domain.Identifiers("a", "c", "b"), r.Names())
}

func TestRegistry_NamesIsACopy(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(domain.BlockType{Name: "a"}))
	names := r.Names()
	names[0] = "mutated"
	assert.Equal(t, domain.Identifiers("a"), r.Names())
}

func TestRegistry_EmptyNamesNotNil(t *testing.T) {
	assert.NotNil(t, New().Names())
	assert.Empty(t, New().All())
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	r := New()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = r.Register(domain.BlockType{Name: domain.BlockIdentifier(string(rune('a' + i)))})
			_ = r.Names()
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 8, r.Len())
}
