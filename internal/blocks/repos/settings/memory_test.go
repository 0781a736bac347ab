package settings

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_PutGetStats(t *testing.T) {
	m := NewMemoryStore()
	m.now = func() time.Time { return time.Unix(1_700_000_000, 0) }

	_, ok, err := m.Get("opts")
	require.NoError(t, err)
	assert.False(t, ok)

	in := []byte(`["a"]`)
	require.NoError(t, m.Put("opts", in))
	in[2] = 'z'

	v, ok, err := m.Get("opts")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `["a"]`, string(v))

	require.NoError(t, m.Put("opts", []byte(`[]`)))
	assert.Equal(t, StoreStats{Options: 1, Revision: 2, UpdatedUnix: 1_700_000_000}, m.Stats())
}

func TestMemoryStore_Closed(t *testing.T) {
	m := NewMemoryStore()
	require.NoError(t, m.Close())

	_, _, err := m.Get("opts")
	assert.ErrorIs(t, err, ErrStoreClosed)
	assert.ErrorIs(t, m.Put("opts", nil), ErrStoreClosed)
}
