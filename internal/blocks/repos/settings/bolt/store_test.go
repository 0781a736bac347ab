package bolt

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bbolt "go.etcd.io/bbolt"

	"github.com/haukened/block-visibility/internal/blocks/common/clock"
	"github.com/haukened/block-visibility/internal/blocks/repos/settings"
)

type assertErr struct{}

func (assertErr) Error() string { return "assert error" }

func tempDB(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "settings.db")
}

func openStore(t *testing.T, clk clock.Clock) settings.Store {
	t.Helper()
	st, err := New(tempDB(t), clk)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestBoltStore_GetMissing(t *testing.T) {
	st := openStore(t, nil)

	v, ok, err := st.Get("block_visibility_options")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, v)
}

func TestBoltStore_PutGetOverwrite(t *testing.T) {
	clk := &clock.MockClock{CurrentTime: time.Unix(1_700_000_000, 0)}
	st := openStore(t, clk)

	require.NoError(t, st.Put("opts", []byte(`["core/list"]`)))
	v, ok, err := st.Get("opts")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `["core/list"]`, string(v))

	clk.Advance(time.Minute)
	require.NoError(t, st.Put("opts", []byte(`[]`)))
	v, ok, err = st.Get("opts")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `[]`, string(v))

	stats := st.Stats()
	assert.Equal(t, uint64(1), stats.Options)
	assert.Equal(t, uint64(2), stats.Revision)
	assert.Equal(t, int64(1_700_000_060), stats.UpdatedUnix)
}

func TestBoltStore_PersistsAcrossReopen(t *testing.T) {
	path := tempDB(t)
	st, err := New(path, nil)
	require.NoError(t, err)
	require.NoError(t, st.Put("opts", []byte(`["acf/card"]`)))
	require.NoError(t, st.Close())

	st, err = New(path, nil)
	require.NoError(t, err)
	defer st.Close()

	v, ok, err := st.Get("opts")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `["acf/card"]`, string(v))
	assert.Equal(t, uint64(1), st.Stats().Revision)
}

func TestBoltStore_ClosedStore(t *testing.T) {
	st, err := New(tempDB(t), nil)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	_, _, err = st.Get("opts")
	assert.ErrorIs(t, err, settings.ErrStoreClosed)
	assert.ErrorIs(t, st.Put("opts", []byte(`[]`)), settings.ErrStoreClosed)
	assert.Equal(t, settings.StoreStats{}, st.Stats())
}

func TestNew_InvalidPath(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing", "dir", "settings.db"), nil)
	assert.Error(t, err)
}

type fakeBucketCreator struct{ errs map[string]error }

func (f fakeBucketCreator) CreateBucketIfNotExists(name []byte) (*bbolt.Bucket, error) {
	if err := f.errs[string(name)]; err != nil {
		return nil, err
	}
	return nil, nil
}

func TestNew_EnsureBucketsErrors(t *testing.T) {
	for _, fail := range []string{string(bucketOptions), string(bucketMeta)} {
		t.Run(fail, func(t *testing.T) {
			old := ensureBucketsFn
			ensureBucketsFn = func(tx bucketCreator) error {
				return ensureBuckets(fakeBucketCreator{errs: map[string]error{fail: assertErr{}}})
			}
			defer func() { ensureBucketsFn = old }()

			st, err := New(tempDB(t), nil)
			assert.ErrorIs(t, err, assertErr{})
			assert.Nil(t, st)
		})
	}
}
