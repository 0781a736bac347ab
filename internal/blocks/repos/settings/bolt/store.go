package bolt

import (
	"encoding/binary"
	"errors"
	"time"

	bbolt "go.etcd.io/bbolt"
	bberrors "go.etcd.io/bbolt/errors"

	"github.com/haukened/block-visibility/internal/blocks/common/clock"
	"github.com/haukened/block-visibility/internal/blocks/repos/settings"
)

var (
	bucketOptions = []byte("options")
	bucketMeta    = []byte("meta")

	metaRevision = []byte("revision")
	metaUpdated  = []byte("updated")
)

// bucketCreator is the subset of *bbolt.Tx used to create buckets.
type bucketCreator interface {
	CreateBucketIfNotExists(name []byte) (*bbolt.Bucket, error)
}

func ensureBuckets(tx bucketCreator) error {
	for _, name := range [][]byte{bucketOptions, bucketMeta} {
		if _, err := tx.CreateBucketIfNotExists(name); err != nil {
			return err
		}
	}
	return nil
}

// ensureBucketsFn is swapped in tests to exercise bucket creation failures.
var ensureBucketsFn = func(tx bucketCreator) error { return ensureBuckets(tx) }

// boltStore implements settings.Store using bbolt.
type boltStore struct {
	db    *bbolt.DB
	clock clock.Clock
}

// New opens (or creates) a Bolt database at path and ensures buckets exist.
// A nil clk uses the system clock.
func New(path string, clk clock.Clock) (settings.Store, error) {
	if clk == nil {
		clk = clock.RealClock{}
	}
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}
	if err := db.Update(func(tx *bbolt.Tx) error {
		return ensureBucketsFn(tx)
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &boltStore{db: db, clock: clk}, nil
}

func (s *boltStore) Close() error { return s.db.Close() }

func (s *boltStore) Get(key string) ([]byte, bool, error) {
	var (
		out   []byte
		found bool
	)
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketOptions)
		if b == nil {
			return nil
		}
		v := b.Get([]byte(key))
		if v == nil {
			return nil
		}
		// v is only valid for the life of the transaction.
		out = make([]byte, len(v))
		copy(out, v)
		found = true
		return nil
	})
	if err != nil {
		return nil, false, mapErr(err)
	}
	return out, found, nil
}

// Put replaces the value at key and bumps the store revision in the same
// transaction, so readers never observe a value without its metadata.
func (s *boltStore) Put(key string, value []byte) error {
	now := s.clock.Now().Unix()
	err := s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(bucketOptions).Put([]byte(key), value); err != nil {
			return err
		}
		meta := tx.Bucket(bucketMeta)
		var rev uint64
		if v := meta.Get(metaRevision); len(v) == 8 {
			rev = binary.BigEndian.Uint64(v)
		}
		rbuf := make([]byte, 8)
		ubuf := make([]byte, 8)
		binary.BigEndian.PutUint64(rbuf, rev+1)
		binary.BigEndian.PutUint64(ubuf, uint64(now))
		if err := meta.Put(metaRevision, rbuf); err != nil {
			return err
		}
		return meta.Put(metaUpdated, ubuf)
	})
	return mapErr(err)
}

func (s *boltStore) Stats() settings.StoreStats {
	st := settings.StoreStats{}
	_ = s.db.View(func(tx *bbolt.Tx) error {
		if b := tx.Bucket(bucketOptions); b != nil {
			st.Options = uint64(b.Stats().KeyN)
		}
		if b := tx.Bucket(bucketMeta); b != nil {
			if v := b.Get(metaRevision); len(v) == 8 {
				st.Revision = binary.BigEndian.Uint64(v)
			}
			if v := b.Get(metaUpdated); len(v) == 8 {
				st.UpdatedUnix = int64(binary.BigEndian.Uint64(v))
			}
		}
		return nil
	})
	return st
}

// mapErr translates bbolt's closed-database error into settings.ErrStoreClosed.
func mapErr(err error) error {
	if errors.Is(err, bberrors.ErrDatabaseNotOpen) {
		return settings.ErrStoreClosed
	}
	return err
}

var _ settings.Store = (*boltStore)(nil)
