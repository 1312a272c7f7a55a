package blob

import (
	"context"
	"fmt"

	"go.etcd.io/bbolt"

	"dochub/internal/domain"
)

var bucketBlobs = []byte("blobs")

// BoltBlobStore stores raw content in its own bbolt database file,
// separate from the metadata store so the two backends fail
// independently.
type BoltBlobStore struct {
	db *bbolt.DB
}

func NewBoltBlobStore(path string) (*BoltBlobStore, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open blob db: %v", domain.ErrStorage, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketBlobs)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: failed to create blob bucket: %v", domain.ErrStorage, err)
	}

	return &BoltBlobStore{db: db}, nil
}

func (s *BoltBlobStore) Put(ctx context.Context, key string, data []byte) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketBlobs).Put([]byte(key), data)
	})
	if err != nil {
		return fmt.Errorf("%w: put blob %q: %v", domain.ErrStorage, key, err)
	}
	return nil
}

func (s *BoltBlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(bucketBlobs).Get([]byte(key))
		if v == nil {
			return fmt.Errorf("%w: blob %q", domain.ErrNotFound, key)
		}
		// Copy out: bbolt values are only valid inside the transaction.
		data = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (s *BoltBlobStore) Close() error {
	return s.db.Close()
}
