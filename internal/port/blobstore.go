package port

import "context"

// BlobStore stores raw document and schema content by key. It models an
// object store that fails independently of the metadata repository.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte) error

	// Get returns the stored content, or an error wrapping
	// domain.ErrNotFound when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)

	Close() error
}
