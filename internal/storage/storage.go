package storage

import "context"

// ObjectStorage is the byte-store side of the catalog's dual write. Keys are
// opaque to callers above the photo service.
type ObjectStorage interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Remove(ctx context.Context, key string) error
}
