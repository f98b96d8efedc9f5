// Package storage holds file blobs in the key-value store and signs
// expiring access URLs for them, a stand-in for hosted object storage.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/notably-app/notably/internal/db"
	"github.com/notably-app/notably/internal/domain"
)

// kv is the consumer interface for blob persistence (ISP).
type kv interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, key string) error
}

// BlobStore reads and writes file blobs keyed by storage path.
type BlobStore struct {
	store     kv
	keyPrefix string
	maxBytes  int64
}

// NewBlobStore creates a blob store. maxBytes caps a single blob size.
func NewBlobStore(s kv, keyPrefix string, maxBytes int64) *BlobStore {
	return &BlobStore{store: s, keyPrefix: keyPrefix, maxBytes: maxBytes}
}

// Put stores blob bytes under the given storage path.
func (b *BlobStore) Put(ctx context.Context, path string, data []byte) error {
	if b.maxBytes > 0 && int64(len(data)) > b.maxBytes {
		return fmt.Errorf("blob too large (%d bytes, max %d): %w", len(data), b.maxBytes, domain.ErrInvalidArgument)
	}
	if err := b.store.Set(ctx, b.key(path), data); err != nil {
		return fmt.Errorf("put blob %s: %w", path, err)
	}
	return nil
}

// Get returns blob bytes for the given storage path.
func (b *BlobStore) Get(ctx context.Context, path string) ([]byte, error) {
	data, err := b.store.Get(ctx, b.key(path))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, domain.ErrFileNotFound
		}
		return nil, fmt.Errorf("get blob %s: %w", path, err)
	}
	return data, nil
}

// Delete removes the blob. Missing blobs are not an error.
func (b *BlobStore) Delete(ctx context.Context, path string) error {
	if err := b.store.Del(ctx, b.key(path)); err != nil {
		return fmt.Errorf("del blob %s: %w", path, err)
	}
	return nil
}

func (b *BlobStore) key(path string) string {
	return b.keyPrefix + "blob:" + path
}
