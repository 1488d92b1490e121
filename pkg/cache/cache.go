// Package cache stores byte blobs between runs.
//
// imagesheet uses it to keep the PNG bytes produced when a BMP, TIFF or
// WEBP image is transcoded for the PDF writer, so a second run over the
// same folder skips the decode/encode step. Keys are derived from the
// source file's content hash, so editing an image invalidates its entry.
//
// Two implementations are provided:
//   - [FileCache]: one raw file per entry under a directory
//   - [NullCache]: stores nothing, used with --no-cache and in tests
package cache

import (
	"context"
	"time"
)

// Cache is a key/value store with optional expiry.
type Cache interface {
	// Get returns the stored data and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}
