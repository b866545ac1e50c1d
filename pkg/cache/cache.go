// Package cache stores arrangement and planning results keyed by a hash of
// the model and the options they were computed with.
//
// Backends: [NullCache] for --no-cache runs, [FileCache] for the CLI
// (entries under the XDG cache directory), and [RedisCache] or
// [MongoCache] for servers sharing results across instances.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key value store with per-entry expiry.
type Cache interface {
	// Get returns the stored bytes and whether the key was present.
	// A missing or expired key is a miss, not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
