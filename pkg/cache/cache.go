// Package cache provides byte caches for icon assets and rendered artifacts.
//
// Three backends implement [Cache]:
//   - [FileCache]: sharded JSON files, the default for the CLI
//   - [RedisCache]: shared cache for servers running several instances
//   - [NullCache]: caching disabled
//
// Keys are produced by a [Keyer] so that every backend sees the same
// namespaces ("asset:", "artifact:").
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values with an optional time-to-live.
// A ttl of zero means the entry does not expire.
type Cache interface {
	// Get returns the value and true on a hit, or nil and false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Default time-to-live values.
const (
	AssetTTL    = 24 * time.Hour
	ArtifactTTL = time.Hour
)

// Clearer is implemented by backends that can drop every entry at once.
type Clearer interface {
	Clear(ctx context.Context) (int, error)
}

var (
	_ Clearer = (*FileCache)(nil)
	_ Clearer = (*RedisCache)(nil)
)
