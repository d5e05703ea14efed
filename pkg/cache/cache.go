// Package cache provides byte-level caching for computed layouts and rendered
// artifacts.
//
// Three backends implement [Cache]:
//   - [FileCache]: one JSON file per entry, for the CLI
//   - [RedisCache]: a shared Redis instance, for the HTTP server
//   - [NullCache]: caching disabled
//
// Keys are produced by a [Keyer] from content hashes and the options that
// influence the cached value, so identical requests map to identical keys.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values under string keys.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Default time-to-live values per entry type. Layouts are deterministic for a
// given key, so they live longer than rendered artifacts.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 24 * time.Hour
)
