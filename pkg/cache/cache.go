// Package cache stores rendered artifacts so that unchanged views are not
// re-rendered on every run.
//
// Three backends implement [Cache]: [FileCache] for the CLI, [RedisCache]
// for shared caches between machines and [NullCache] to disable caching.
// Keys come from a [Keyer]; the default keyer hashes its inputs so keys are
// safe for every backend.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the data stored under key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases the backend's resources.
	Close() error
}

// Default TTLs.
const (
	// TTLArtifact applies to rendered views. Artifacts are keyed by the hash
	// of their DOT source, so a stale entry can only be an unused one.
	TTLArtifact = 7 * 24 * time.Hour
	// TTLPublish applies to publish markers.
	TTLPublish = 30 * 24 * time.Hour
)
