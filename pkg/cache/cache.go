// Package cache provides the byte cache shared by the CLI and the web
// service.
//
// Analyses and rendered artifacts are stored under content-derived keys
// produced by a [Keyer]. Three backends implement [Cache]:
//
//   - [NullCache]: never stores anything (caching disabled)
//   - [FileCache]: one JSON file per entry, used by the CLI
//   - [RedisCache]: shared cache for the web service
//
// Entries carry a TTL; the service relies on it to expire uploaded analyses,
// as nothing is persisted beyond the cache.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key-value store with per-entry expiration.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is reported
	// as (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// Default TTLs per entry kind.
const (
	TTLAnalysis = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
	TTLResult   = 24 * time.Hour
)
