// Package cache stores placements and rendered artifacts between runs.
//
// Annealing is deterministic for a fixed seed, so a placement is fully
// determined by its chart and options. The pipeline hashes those inputs with
// a [Keyer] and looks the result up in a [Cache] before running the engine.
//
// Three backends are provided:
//   - [FileCache]: one JSON file per entry, used by the CLI
//   - [RedisCache]: shared cache for multiple server instances
//   - [NullCache]: never stores anything (--no-cache)
package cache

import (
	"context"
	"time"
)

// Default lifetimes of cache entries.
const (
	PlacementTTL = 7 * 24 * time.Hour
	ArtifactTTL  = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the value for key and whether it was found. Expired entries
	// are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}
