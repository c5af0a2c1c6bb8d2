// Package cache stores rendered layouts and artifacts between runs.
//
// A [Cache] is a byte store with per-entry TTLs. Three backends exist:
// [FileCache] for the CLI, [RedisCache] for a cache shared between hosts
// running `rackscape serve`, and [NullCache] when caching is disabled.
// Keys are built by a [Keyer] so that every input that changes the output
// also changes the key.
package cache

import (
	"context"
	"time"
)

// Cache is a key/value byte store. Get reports a miss with ok=false and a
// nil error; errors are reserved for backend failures.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Default TTLs. Layouts depend only on their inputs, so they are kept for
// long; artifacts are cheap to rebuild from a cached layout.
const (
	TTLLayout   = 30 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)
