// Package cache stores rendered artifacts so repeated draws of the same
// graph skip Graphviz and format conversion.
//
// Three backends implement [Cache]:
//
//   - [FileCache] keeps one JSON entry per key under a directory (CLI)
//   - [RedisCache] shares entries between server replicas
//   - [NullCache] stores nothing (--no-cache, tests)
//
// Keys come from a [Keyer]. The default keyer hashes the graph together
// with every option that changes the output bytes, so a changed engine or
// canvas size never returns a stale artifact.
package cache

import (
	"context"
	"time"
)

// Default TTLs.
const (
	// TTLArtifact applies to rendered artifacts.
	TTLArtifact = 24 * time.Hour
)

// Cache is a byte store with expiration. Implementations must be safe for
// concurrent use.
type Cache interface {
	// Get returns the stored bytes and true, or false on a miss.
	// Expired entries are misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl <= 0 never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// NullCache discards writes and misses every read.
type NullCache struct{}

// NewNullCache returns a cache that stores nothing.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error { return nil }
func (NullCache) Close() error { return nil }
