// Package db defines the narrow store facade the repositories consume.
package db

import (
	"context"
	"time"
)

// Store is the main database facade combining all sub-interfaces.
type Store interface {
	Pinger
	KVStore
	JSONStore
	HashStore
	Scanner
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KVStore provides the key-value operations the embedding cache and the
// rate limiter need. Every write carries a TTL.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Incr(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration, nx bool) error
}

// JSONStore provides JSON document reads. The catalog is written by an
// external process; this service only reads it, always in bulk after a scan.
type JSONStore interface {
	JSONGetMulti(ctx context.Context, keys []string) ([][]byte, error)
}

// HashStore provides hash reads for the inventory ledger.
type HashStore interface {
	HGetAll(ctx context.Context, key string) (map[string]string, error)
}

// Scanner iterates keys matching a pattern.
type Scanner interface {
	Scan(ctx context.Context, pattern string) ([]string, error)
}
