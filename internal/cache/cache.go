// Package cache provides the read-through report cache handed to the
// costing service. The engine itself never sees a cache: it stays a pure
// function of its inputs, and callers decide what to memoize.
package cache

import (
	"context"
	"time"
)

// Cache stores serialized reports under string keys. Implementations must
// treat misses and backend failures identically (ok=false): a broken cache
// only costs a recomputation, never an error to the caller.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Delete(ctx context.Context, key string)
}
