package cache

import (
	"context"
	"time"
)

// Cache stores query results keyed by their full request-parameter tuple.
// Entries are replaced atomically (last writer wins) and evicted once their
// retention TTL passes, whether or not they were read. StoredAt lets callers
// apply a freshness window shorter than the retention window.
type Cache interface {
	Get(ctx context.Context, key string) (value []byte, storedAt time.Time, ok bool)
	Set(ctx context.Context, key string, value []byte, retain time.Duration) error
	Delete(ctx context.Context, key string) error
	// Invalidate removes every entry whose key satisfies the predicate.
	Invalidate(ctx context.Context, predicate func(key string) bool) error
}
