package interfaces

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss signals a key is absent or expired. Gateways fall through to
// the document store on a miss.
var ErrCacheMiss = errors.New("cache: miss")

// CacheProvider is a non-authoritative read-through shadow for gateway
// reads. Entries expire after their TTL; it must never be treated as a lock.
type CacheProvider interface {
	Get(ctx context.Context, key string) (any, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
