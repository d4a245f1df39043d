package limiter

import (
	"context"
	"time"
)

// Store is the subset of a shared key-value/sorted-set store the limiter
// needs. SetNX, Incr, ZAdd and ZRemRangeByScore must be atomic.
type Store interface {
	// SetNX sets key to 1 with the given expiry only if key is absent and
	// reports whether it did.
	SetNX(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Expire sets the expiry of key. A ttl of zero deletes it.
	Expire(ctx context.Context, key string, ttl time.Duration) error
	// GetInt returns the integer at key, or 0 if key is absent.
	GetInt(ctx context.Context, key string) (int64, error)
	Incr(ctx context.Context, key string) (int64, error)
	ZAdd(ctx context.Context, key string, score int64, member string) error
	// ZRemRangeByScore removes every member scored strictly below below.
	ZRemRangeByScore(ctx context.Context, key string, below int64) error
	// ZCount returns the cardinality of the sorted set at key.
	ZCount(ctx context.Context, key string) (int64, error)
}
