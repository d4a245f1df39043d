package limiter

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore implements Store on top of a go-redis client. It works with
// single node, sentinel (failover) and cluster clients alike.
type RedisStore struct {
	client redis.UniversalClient
}

func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

// Ping checks connectivity.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) SetNX(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return s.client.SetNX(ctx, key, 1, ttl).Result()
}

func (s *RedisStore) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return s.client.Expire(ctx, key, ttl).Err()
}

func (s *RedisStore) GetInt(ctx context.Context, key string) (int64, error) {
	n, err := s.client.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

func (s *RedisStore) Incr(ctx context.Context, key string) (int64, error) {
	return s.client.Incr(ctx, key).Result()
}

func (s *RedisStore) ZAdd(ctx context.Context, key string, score int64, member string) error {
	return s.client.ZAdd(ctx, key, redis.Z{Score: float64(score), Member: member}).Err()
}

func (s *RedisStore) ZRemRangeByScore(ctx context.Context, key string, below int64) error {
	return s.client.ZRemRangeByScore(ctx, key, "-inf", "("+strconv.FormatInt(below, 10)).Err()
}

func (s *RedisStore) ZCount(ctx context.Context, key string) (int64, error) {
	return s.client.ZCount(ctx, key, "-inf", "+inf").Result()
}

// Close closes the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
