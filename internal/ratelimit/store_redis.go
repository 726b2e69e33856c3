package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore implements Store with a fixed window counter shared across
// replicas. The window boundary effect is acceptable for the limits this
// service enforces.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a store on an existing client. The prefix keeps the
// limiter's keys apart from anything else in the same database.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "ratelimit"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) Allow(ctx context.Context, key string, limit int, span time.Duration) (*Result, error) {
	bucket := fmt.Sprintf("%s:%s:%d", s.prefix, key, time.Now().UnixNano()/int64(span))

	pipe := s.client.TxPipeline()
	count := pipe.Incr(ctx, bucket)
	pipe.Expire(ctx, bucket, span)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("ratelimit incr: %w", err)
	}

	n := int(count.Val())
	resetAt := time.Now().Truncate(span).Add(span)
	if n > limit {
		return &Result{Allowed: false, Limit: limit, ResetAt: resetAt}, nil
	}
	return &Result{
		Allowed:   true,
		Remaining: limit - n,
		Limit:     limit,
		ResetAt:   resetAt,
	}, nil
}
