package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vncsmyrnk/fanvote/internal/core/ports"
)

type redisLimiter struct {
	client *redis.Client
	prefix string
	limit  int
	period time.Duration
}

// NewRedisLimiter keeps fixed-window counters in Redis so every server
// instance shares the same budget per key.
func NewRedisLimiter(client *redis.Client, prefix string, limit int, period time.Duration) ports.RateLimiter {
	return &redisLimiter{
		client: client,
		prefix: prefix,
		limit:  limit,
		period: period,
	}
}

func (l *redisLimiter) Allow(ctx context.Context, key string) (ports.RateDecision, error) {
	redisKey := fmt.Sprintf("fanvote:ratelimit:%s:%s", l.prefix, key)

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.ExpireNX(ctx, redisKey, l.period)
	ttl := pipe.PTTL(ctx, redisKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return ports.RateDecision{}, fmt.Errorf("failed to update rate limit counter: %w", err)
	}

	remaining := ttl.Val()
	if remaining <= 0 {
		remaining = l.period
	}

	return decide(l.limit, int(incr.Val()), time.Now().Add(remaining)), nil
}
