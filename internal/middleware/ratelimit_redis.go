package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// slidingWindowScript keeps one sorted-set member per request inside the window.
// Returns {allowed, remaining, reset_at_ms}.
var slidingWindowScript = redis.NewScript(`
	local key = KEYS[1]
	local now = tonumber(ARGV[1])
	local window_start = tonumber(ARGV[2])
	local limit = tonumber(ARGV[3])
	local window_ms = tonumber(ARGV[4])

	redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)

	local current = redis.call('ZCARD', key)

	if current < limit then
		local counter = redis.call('INCR', key .. ':counter')
		redis.call('ZADD', key, now, now .. ':' .. counter)
		local expire_seconds = math.ceil(window_ms / 1000)
		redis.call('EXPIRE', key, expire_seconds)
		redis.call('EXPIRE', key .. ':counter', expire_seconds)
		return {1, limit - current - 1, 0}
	end

	local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
	local reset_at = 0
	if oldest and #oldest >= 2 then
		reset_at = tonumber(oldest[2]) + window_ms
	end
	return {0, 0, reset_at}
`)

// RedisLimiter shares the request budget across every instance using the same Redis.
type RedisLimiter struct {
	client    redis.Scripter
	keyPrefix string
	limit     int
	window    time.Duration
}

func NewRedisLimiter(client redis.Scripter, keyPrefix string, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client:    client,
		keyPrefix: keyPrefix,
		limit:     limit,
		window:    window,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (*RateLimitResult, error) {
	now := time.Now()

	result, err := slidingWindowScript.Run(ctx, l.client,
		[]string{l.keyPrefix + key},
		now.UnixMilli(),
		now.Add(-l.window).UnixMilli(),
		l.limit,
		l.window.Milliseconds(),
	).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("redis rate limit script: %w", err)
	}
	if len(result) != 3 {
		return nil, fmt.Errorf("unexpected redis response length: %d", len(result))
	}

	resetAt := now.Add(l.window)
	if result[2] > 0 {
		resetAt = time.UnixMilli(result[2])
	}

	return &RateLimitResult{
		Allowed:   result[0] == 1,
		Remaining: int(result[1]),
		ResetAt:   resetAt,
		Limit:     l.limit,
	}, nil
}
