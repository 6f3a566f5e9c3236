package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// slidingWindowScript trims both windows, checks the caps and records the
// request atomically. It returns {allowed, minute_count, hour_count, exceeded}
// where exceeded is 0 (none), 1 (minute) or 2 (hour).
var slidingWindowScript = redis.NewScript(`
local now = tonumber(ARGV[1])
local per_minute = tonumber(ARGV[2])
local per_hour = tonumber(ARGV[3])
local member = ARGV[4]

redis.call('ZREMRANGEBYSCORE', KEYS[1], '-inf', now - 60000)
redis.call('ZREMRANGEBYSCORE', KEYS[2], '-inf', now - 3600000)

local m = redis.call('ZCARD', KEYS[1])
local h = redis.call('ZCARD', KEYS[2])
if m >= per_minute then
  return {0, m, h, 1}
end
if h >= per_hour then
  return {0, m, h, 2}
end

redis.call('ZADD', KEYS[1], now, member)
redis.call('ZADD', KEYS[2], now, member)
redis.call('PEXPIRE', KEYS[1], 60000)
redis.call('PEXPIRE', KEYS[2], 3600000)
return {1, m + 1, h + 1, 0}
`)

// RedisLimiter shares window state between API instances through Redis sorted sets.
type RedisLimiter struct {
	client redis.Scripter
	limits Limits
	prefix string
	now    func() time.Time
}

var _ Limiter = (*RedisLimiter)(nil)

func NewRedisLimiter(client redis.Scripter, limits Limits, opts ...Option) *RedisLimiter {
	o := applyOptions(opts)
	return &RedisLimiter{
		client: client,
		limits: limits,
		prefix: "masir:ratelimit:",
		now:    o.now,
	}
}

func (r *RedisLimiter) Allow(ctx context.Context, key string) (Result, error) {
	now := r.now().UnixMilli()
	keys := []string{r.prefix + key + ":m", r.prefix + key + ":h"}
	member := fmt.Sprintf("%d-%s", now, uuid.NewString())

	vals, err := slidingWindowScript.Run(ctx, r.client, keys, now, r.limits.PerMinute, r.limits.PerHour, member).Int64Slice()
	if err != nil {
		return Result{}, fmt.Errorf("rate limit script: %w", err)
	}
	if len(vals) != 4 {
		return Result{}, fmt.Errorf("rate limit script: unexpected reply length %d", len(vals))
	}

	res := newResult(r.limits, int(vals[1]), int(vals[2]))
	res.Allowed = vals[0] == 1
	switch vals[3] {
	case 1:
		res.Exceeded = WindowMinute
	case 2:
		res.Exceeded = WindowHour
	}
	return res, nil
}

// NewRedisClient connects to Redis and verifies the connection.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}
