package core

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient returns a configured go-redis client from URL (e.g., redis://localhost:6379/0).
func NewRedisClient(redisURL string) (*redis.Client, error) {
	if redisURL == "" {
		return nil, errors.New("empty redis url")
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return client, nil
}

// LoginRateLimiter throttles login attempts with a fixed window counter per
// key. It exists to slow down online password guessing; token validation
// itself consults no server-side state.
type LoginRateLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

// NewLoginRateLimiter wraps a redis client. A nil client or non-positive
// limit disables throttling.
func NewLoginRateLimiter(client *redis.Client, limit int, window time.Duration) *LoginRateLimiter {
	return &LoginRateLimiter{client: client, limit: limit, window: window}
}

// incrScript bumps the attempt counter and sets the window expiry on first
// increment so the counter cannot leak without a TTL.
var incrScript = redis.NewScript(`
local n = redis.call('INCR', KEYS[1])
if n == 1 then
  redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return n
`)

// Allow records one attempt for key and reports whether it is within the
// limit. Redis errors fail open: an unreachable limiter must not lock out
// logins.
func (l *LoginRateLimiter) Allow(ctx context.Context, key string) bool {
	if l == nil || l.client == nil || l.limit <= 0 {
		return true
	}
	res, err := incrScript.Run(ctx, l.client, []string{"login_attempts:" + key}, l.window.Milliseconds()).Result()
	if err != nil {
		return true
	}
	n, ok := res.(int64)
	if !ok {
		return true
	}
	return n <= int64(l.limit)
}
