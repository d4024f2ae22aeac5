package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// LoginLimiter throttles repeated login attempts per login, backed by Redis.
// Key format: login_attempts:<login>, counter expires after the window.
type LoginLimiter struct {
	client *redis.Client
	max    int64
	window time.Duration
	log    zerolog.Logger
}

func NewLoginLimiter(client *redis.Client, max int64, window time.Duration, log zerolog.Logger) *LoginLimiter {
	if max <= 0 {
		max = 10
	}
	if window <= 0 {
		window = time.Minute
	}
	return &LoginLimiter{client: client, max: max, window: window, log: log}
}

// Allow reports whether another attempt for this login may proceed. Redis
// failures are logged and the attempt is allowed, so an unavailable limiter
// never locks users out.
func (l *LoginLimiter) Allow(ctx context.Context, login string) bool {
	key := l.key(login)

	n, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		l.log.Error().Err(err).Msg("login limiter unavailable")
		return true
	}
	if n == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			l.log.Error().Err(err).Msg("login limiter expire failed")
		}
	}
	return n <= l.max
}

// Reset clears the attempt counter after a successful authentication.
func (l *LoginLimiter) Reset(ctx context.Context, login string) {
	if err := l.client.Del(ctx, l.key(login)).Err(); err != nil {
		l.log.Error().Err(err).Msg("login limiter reset failed")
	}
}

func (l *LoginLimiter) key(login string) string {
	return "login_attempts:" + login
}
