package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"fitlink/pkg/logger"
)

// Limiter is a fixed-window rate limiter backed by Redis, shared across
// service instances. It fails open: when Redis is unreachable the action is
// allowed and the error logged, so a cache outage never blocks messaging.
type Limiter struct {
	client *redis.Client
	max    int
	window time.Duration
}

func NewLimiter(client *redis.Client, max int, window time.Duration) *Limiter {
	// Buckets are keyed on whole seconds; anything shorter would divide by zero.
	if window < time.Second {
		window = time.Second
	}
	return &Limiter{
		client: client,
		max:    max,
		window: window,
	}
}

// Allow reports whether userID may perform action within the current window.
func (l *Limiter) Allow(ctx context.Context, userID, action string) bool {
	if l == nil || l.client == nil {
		return true
	}

	bucket := time.Now().Unix() / int64(l.window.Seconds())
	key := fmt.Sprintf("ratelimit:%s:%s:%d", action, userID, bucket)

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		logger.Warn("Rate limiter unavailable, allowing %s for %s: %v", action, userID, err)
		return true
	}
	if count == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			logger.Warn("Failed to set rate-limit key expiry: %v", err)
		}
	}

	return count <= int64(l.max)
}
