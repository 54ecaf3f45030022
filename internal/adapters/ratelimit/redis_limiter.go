// Package ratelimit provides a Redis-backed limiter for deployments
// where quota must be shared across replicas. The in-process token
// bucket in internal/services remains the default.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// RedisLimiter enforces a fixed-window quota with INCR + EXPIRE NX:
// the first consume of a window creates the counter with the window's
// TTL, so the count resets at window boundaries exactly like an
// interval-refilled bucket.
//
// Redis transport errors fail open (the request is allowed and the
// error logged); a cache outage must not take the API down.
type RedisLimiter struct {
	client   *redis.Client
	capacity int
	window   time.Duration
}

type Config struct {
	Addr     string
	Password string
	DB       int
}

func New(cfg Config, capacity int, window time.Duration) (*RedisLimiter, error) {
	if cfg.Addr == "" {
		return nil, errors.New("redis address is required")
	}
	if capacity <= 0 || window <= 0 {
		return nil, errors.New("capacity and window must be positive")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &RedisLimiter{client: client, capacity: capacity, window: window}, nil
}

func (l *RedisLimiter) Close() error {
	return l.client.Close()
}

// TryConsume counts the request against the key's current window and
// reports whether it fit inside the capacity.
func (l *RedisLimiter) TryConsume(ctx context.Context, key string) bool {
	pipe := l.client.TxPipeline()
	counter := pipe.Incr(ctx, counterKey(key))
	pipe.ExpireNX(ctx, counterKey(key), l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("rate limiter: redis consume failed key=%s err=%v", key, err)
		return true
	}

	return counter.Val() <= int64(l.capacity)
}

// Remaining returns capacity minus the current window's count, clamped
// at zero. Unseen keys report full capacity.
func (l *RedisLimiter) Remaining(ctx context.Context, key string) int {
	count, err := l.client.Get(ctx, counterKey(key)).Int64()
	if errors.Is(err, redis.Nil) {
		return l.capacity
	}
	if err != nil {
		log.Printf("rate limiter: redis remaining failed key=%s err=%v", key, err)
		return l.capacity
	}

	remaining := l.capacity - int(count)
	if remaining < 0 {
		return 0
	}
	return remaining
}

func counterKey(key string) string {
	return "ratelimit:ip:" + key
}
