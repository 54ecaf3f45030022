package services

import (
	"context"
	"log"
	"sync"
	"time"
)

// TokenBucketLimiter is an in-memory, per-key token bucket store.
//
// Each bucket starts at full capacity and refills to full at window
// boundaries rather than smoothly, matching the published quota
// semantics ("N requests per window"). Buckets are created lazily on
// first sighting; a background sweep drops buckets that have been idle
// long enough that recreating them at capacity observes the same
// state, so the map stays bounded under churning client addresses.
//
// Safe for concurrent use.
type TokenBucketLimiter struct {
	capacity int
	window   time.Duration
	now      func() time.Time

	mu      sync.Mutex
	buckets map[string]*tokenBucket

	stop     chan struct{}
	stopOnce sync.Once
}

type tokenBucket struct {
	tokens     int
	lastRefill time.Time
	lastSeen   time.Time
}

// NewTokenBucketLimiter creates a limiter allowing capacity requests
// per window per key and starts its eviction sweep.
func NewTokenBucketLimiter(capacity int, window time.Duration) *TokenBucketLimiter {
	l := newTokenBucketLimiter(capacity, window, time.Now)
	go l.sweepLoop()
	return l
}

func newTokenBucketLimiter(capacity int, window time.Duration, now func() time.Time) *TokenBucketLimiter {
	return &TokenBucketLimiter{
		capacity: capacity,
		window:   window,
		now:      now,
		buckets:  make(map[string]*tokenBucket),
		stop:     make(chan struct{}),
	}
}

// TryConsume takes one token from the key's bucket, creating it at full
// capacity on first sighting. Reports whether a token was taken.
func (l *TokenBucketLimiter) TryConsume(_ context.Context, key string) bool {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		b = &tokenBucket{tokens: l.capacity, lastRefill: now}
		l.buckets[key] = b
		log.Printf("rate limiter: new bucket key=%s capacity=%d", key, l.capacity)
	}
	b.lastSeen = now
	l.refill(b, now)

	if b.tokens == 0 {
		return false
	}
	b.tokens--
	return true
}

// Remaining returns the key's current token count; keys that have never
// consumed report the full capacity.
func (l *TokenBucketLimiter) Remaining(_ context.Context, key string) int {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		return l.capacity
	}
	l.refill(b, now)

	return b.tokens
}

// Close stops the eviction sweep. Idempotent.
func (l *TokenBucketLimiter) Close() {
	l.stopOnce.Do(func() { close(l.stop) })
}

// refill restores the bucket to capacity once per elapsed window,
// keeping refill instants aligned to fixed window boundaries.
func (l *TokenBucketLimiter) refill(b *tokenBucket, now time.Time) {
	elapsed := now.Sub(b.lastRefill)
	if elapsed < l.window {
		return
	}

	b.tokens = l.capacity
	b.lastRefill = b.lastRefill.Add(elapsed - elapsed%l.window)
}

func (l *TokenBucketLimiter) sweepLoop() {
	ticker := time.NewTicker(l.window)
	defer ticker.Stop()

	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			l.sweep()
		}
	}
}

// sweep drops buckets idle for at least two windows. Such buckets would
// refill to full capacity on their next touch anyway, so evicting and
// lazily recreating them never grants or removes tokens.
func (l *TokenBucketLimiter) sweep() {
	cutoff := l.now().Add(-2 * l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	for key, b := range l.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(l.buckets, key)
		}
	}
}
