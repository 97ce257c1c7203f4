package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter hands out one token bucket per key
type RateLimiter struct {
	buckets map[string]*bucket
	limit   int
	window  time.Duration
	mu      sync.Mutex
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// New creates a limiter allowing limit requests per window for each key.
// A limit of 0 denies everything.
func New(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		buckets: make(map[string]*bucket),
		limit:   limit,
		window:  window,
	}
}

func (rl *RateLimiter) get(key string, now time.Time) *bucket {
	b, ok := rl.buckets[key]
	if !ok {
		var every rate.Limit
		if rl.limit > 0 {
			every = rate.Every(rl.window / time.Duration(rl.limit))
		}
		b = &bucket{limiter: rate.NewLimiter(every, rl.limit)}
		rl.buckets[key] = b
	}
	b.lastSeen = now
	return b
}

// Allow checks if a request is allowed for the given key
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	return rl.get(key, now).limiter.AllowN(now, 1)
}

// GetRemaining returns the number of whole tokens left for the given key
func (rl *RateLimiter) GetRemaining(key string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	remaining := int(rl.get(key, now).limiter.TokensAt(now))
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}

// RetryAfter is how long the key has to wait for its next token
func (rl *RateLimiter) RetryAfter(key string) time.Duration {
	if rl.limit <= 0 {
		return rl.window
	}
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	r := rl.get(key, now).limiter.ReserveN(now, 1)
	if !r.OK() {
		return rl.window
	}
	delay := r.DelayFrom(now)
	r.CancelAt(now)
	return delay
}

// Limit is the configured number of requests per window
func (rl *RateLimiter) Limit() int {
	return rl.limit
}

// Cleanup removes buckets that have not been used for a full window
func (rl *RateLimiter) Cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-rl.window)
	for key, b := range rl.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(rl.buckets, key)
		}
	}
}

// StartCleanup starts a background cleanup routine that stops with done
func (rl *RateLimiter) StartCleanup(interval time.Duration, done <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				rl.Cleanup()
			case <-done:
				return
			}
		}
	}()
}
