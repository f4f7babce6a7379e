// Package ratelimit provides request rate limiting backed by an injected
// counter store. Limiter state is never process-global mutable state: callers
// construct a store (Redis in production, in-memory for single-instance and
// tests) and pass it to the HTTP middleware.
// This is part of the platform layer and contains no business logic.
package ratelimit

import (
	"context"
	"time"
)

// Store is a key → counter store with TTL semantics. Incr increments the
// counter for key, starting a new window of length ttl when the key is absent,
// and returns the post-increment count.
type Store interface {
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// Limiter enforces a fixed-window limit of n events per window per key.
type Limiter struct {
	store  Store
	limit  int64
	window time.Duration
}

// NewLimiter creates a limiter allowing limit events per window.
func NewLimiter(store Store, limit int, window time.Duration) *Limiter {
	return &Limiter{store: store, limit: int64(limit), window: window}
}

// Allow reports whether the event identified by key is within the limit.
// Store errors fail open: rate limiting is protective, not business-critical,
// and a Redis outage must not take the public form down with it.
func (l *Limiter) Allow(ctx context.Context, key string) bool {
	count, err := l.store.Incr(ctx, key, l.window)
	if err != nil {
		return true
	}
	return count <= l.limit
}
