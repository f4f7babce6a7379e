package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// MemoryLimiter is a per-key token-bucket limiter for single-instance
// deployments without Redis. It satisfies the same Allow contract as Limiter.
type MemoryLimiter struct {
	limiters sync.Map
	rate     rate.Limit
	burst    int
}

// NewMemoryLimiter creates an in-memory limiter allowing limit events per
// window with the given burst.
func NewMemoryLimiter(limit int, window time.Duration, burst int) *MemoryLimiter {
	return &MemoryLimiter{
		rate:  rate.Limit(float64(limit) / window.Seconds()),
		burst: burst,
	}
}

func (m *MemoryLimiter) getLimiter(key string) *rate.Limiter {
	if existing, ok := m.limiters.Load(key); ok {
		return existing.(*rate.Limiter)
	}
	limiter := rate.NewLimiter(m.rate, m.burst)
	actual, _ := m.limiters.LoadOrStore(key, limiter)
	return actual.(*rate.Limiter)
}

// Allow reports whether the event identified by key is within the limit.
func (m *MemoryLimiter) Allow(_ context.Context, key string) bool {
	return m.getLimiter(key).Allow()
}

// KeyLimiter is the subset of limiter behavior the HTTP middleware needs.
type KeyLimiter interface {
	Allow(ctx context.Context, key string) bool
}

var (
	_ KeyLimiter = (*MemoryLimiter)(nil)
	_ KeyLimiter = (*Limiter)(nil)
)
