package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, "test"), mr
}

func TestRedisStore_IncrCountsWithinWindow(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := store.Incr(ctx, "ip:1.2.3.4", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestRedisStore_WindowExpires(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	_, err := store.Incr(ctx, "ip:1.2.3.4", time.Minute)
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	got, err := store.Incr(ctx, "ip:1.2.3.4", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got, "counter should reset after the window")
}

func TestLimiter_Allow(t *testing.T) {
	store, _ := newTestStore(t)
	limiter := NewLimiter(store, 2, time.Minute)
	ctx := context.Background()

	assert.True(t, limiter.Allow(ctx, "k"))
	assert.True(t, limiter.Allow(ctx, "k"))
	assert.False(t, limiter.Allow(ctx, "k"))
	assert.True(t, limiter.Allow(ctx, "other"), "keys are independent")
}

func TestLimiter_FailsOpenOnStoreError(t *testing.T) {
	store, mr := newTestStore(t)
	limiter := NewLimiter(store, 1, time.Minute)

	mr.Close()

	assert.True(t, limiter.Allow(context.Background(), "k"))
}
