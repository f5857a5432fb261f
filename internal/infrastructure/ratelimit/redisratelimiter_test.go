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

func setupTestRedis(t *testing.T) *redis.Client {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client
}

func TestRedisRateLimiter_Allow(t *testing.T) {
	ctx := context.Background()
	limiter := NewRedisRateLimiter(setupTestRedis(t))
	limit := PerMinute(3)

	for i := 0; i < 3; i++ {
		allowed, err := limiter.Allow(ctx, "1.2.3.4", limit)
		require.NoError(t, err)
		assert.True(t, allowed, "request %d should be allowed", i+1)
	}

	allowed, err := limiter.Allow(ctx, "1.2.3.4", limit)
	require.NoError(t, err)
	assert.False(t, allowed, "4th request should be denied")

	allowed, err = limiter.Allow(ctx, "5.6.7.8", limit)
	require.NoError(t, err)
	assert.True(t, allowed, "other keys have their own window")
}

func TestRedisRateLimiter_WindowSlides(t *testing.T) {
	ctx := context.Background()
	limiter := NewRedisRateLimiter(setupTestRedis(t))
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }
	limit := PerMinute(2)

	for i := 0; i < 2; i++ {
		allowed, err := limiter.Allow(ctx, "k", limit)
		require.NoError(t, err)
		require.True(t, allowed)
	}
	allowed, err := limiter.Allow(ctx, "k", limit)
	require.NoError(t, err)
	assert.False(t, allowed)

	now = now.Add(61 * time.Second)
	allowed, err = limiter.Allow(ctx, "k", limit)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRedisRateLimiter_RemainingAndReset(t *testing.T) {
	ctx := context.Background()
	limiter := NewRedisRateLimiter(setupTestRedis(t))
	limit := PerMinute(5)

	for i := 0; i < 2; i++ {
		_, err := limiter.Allow(ctx, "k", limit)
		require.NoError(t, err)
	}

	remaining, err := limiter.Remaining(ctx, "k", limit)
	require.NoError(t, err)
	assert.Equal(t, int64(3), remaining)

	require.NoError(t, limiter.Reset(ctx, "k"))
	remaining, err = limiter.Remaining(ctx, "k", limit)
	require.NoError(t, err)
	assert.Equal(t, int64(5), remaining)
}

func TestRedisRateLimiter_ZeroLimitDisables(t *testing.T) {
	limiter := NewRedisRateLimiter(setupTestRedis(t))
	allowed, err := limiter.Allow(context.Background(), "k", PerMinute(0))
	require.NoError(t, err)
	assert.True(t, allowed)
}
