package redis_test

import (
	"context"
	"testing"
	"time"

	redisadapter "github.com/Kavermo/StreamHive/core-service/internal/adapters/db/redis"
	customErrors "github.com/Kavermo/StreamHive/core-service/internal/domain/errors"
	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newLimiter(t *testing.T, maxAttempts int, window time.Duration) (*redisadapter.RedisLoginLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return redisadapter.NewRedisLoginLimiter(client, maxAttempts, window), mr
}

func TestLoginLimiter_AllowsUpToMax(t *testing.T) {
	limiter, _ := newLimiter(t, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, limiter.Allow(ctx, "user@example.com", "10.0.0.1"))
	}
	err := limiter.Allow(ctx, "user@example.com", "10.0.0.1")
	require.ErrorIs(t, err, customErrors.ErrRateLimited)
}

func TestLoginLimiter_IdentifiersAreIndependent(t *testing.T) {
	limiter, _ := newLimiter(t, 1, time.Minute)
	ctx := context.Background()

	require.NoError(t, limiter.Allow(ctx, "a@example.com", "10.0.0.1"))
	// Same IP is now over its limit even for a fresh identifier.
	require.ErrorIs(t, limiter.Allow(ctx, "b@example.com", "10.0.0.1"), customErrors.ErrRateLimited)
	// Fresh identifier from a fresh IP is fine.
	require.NoError(t, limiter.Allow(ctx, "c@example.com", "10.0.0.2"))
}

func TestLoginLimiter_ResetClearsIdentifier(t *testing.T) {
	limiter, _ := newLimiter(t, 1, time.Minute)
	ctx := context.Background()

	require.NoError(t, limiter.Allow(ctx, "user@example.com", ""))
	require.ErrorIs(t, limiter.Allow(ctx, "user@example.com", ""), customErrors.ErrRateLimited)

	require.NoError(t, limiter.Reset(ctx, "user@example.com"))
	require.NoError(t, limiter.Allow(ctx, "user@example.com", ""))
}

func TestLoginLimiter_WindowExpires(t *testing.T) {
	limiter, mr := newLimiter(t, 1, time.Minute)
	ctx := context.Background()

	require.NoError(t, limiter.Allow(ctx, "user@example.com", "10.0.0.1"))
	require.ErrorIs(t, limiter.Allow(ctx, "user@example.com", "10.0.0.1"), customErrors.ErrRateLimited)

	mr.FastForward(time.Minute + time.Second)
	require.NoError(t, limiter.Allow(ctx, "user@example.com", "10.0.0.1"))
}

func TestLoginLimiter_StoreDown(t *testing.T) {
	limiter, mr := newLimiter(t, 3, time.Minute)
	mr.Close()

	err := limiter.Allow(context.Background(), "user@example.com", "10.0.0.1")
	require.ErrorIs(t, err, customErrors.ErrStoreUnavailable)
}
