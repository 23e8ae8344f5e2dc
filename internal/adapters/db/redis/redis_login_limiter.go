package redis

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"

	customErrors "github.com/Kavermo/StreamHive/core-service/internal/domain/errors"
	"github.com/redis/go-redis/v9"
)

// RedisLoginLimiter throttles credential checks per identifier (hashed
// email) and per client IP in a fixed window. It protects the credential
// verifier from online brute force; the per-IP request limiter in the HTTP
// layer is independent of it.
type RedisLoginLimiter struct {
	client      *redis.Client
	maxAttempts int
	window      time.Duration
}

func NewRedisLoginLimiter(client *redis.Client, maxAttempts int, window time.Duration) *RedisLoginLimiter {
	return &RedisLoginLimiter{
		client:      client,
		maxAttempts: maxAttempts,
		window:      window,
	}
}

func (r *RedisLoginLimiter) Allow(ctx context.Context, identifier, ip string) error {
	if err := r.bump(ctx, identifierKey(identifier)); err != nil {
		return err
	}
	if ip != "" {
		return r.bump(ctx, ipKey(ip))
	}
	return nil
}

// Reset clears the identifier counter after a successful login so a
// legitimate user is not locked out by their own earlier typos.
func (r *RedisLoginLimiter) Reset(ctx context.Context, identifier string) error {
	return r.client.Del(ctx, identifierKey(identifier)).Err()
}

func (r *RedisLoginLimiter) bump(ctx context.Context, key string) error {
	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return customErrors.WrapStoreUnavailable(err, "LoginLimiter")
	}
	if count == 1 {
		if err := r.client.Expire(ctx, key, r.window).Err(); err != nil {
			return customErrors.WrapStoreUnavailable(err, "LoginLimiter")
		}
	}
	if count > int64(r.maxAttempts) {
		return customErrors.ErrRateLimited
	}
	return nil
}

func identifierKey(identifier string) string {
	return fmt.Sprintf("la:%x", sha256.Sum256([]byte(identifier)))
}

func ipKey(ip string) string {
	return "laip:" + ip
}
