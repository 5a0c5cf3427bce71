package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/EuricoCruz/shodan_enrichment/internal/domain/entity"
	"github.com/EuricoCruz/shodan_enrichment/internal/domain/repository"
)

// minKeyTTL keeps idle buckets around long enough to matter without accumulating orphan keys
const minKeyTTL = time.Minute

// RedisGate implements repository.DispatchGate using Redis as a shared backend
type RedisGate struct {
	client *redis.Client
}

// NewRedisGate creates a new RedisGate using dependency injection
func NewRedisGate(client *redis.Client) *RedisGate {
	return &RedisGate{
		client: client,
	}
}

// Close closes the Redis connection
func (r *RedisGate) Close() error {
	return r.client.Close()
}

// CheckAndConsume runs the token bucket script atomically for the lane
func (r *RedisGate) CheckAndConsume(
	ctx context.Context,
	key entity.LimiterKey,
	limit int,
	window time.Duration,
) (*repository.CheckResult, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got: %d", limit)
	}
	if window < time.Millisecond {
		return nil, fmt.Errorf("window must be at least 1ms, got: %v", window)
	}

	keyStr := key.String()
	tokensKey, lastRefillKey := r.generateTokenKeys(keyStr)

	result, err := r.executeTokenBucketScript(ctx, tokensKey, lastRefillKey, limit, window)
	if err != nil {
		return nil, fmt.Errorf("failed to execute token bucket script for key %s: %w", keyStr, err)
	}

	allowed, retryAfter, err := r.parseScriptResult(result)
	if err != nil {
		return nil, fmt.Errorf("failed to parse script result for key %s: %w", keyStr, err)
	}

	return &repository.CheckResult{
		Allowed:    allowed,
		RetryAfter: retryAfter,
	}, nil
}

// generateTokenKeys builds the Redis keys used by the token bucket
func (r *RedisGate) generateTokenKeys(keyStr string) (tokensKey, lastRefillKey string) {
	return keyStr + ":tokens", keyStr + ":last_refill"
}

func (r *RedisGate) executeTokenBucketScript(
	ctx context.Context,
	tokensKey, lastRefillKey string,
	limit int,
	window time.Duration,
) (interface{}, error) {
	ttl := 10 * window
	if ttl < minKeyTTL {
		ttl = minKeyTTL
	}

	result, err := tokenBucketScript.Run(
		ctx,
		r.client,
		[]string{tokensKey, lastRefillKey},
		limit, window.Milliseconds(), ttl.Milliseconds(),
	).Result()
	if err != nil {
		return nil, fmt.Errorf("redis script execution failed: %w", err)
	}

	return result, nil
}

// parseScriptResult expects [allowed (int64), retry_after_ms (int64)]
func (r *RedisGate) parseScriptResult(result interface{}) (bool, time.Duration, error) {
	resultSlice, ok := result.([]interface{})
	if !ok {
		return false, 0, fmt.Errorf("expected array result, got: %T", result)
	}
	if len(resultSlice) != 2 {
		return false, 0, fmt.Errorf("expected 2 elements in result array, got: %d", len(resultSlice))
	}

	allowedValue, ok := resultSlice[0].(int64)
	if !ok {
		return false, 0, fmt.Errorf("expected int64 for allowed flag, got: %T", resultSlice[0])
	}
	retryAfterMs, ok := resultSlice[1].(int64)
	if !ok {
		return false, 0, fmt.Errorf("expected int64 for retry after, got: %T", resultSlice[1])
	}

	return allowedValue == 1, time.Duration(retryAfterMs) * time.Millisecond, nil
}
