package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const scanBatchSize = 500

// RedisMetricCache stores computed metric values as plain strings in Redis.
type RedisMetricCache struct {
	client *redis.Client
}

func NewRedisMetricCache(client *redis.Client) *RedisMetricCache {
	return &RedisMetricCache{client: client}
}

func (c *RedisMetricCache) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get cached metric: %w", err)
	}
	return value, true, nil
}

func (c *RedisMetricCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache metric: %w", err)
	}
	return nil
}

// DeleteByPattern collects matching keys with SCAN, never KEYS, and removes
// them with a single DEL.
func (c *RedisMetricCache) DeleteByPattern(ctx context.Context, pattern string) (int64, error) {
	var keys []string
	iter := c.client.Scan(ctx, 0, pattern, scanBatchSize).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("failed to scan cached metrics: %w", err)
	}
	if len(keys) == 0 {
		return 0, nil
	}

	deleted, err := c.client.Del(ctx, keys...).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to delete cached metrics: %w", err)
	}
	return deleted, nil
}
