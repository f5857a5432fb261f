package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/orris-inc/tally/internal/shared/config"
)

const (
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

// MetricStore is the capability the metrics aggregator and invalidator need.
type MetricStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) (int64, error)
}

// NewRedisClient connects and pings once so misconfiguration fails at startup.
func NewRedisClient(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetAddr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.GetAddr(), err)
	}
	return client, nil
}

// NewMetricStore picks the backend named by driver. The memory store is
// private to one process, so invalidation from a webhook on another
// instance cannot reach it.
func NewMetricStore(driver string, client *redis.Client) (MetricStore, error) {
	switch driver {
	case DriverMemory:
		return NewMemoryMetricCache(), nil
	case DriverRedis, "":
		if client == nil {
			return nil, fmt.Errorf("redis metric cache requires a redis client")
		}
		return NewRedisMetricCache(client), nil
	default:
		return nil, fmt.Errorf("unknown metrics cache driver %q", driver)
	}
}
