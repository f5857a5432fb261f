package cache

import (
	"context"
	"path"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const memoryCleanupInterval = 10 * time.Minute

// MemoryMetricCache keeps metrics in process memory. It backs single-instance
// deployments and the CLI when no Redis is configured.
type MemoryMetricCache struct {
	store *gocache.Cache
}

func NewMemoryMetricCache() *MemoryMetricCache {
	return &MemoryMetricCache{store: gocache.New(gocache.NoExpiration, memoryCleanupInterval)}
}

func (c *MemoryMetricCache) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := c.store.Get(key)
	if !ok {
		return "", false, nil
	}
	s, ok := v.(string)
	return s, ok, nil
}

func (c *MemoryMetricCache) Set(_ context.Context, key, value string, ttl time.Duration) error {
	c.store.Set(key, value, ttl)
	return nil
}

// DeleteByPattern uses the same glob rules as Redis MATCH for the patterns
// the invalidator produces.
func (c *MemoryMetricCache) DeleteByPattern(_ context.Context, pattern string) (int64, error) {
	if _, err := path.Match(pattern, ""); err != nil {
		return 0, err
	}

	var deleted int64
	for key := range c.store.Items() {
		if ok, _ := path.Match(pattern, key); ok {
			c.store.Delete(key)
			deleted++
		}
	}
	return deleted, nil
}
