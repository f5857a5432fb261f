package services

import (
	"context"
	"fmt"

	"github.com/orris-inc/tally/internal/shared/logger"
)

// CacheInvalidator drops every cached metric of a user after their billing
// records change.
type CacheInvalidator struct {
	cache  MetricCache
	logger logger.Interface
}

func NewCacheInvalidator(cache MetricCache, logger logger.Interface) *CacheInvalidator {
	return &CacheInvalidator{cache: cache, logger: logger}
}

// Invalidate removes the user's entries and reports how many were removed.
func (i *CacheInvalidator) Invalidate(ctx context.Context, userID string) (int64, error) {
	deleted, err := i.cache.DeleteByPattern(ctx, UserCachePattern(userID))
	if err != nil {
		return 0, fmt.Errorf("failed to invalidate metrics cache for user %s: %w", userID, err)
	}
	i.logger.Debugw("metrics cache invalidated", "user_id", userID, "deleted", deleted)
	return deleted, nil
}
