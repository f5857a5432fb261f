package services

import (
	"context"
	"strings"
	"time"

	"github.com/orris-inc/tally/internal/domain/billing/valueobjects"
	"github.com/orris-inc/tally/internal/domain/metrics"
	"github.com/orris-inc/tally/internal/shared/constants"
)

// MetricCache is the key/value store computed metrics are memoized in.
// Get reports found=false with a nil error for a missing key.
type MetricCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// DeleteByPattern removes every key matching a glob pattern and returns
	// how many were removed.
	DeleteByPattern(ctx context.Context, pattern string) (int64, error)
}

// Recorder observes cache effectiveness and computation cost.
type Recorder interface {
	CacheHit(metric string)
	CacheMiss(metric string)
	ObserveComputation(metric string, elapsed time.Duration, err error)
}

type nopRecorder struct{}

func (nopRecorder) CacheHit(string)                                 {}
func (nopRecorder) CacheMiss(string)                                {}
func (nopRecorder) ObserveComputation(string, time.Duration, error) {}

// MetricCacheKey builds metrics:{userID}:{metric}:{range}. The user ID leads
// so one glob removes all of a user's entries and nobody else's.
func MetricCacheKey(userID string, name metrics.Name, r *valueobjects.DateRange) string {
	return constants.MetricsCacheKeyPrefix + ":" + userID + ":" + name.String() + ":" + r.Key()
}

var globEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)

// UserCachePattern matches every cached metric of userID, with glob
// metacharacters in the ID escaped.
func UserCachePattern(userID string) string {
	return constants.MetricsCacheKeyPrefix + ":" + globEscaper.Replace(userID) + ":*"
}
