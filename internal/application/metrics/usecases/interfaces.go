package usecases

import (
	"context"

	"github.com/shopspring/decimal"

	vo "github.com/orris-inc/tally/internal/domain/billing/valueobjects"
	"github.com/orris-inc/tally/internal/domain/metrics"
)

// MetricsCalculator is the cached aggregator the use cases read through.
type MetricsCalculator interface {
	GetAllMetrics(ctx context.Context, userID string, r *vo.DateRange) (*metrics.Metrics, error)
	CalculateChurnRate(ctx context.Context, userID string, r vo.DateRange) (decimal.Decimal, error)
}

type CacheInvalidator interface {
	Invalidate(ctx context.Context, userID string) (int64, error)
}

type InvalidationRecorder interface {
	CacheInvalidated(source string, keys int64)
}

type nopRecorder struct{}

func (nopRecorder) CacheInvalidated(string, int64) {}
