// Package services computes per-user subscription metrics on top of the
// billing read model and memoizes them in a MetricCache.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	vo "github.com/orris-inc/tally/internal/domain/billing/valueobjects"
	"github.com/orris-inc/tally/internal/domain/metrics"
	"github.com/orris-inc/tally/internal/shared/biztime"
	"github.com/orris-inc/tally/internal/shared/logger"
)

const (
	// defaultLifespanMonths is assumed when a user has no active or canceled
	// subscription to measure, or their average lifespan is zero.
	defaultLifespanMonths = 12
	secondsPerMonth       = 30 * 24 * 60 * 60
)

// MetricsAggregator computes MRR, churn, LTV, active users, revenue and
// refunds. Every metric is read through the cache; concurrent computations of
// the same key in this process share one store round trip.
type MetricsAggregator struct {
	reader   metrics.BillingReader
	cache    MetricCache
	ttl      time.Duration
	recorder Recorder
	group    singleflight.Group
	now      func() time.Time
	logger   logger.Interface
}

func NewMetricsAggregator(
	reader metrics.BillingReader,
	cache MetricCache,
	ttl time.Duration,
	logger logger.Interface,
) *MetricsAggregator {
	return &MetricsAggregator{
		reader:   reader,
		cache:    cache,
		ttl:      ttl,
		recorder: nopRecorder{},
		now:      biztime.NowUTC,
		logger:   logger,
	}
}

func (a *MetricsAggregator) SetRecorder(r Recorder) {
	if r != nil {
		a.recorder = r
	}
}

// SetClock overrides the time source used to measure open subscriptions.
func (a *MetricsAggregator) SetClock(now func() time.Time) {
	a.now = now
}

// CalculateMRR sums the monthly-normalized price of active subscriptions.
// With a range, only subscriptions that started inside it are counted.
func (a *MetricsAggregator) CalculateMRR(ctx context.Context, userID string, r *vo.DateRange) (decimal.Decimal, error) {
	return a.cached(ctx, userID, metrics.NameMRR, r, func(ctx context.Context) (decimal.Decimal, error) {
		subs, err := a.reader.ListActiveSubscriptions(ctx, userID, r)
		if err != nil {
			return decimal.Zero, err
		}
		total := decimal.Zero
		for _, s := range subs {
			total = total.Add(vo.NormalizeToMonthlyRevenue(s.Price, s.BillingCycle))
		}
		return total, nil
	})
}

// CalculateChurnRate divides the subscriptions canceled inside r by those
// alive at r.Start, or returns 0 when none were alive.
func (a *MetricsAggregator) CalculateChurnRate(ctx context.Context, userID string, r vo.DateRange) (decimal.Decimal, error) {
	return a.cached(ctx, userID, metrics.NameChurnRate, &r, func(ctx context.Context) (decimal.Decimal, error) {
		atStart, err := a.reader.CountAliveAt(ctx, userID, r.Start)
		if err != nil {
			return decimal.Zero, err
		}
		churned, err := a.reader.CountCanceledWithin(ctx, userID, r)
		if err != nil {
			return decimal.Zero, err
		}
		if atStart == 0 {
			return decimal.Zero, nil
		}
		return decimal.NewFromInt(churned).Div(decimal.NewFromInt(atStart)), nil
	})
}

// CalculateLTV multiplies average revenue per active subscription by the
// average lifespan in 30-day months of active and canceled subscriptions.
// The lifespan ignores r; it is an approximation, not a cohort analysis.
func (a *MetricsAggregator) CalculateLTV(ctx context.Context, userID string, r *vo.DateRange) (decimal.Decimal, error) {
	return a.cached(ctx, userID, metrics.NameLTV, r, func(ctx context.Context) (decimal.Decimal, error) {
		mrr, err := a.CalculateMRR(ctx, userID, r)
		if err != nil {
			return decimal.Zero, err
		}
		active, err := a.GetActiveUsers(ctx, userID, r)
		if err != nil {
			return decimal.Zero, err
		}
		arpu := decimal.Zero
		if active > 0 {
			arpu = mrr.Div(decimal.NewFromInt(active))
		}

		lifespan, err := a.averageLifespanMonths(ctx, userID)
		if err != nil {
			return decimal.Zero, err
		}
		return arpu.Mul(lifespan), nil
	})
}

func (a *MetricsAggregator) averageLifespanMonths(ctx context.Context, userID string) (decimal.Decimal, error) {
	periods, err := a.reader.ListLifespans(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	if len(periods) == 0 {
		return decimal.NewFromInt(defaultLifespanMonths), nil
	}

	now := a.now()
	var totalSeconds int64
	for _, p := range periods {
		end := now
		if p.End != nil {
			end = *p.End
		}
		totalSeconds += int64(end.Sub(p.Start) / time.Second)
	}
	avg := decimal.NewFromInt(totalSeconds).
		Div(decimal.NewFromInt(secondsPerMonth)).
		Div(decimal.NewFromInt(int64(len(periods))))
	if avg.IsZero() {
		return decimal.NewFromInt(defaultLifespanMonths), nil
	}
	return avg, nil
}

// GetActiveUsers counts active subscriptions; with a range only those
// overlapping it.
func (a *MetricsAggregator) GetActiveUsers(ctx context.Context, userID string, r *vo.DateRange) (int64, error) {
	v, err := a.cached(ctx, userID, metrics.NameActiveUsers, r, func(ctx context.Context) (decimal.Decimal, error) {
		n, err := a.reader.CountActive(ctx, userID, r)
		if err != nil {
			return decimal.Zero, err
		}
		return decimal.NewFromInt(n), nil
	})
	if err != nil {
		return 0, err
	}
	return v.IntPart(), nil
}

// GetTotalRevenue sums charge amounts dated inside r, or all of them.
func (a *MetricsAggregator) GetTotalRevenue(ctx context.Context, userID string, r *vo.DateRange) (decimal.Decimal, error) {
	return a.cached(ctx, userID, metrics.NameTotalRevenue, r, func(ctx context.Context) (decimal.Decimal, error) {
		return a.reader.SumTransactions(ctx, userID, []vo.TransactionType{vo.TransactionTypeCharge}, r)
	})
}

// GetTotalRefunds sums full and partial refund amounts. Revenue is never
// netted against it.
func (a *MetricsAggregator) GetTotalRefunds(ctx context.Context, userID string, r *vo.DateRange) (decimal.Decimal, error) {
	return a.cached(ctx, userID, metrics.NameTotalRefunds, r, func(ctx context.Context) (decimal.Decimal, error) {
		return a.reader.SumTransactions(ctx, userID, vo.RefundTypes, r)
	})
}

// GetAllMetrics computes the six metrics concurrently. Churn needs a range
// and is 0 without one. Any single failure fails the whole call.
func (a *MetricsAggregator) GetAllMetrics(ctx context.Context, userID string, r *vo.DateRange) (*metrics.Metrics, error) {
	var m metrics.Metrics
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		m.MRR, err = a.CalculateMRR(gctx, userID, r)
		return err
	})
	g.Go(func() (err error) {
		if r == nil {
			m.ChurnRate = decimal.Zero
			return nil
		}
		m.ChurnRate, err = a.CalculateChurnRate(gctx, userID, *r)
		return err
	})
	g.Go(func() (err error) {
		m.LTV, err = a.CalculateLTV(gctx, userID, r)
		return err
	})
	g.Go(func() (err error) {
		m.ActiveUsers, err = a.GetActiveUsers(gctx, userID, r)
		return err
	})
	g.Go(func() (err error) {
		m.TotalRevenue, err = a.GetTotalRevenue(gctx, userID, r)
		return err
	})
	g.Go(func() (err error) {
		m.TotalRefunds, err = a.GetTotalRefunds(gctx, userID, r)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &m, nil
}

type computeFunc func(ctx context.Context) (decimal.Decimal, error)

func (a *MetricsAggregator) cached(
	ctx context.Context,
	userID string,
	name metrics.Name,
	r *vo.DateRange,
	compute computeFunc,
) (decimal.Decimal, error) {
	key := MetricCacheKey(userID, name, r)

	if v, ok := a.lookup(ctx, key, name); ok {
		return v, nil
	}

	res, err, _ := a.group.Do(key, func() (interface{}, error) {
		started := time.Now()
		v, err := compute(ctx)
		a.recorder.ObserveComputation(name.String(), time.Since(started), err)
		if err != nil {
			return nil, err
		}
		a.store(ctx, key, name, v)
		return v, nil
	})
	if err != nil {
		a.logger.Errorw("metric computation failed",
			"metric", name,
			"user_id", userID,
			"error", err,
		)
		// a dependency's failure (MRR inside LTV) must only match the outer metric
		if metrics.IsCalculationError(err) {
			return decimal.Zero, fmt.Errorf("%w: %v", metrics.ErrFor(name), err)
		}
		return decimal.Zero, fmt.Errorf("%w: %w", metrics.ErrFor(name), err)
	}
	return res.(decimal.Decimal), nil
}

// lookup treats cache errors and unparsable entries as misses.
func (a *MetricsAggregator) lookup(ctx context.Context, key string, name metrics.Name) (decimal.Decimal, bool) {
	raw, found, err := a.cache.Get(ctx, key)
	if err != nil {
		a.logger.Warnw("metric cache read failed, recomputing", "key", key, "error", err)
		a.recorder.CacheMiss(name.String())
		return decimal.Zero, false
	}
	if !found {
		a.recorder.CacheMiss(name.String())
		return decimal.Zero, false
	}

	v, err := decimal.NewFromString(raw)
	if err != nil {
		a.logger.Warnw("discarding unparsable cached metric", "key", key, "value", raw)
		a.recorder.CacheMiss(name.String())
		return decimal.Zero, false
	}
	a.recorder.CacheHit(name.String())
	return v, true
}

func (a *MetricsAggregator) store(ctx context.Context, key string, name metrics.Name, v decimal.Decimal) {
	if err := a.cache.Set(ctx, key, v.String(), a.ttl); err != nil {
		a.logger.Warnw("metric cache write failed", "key", key, "metric", name, "error", err)
	}
}
