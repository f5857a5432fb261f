package usecases

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	vo "github.com/orris-inc/tally/internal/domain/billing/valueobjects"
	"github.com/orris-inc/tally/internal/domain/metrics"
)

type mockCalculator struct {
	GetAllMetricsFunc      func(ctx context.Context, userID string, r *vo.DateRange) (*metrics.Metrics, error)
	CalculateChurnRateFunc func(ctx context.Context, userID string, r vo.DateRange) (decimal.Decimal, error)
}

func (m *mockCalculator) GetAllMetrics(ctx context.Context, userID string, r *vo.DateRange) (*metrics.Metrics, error) {
	if m.GetAllMetricsFunc != nil {
		return m.GetAllMetricsFunc(ctx, userID, r)
	}
	return &metrics.Metrics{}, nil
}

func (m *mockCalculator) CalculateChurnRate(ctx context.Context, userID string, r vo.DateRange) (decimal.Decimal, error) {
	if m.CalculateChurnRateFunc != nil {
		return m.CalculateChurnRateFunc(ctx, userID, r)
	}
	return decimal.Zero, nil
}

type mockReader struct {
	ListActiveSubscriptionsFunc func(ctx context.Context, userID string, startedWithin *vo.DateRange) ([]metrics.PricedSubscription, error)
	ListTransactionAmountsFunc  func(ctx context.Context, userID string, types []vo.TransactionType, within vo.DateRange) ([]metrics.DatedAmount, error)
	PlanDistributionFunc        func(ctx context.Context, userID string, overlapping vo.DateRange) ([]metrics.PlanShare, error)
}

func (m *mockReader) ListActiveSubscriptions(ctx context.Context, userID string, startedWithin *vo.DateRange) ([]metrics.PricedSubscription, error) {
	if m.ListActiveSubscriptionsFunc != nil {
		return m.ListActiveSubscriptionsFunc(ctx, userID, startedWithin)
	}
	return nil, nil
}

func (m *mockReader) CountAliveAt(context.Context, string, time.Time) (int64, error) {
	return 0, nil
}

func (m *mockReader) CountCanceledWithin(context.Context, string, vo.DateRange) (int64, error) {
	return 0, nil
}

func (m *mockReader) CountActive(context.Context, string, *vo.DateRange) (int64, error) {
	return 0, nil
}

func (m *mockReader) ListLifespans(context.Context, string) ([]metrics.Period, error) {
	return nil, nil
}

func (m *mockReader) SumTransactions(context.Context, string, []vo.TransactionType, *vo.DateRange) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (m *mockReader) ListTransactionAmounts(ctx context.Context, userID string, types []vo.TransactionType, within vo.DateRange) ([]metrics.DatedAmount, error) {
	if m.ListTransactionAmountsFunc != nil {
		return m.ListTransactionAmountsFunc(ctx, userID, types, within)
	}
	return nil, nil
}

func (m *mockReader) PlanDistribution(ctx context.Context, userID string, overlapping vo.DateRange) ([]metrics.PlanShare, error) {
	if m.PlanDistributionFunc != nil {
		return m.PlanDistributionFunc(ctx, userID, overlapping)
	}
	return nil, nil
}

type mockSnapshotRepository struct {
	UpsertFunc func(ctx context.Context, s *metrics.Snapshot) error
	GetFunc    func(ctx context.Context, userID, rangeLabel string) (*metrics.Snapshot, error)
}

func (m *mockSnapshotRepository) Upsert(ctx context.Context, s *metrics.Snapshot) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, s)
	}
	return nil
}

func (m *mockSnapshotRepository) Get(ctx context.Context, userID, rangeLabel string) (*metrics.Snapshot, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, userID, rangeLabel)
	}
	return nil, nil
}

type mockUserLister struct {
	ids []string
	err error
}

func (m *mockUserLister) ListActiveUserIDs(context.Context) ([]string, error) {
	return m.ids, m.err
}

type mockInvalidator struct {
	deleted int64
	err     error
	calls   []string
}

func (m *mockInvalidator) Invalidate(_ context.Context, userID string) (int64, error) {
	m.calls = append(m.calls, userID)
	return m.deleted, m.err
}
