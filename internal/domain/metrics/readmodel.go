package metrics

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	vo "github.com/orris-inc/tally/internal/domain/billing/valueobjects"
)

// PricedSubscription is the slice of a subscription MRR needs.
type PricedSubscription struct {
	StartDate    time.Time
	Price        decimal.Decimal
	BillingCycle vo.BillingCycle
}

// Period is a subscription's lifetime; End is nil while it is still open.
type Period struct {
	Start time.Time
	End   *time.Time
}

// PlanShare groups active subscriptions by plan name; Revenue sums their
// unnormalized prices.
type PlanShare struct {
	PlanName      string
	Subscriptions int64
	Revenue       decimal.Decimal
}

type DatedAmount struct {
	Date   time.Time
	Amount decimal.Decimal
}

// BillingReader answers the aggregate questions metrics are built from.
// Every method is scoped to subscriptions of accounts owned by userID.
type BillingReader interface {
	// ListActiveSubscriptions returns active subscriptions, restricted to
	// those whose start date lies within startedWithin when it is set.
	ListActiveSubscriptions(ctx context.Context, userID string, startedWithin *vo.DateRange) ([]PricedSubscription, error)
	// CountAliveAt counts subscriptions of any status that had started by at
	// and had not ended before it.
	CountAliveAt(ctx context.Context, userID string, at time.Time) (int64, error)
	CountCanceledWithin(ctx context.Context, userID string, r vo.DateRange) (int64, error)
	// CountActive counts active subscriptions, restricted to those
	// overlapping the range when it is set.
	CountActive(ctx context.Context, userID string, overlapping *vo.DateRange) (int64, error)
	// ListLifespans returns the periods of active and canceled subscriptions.
	ListLifespans(ctx context.Context, userID string) ([]Period, error)
	SumTransactions(ctx context.Context, userID string, types []vo.TransactionType, within *vo.DateRange) (decimal.Decimal, error)
	ListTransactionAmounts(ctx context.Context, userID string, types []vo.TransactionType, within vo.DateRange) ([]DatedAmount, error)
	PlanDistribution(ctx context.Context, userID string, overlapping vo.DateRange) ([]PlanShare, error)
}
