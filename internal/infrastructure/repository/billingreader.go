package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	vo "github.com/orris-inc/tally/internal/domain/billing/valueobjects"
	"github.com/orris-inc/tally/internal/domain/metrics"
	"github.com/orris-inc/tally/internal/shared/constants"
	"github.com/orris-inc/tally/internal/shared/db"
)

const unknownPlanName = "Unknown Plan"

// BillingReader answers the metrics read model with aggregate SQL over
// subscriptions joined to their owning account.
type BillingReader struct {
	db *gorm.DB
}

func NewBillingReader(db *gorm.DB) *BillingReader {
	return &BillingReader{db: db}
}

func (r *BillingReader) subscriptions(ctx context.Context, userID string) *gorm.DB {
	return db.GetTxFromContext(ctx, r.db).
		Table(constants.TableSubscriptions+" AS s").
		Joins("JOIN "+constants.TableAccounts+" AS a ON a.id = s.account_id").
		Where("a.user_id = ?", userID)
}

func (r *BillingReader) transactions(ctx context.Context, userID string, types []vo.TransactionType) *gorm.DB {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	return db.GetTxFromContext(ctx, r.db).
		Table(constants.TableTransactions+" AS t").
		Joins("JOIN "+constants.TableSubscriptions+" AS s ON s.id = t.subscription_id").
		Joins("JOIN "+constants.TableAccounts+" AS a ON a.id = s.account_id").
		Where("a.user_id = ? AND t.type IN ?", userID, names)
}

func overlapping(query *gorm.DB, r vo.DateRange) *gorm.DB {
	return query.
		Where("s.start_date <= ?", r.End).
		Where("s.end_date IS NULL OR s.end_date >= ?", r.Start)
}

func (r *BillingReader) ListActiveSubscriptions(ctx context.Context, userID string, startedWithin *vo.DateRange) ([]metrics.PricedSubscription, error) {
	query := r.subscriptions(ctx, userID).Where("s.status = ?", vo.StatusActive.String())
	if startedWithin != nil {
		query = query.Where("s.start_date BETWEEN ? AND ?", startedWithin.Start, startedWithin.End)
	}

	var rows []struct {
		StartDate    time.Time
		Price        decimal.Decimal
		BillingCycle string
	}
	if err := query.Select("s.start_date, s.price, s.billing_cycle").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list active subscriptions: %w", err)
	}

	out := make([]metrics.PricedSubscription, len(rows))
	for i, row := range rows {
		out[i] = metrics.PricedSubscription{
			StartDate:    row.StartDate.UTC(),
			Price:        row.Price,
			BillingCycle: vo.BillingCycle(row.BillingCycle),
		}
	}
	return out, nil
}

func (r *BillingReader) CountAliveAt(ctx context.Context, userID string, at time.Time) (int64, error) {
	at = at.UTC()
	var n int64
	err := r.subscriptions(ctx, userID).
		Where("s.start_date <= ?", at).
		Where("s.end_date IS NULL OR s.end_date >= ?", at).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count subscriptions alive at %s: %w", at.Format(time.RFC3339), err)
	}
	return n, nil
}

func (r *BillingReader) CountCanceledWithin(ctx context.Context, userID string, rng vo.DateRange) (int64, error) {
	var n int64
	err := r.subscriptions(ctx, userID).
		Where("s.status = ?", vo.StatusCanceled.String()).
		Where("s.end_date BETWEEN ? AND ?", rng.Start, rng.End).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count canceled subscriptions: %w", err)
	}
	return n, nil
}

func (r *BillingReader) CountActive(ctx context.Context, userID string, rng *vo.DateRange) (int64, error) {
	query := r.subscriptions(ctx, userID).Where("s.status = ?", vo.StatusActive.String())
	if rng != nil {
		query = overlapping(query, *rng)
	}
	var n int64
	if err := query.Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count active subscriptions: %w", err)
	}
	return n, nil
}

func (r *BillingReader) ListLifespans(ctx context.Context, userID string) ([]metrics.Period, error) {
	var rows []struct {
		StartDate time.Time
		EndDate   *time.Time
	}
	var statuses []string
	for _, s := range vo.LifespanStatuses() {
		statuses = append(statuses, s.String())
	}
	err := r.subscriptions(ctx, userID).
		Where("s.status IN ?", statuses).
		Select("s.start_date, s.end_date").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list subscription lifespans: %w", err)
	}

	out := make([]metrics.Period, len(rows))
	for i, row := range rows {
		out[i] = metrics.Period{Start: row.StartDate.UTC()}
		if row.EndDate != nil {
			end := row.EndDate.UTC()
			out[i].End = &end
		}
	}
	return out, nil
}

func (r *BillingReader) SumTransactions(ctx context.Context, userID string, types []vo.TransactionType, within *vo.DateRange) (decimal.Decimal, error) {
	query := r.transactions(ctx, userID, types)
	if within != nil {
		query = query.Where("t.date BETWEEN ? AND ?", within.Start, within.End)
	}

	var total decimal.NullDecimal
	if err := query.Select("SUM(t.amount)").Row().Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum transactions: %w", err)
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

func (r *BillingReader) ListTransactionAmounts(ctx context.Context, userID string, types []vo.TransactionType, within vo.DateRange) ([]metrics.DatedAmount, error) {
	var rows []struct {
		Date   time.Time
		Amount decimal.Decimal
	}
	err := r.transactions(ctx, userID, types).
		Where("t.date BETWEEN ? AND ?", within.Start, within.End).
		Select("t.date, t.amount").
		Order("t.date").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list transaction amounts: %w", err)
	}

	out := make([]metrics.DatedAmount, len(rows))
	for i, row := range rows {
		out[i] = metrics.DatedAmount{Date: row.Date.UTC(), Amount: row.Amount}
	}
	return out, nil
}

func (r *BillingReader) PlanDistribution(ctx context.Context, userID string, rng vo.DateRange) ([]metrics.PlanShare, error) {
	var rows []struct {
		PlanName      string
		Subscriptions int64
		Revenue       decimal.NullDecimal
	}
	err := overlapping(r.subscriptions(ctx, userID).Where("s.status = ?", vo.StatusActive.String()), rng).
		Select("s.plan_name AS plan_name, COUNT(*) AS subscriptions, SUM(s.price) AS revenue").
		Group("s.plan_name").
		Order("subscriptions DESC").
		Order("plan_name").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get plan distribution: %w", err)
	}

	out := make([]metrics.PlanShare, len(rows))
	for i, row := range rows {
		name := row.PlanName
		if name == "" {
			name = unknownPlanName
		}
		out[i] = metrics.PlanShare{PlanName: name, Subscriptions: row.Subscriptions, Revenue: row.Revenue.Decimal}
	}
	return out, nil
}
