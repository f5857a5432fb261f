package usecases

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/orris-inc/tally/internal/application/metrics/dto"
	vo "github.com/orris-inc/tally/internal/domain/billing/valueobjects"
	"github.com/orris-inc/tally/internal/domain/metrics"
	"github.com/orris-inc/tally/internal/shared/biztime"
	"github.com/orris-inc/tally/internal/shared/logger"
)

var hundred = decimal.NewFromInt(100)

type GetDashboardQuery struct {
	UserID string
	RangeQuery
}

// GetDashboardUseCase assembles the summary, charts and plan breakdown for
// one range. Summary figures come from the cached aggregator; charts are
// bucketed from single reads of the record store.
type GetDashboardUseCase struct {
	calculator MetricsCalculator
	reader     metrics.BillingReader
	now        func() time.Time
	logger     logger.Interface
}

func NewGetDashboardUseCase(calculator MetricsCalculator, reader metrics.BillingReader, logger logger.Interface) *GetDashboardUseCase {
	return &GetDashboardUseCase{
		calculator: calculator,
		reader:     reader,
		now:        biztime.NowUTC,
		logger:     logger,
	}
}

func (uc *GetDashboardUseCase) Execute(ctx context.Context, query GetDashboardQuery) (*dto.DashboardDTO, error) {
	r, err := resolveRange(query.RangeQuery, uc.now(), false)
	if err != nil {
		return nil, err
	}
	userID := query.UserID

	var (
		current, previous *metrics.Metrics
		out               = &dto.DashboardDTO{Range: dto.RangeDTO{StartDate: r.Start, EndDate: r.End}}
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		current, err = uc.calculator.GetAllMetrics(gctx, userID, r)
		return err
	})
	g.Go(func() (err error) {
		prev := r.Previous()
		previous, err = uc.calculator.GetAllMetrics(gctx, userID, &prev)
		return err
	})
	g.Go(func() (err error) {
		out.MRRChart, err = uc.mrrChart(gctx, userID, *r)
		return err
	})
	g.Go(func() (err error) {
		out.ChurnChart, err = uc.churnChart(gctx, userID, *r)
		return err
	})
	g.Go(func() (err error) {
		out.RevenueChart, err = uc.revenueChart(gctx, userID, *r)
		return err
	})
	g.Go(func() error {
		shares, err := uc.reader.PlanDistribution(gctx, userID, *r)
		if err != nil {
			return fmt.Errorf("failed to get plan distribution: %w", err)
		}
		out.PlanDistribution = dto.ToPlanShareDTOList(shares)
		return nil
	})

	if err := g.Wait(); err != nil {
		uc.logger.Errorw("failed to build dashboard", "user_id", userID, "error", err)
		return nil, err
	}

	out.Summary = dto.SummaryDTO{
		CurrentMRR:          current.MRR,
		MRRGrowth:           growthPercent(current.MRR, previous.MRR),
		ChurnRate:           current.ChurnRate.Mul(hundred),
		ActiveSubscriptions: current.ActiveUsers,
		TotalRevenue:        current.TotalRevenue,
	}
	return out, nil
}

// growthPercent is 0 when there is no previous MRR to compare against.
func growthPercent(current, previous decimal.Decimal) decimal.Decimal {
	if !previous.IsPositive() {
		return decimal.Zero
	}
	return current.Sub(previous).Div(previous).Mul(hundred).Round(2)
}

// reportingDays returns midnight of every reporting day r touches.
func reportingDays(r vo.DateRange) []time.Time {
	loc := biztime.Location()
	first := r.Start.In(loc)
	last := r.End.In(loc)

	var days []time.Time
	for d := time.Date(first.Year(), first.Month(), first.Day(), 0, 0, 0, 0, loc); !d.After(last); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// mrrChart reports, for each day, the MRR of active subscriptions started
// by the end of that day.
func (uc *GetDashboardUseCase) mrrChart(ctx context.Context, userID string, r vo.DateRange) ([]*dto.ChartPointDTO, error) {
	subs, err := uc.reader.ListActiveSubscriptions(ctx, userID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build MRR chart: %w", err)
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].StartDate.Before(subs[j].StartDate) })

	days := reportingDays(r)
	points := make([]*dto.ChartPointDTO, 0, len(days))
	running := decimal.Zero
	next := 0
	for _, day := range days {
		dayEnd := biztime.EndOfDayUTC(day)
		for next < len(subs) && !subs[next].StartDate.After(dayEnd) {
			running = running.Add(vo.NormalizeToMonthlyRevenue(subs[next].Price, subs[next].BillingCycle))
			next++
		}
		points = append(points, &dto.ChartPointDTO{Date: biztime.FormatDate(day), Value: running})
	}
	return points, nil
}

// revenueChart sums charges per reporting day inside r.
func (uc *GetDashboardUseCase) revenueChart(ctx context.Context, userID string, r vo.DateRange) ([]*dto.ChartPointDTO, error) {
	amounts, err := uc.reader.ListTransactionAmounts(ctx, userID, []vo.TransactionType{vo.TransactionTypeCharge}, r)
	if err != nil {
		return nil, fmt.Errorf("failed to build revenue chart: %w", err)
	}

	byDay := make(map[string]decimal.Decimal, len(amounts))
	for _, a := range amounts {
		label := biztime.FormatDate(a.Date)
		byDay[label] = byDay[label].Add(a.Amount)
	}

	days := reportingDays(r)
	points := make([]*dto.ChartPointDTO, 0, len(days))
	for _, day := range days {
		label := biztime.FormatDate(day)
		points = append(points, &dto.ChartPointDTO{Date: label, Value: byDay[label]})
	}
	return points, nil
}

// churnChart reports churn as a percentage for consecutive 7-day windows
// starting at r.Start; the last window is clipped to r.End.
func (uc *GetDashboardUseCase) churnChart(ctx context.Context, userID string, r vo.DateRange) ([]*dto.ChartPointDTO, error) {
	var points []*dto.ChartPointDTO
	for start := r.Start; !start.After(r.End); start = start.AddDate(0, 0, 7) {
		end := start.AddDate(0, 0, 6)
		if end.After(r.End) {
			end = r.End
		}
		churn, err := uc.calculator.CalculateChurnRate(ctx, userID, vo.DateRange{Start: start, End: end})
		if err != nil {
			return nil, err
		}
		points = append(points, &dto.ChartPointDTO{
			Date:  biztime.FormatDate(start),
			Value: churn.Mul(hundred),
		})
	}
	return points, nil
}
