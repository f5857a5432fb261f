package dto

import (
	"time"

	"github.com/shopspring/decimal"

	vo "github.com/orris-inc/tally/internal/domain/billing/valueobjects"
	"github.com/orris-inc/tally/internal/domain/metrics"
)

// RangeDTO is absent when metrics cover all time.
type RangeDTO struct {
	StartDate time.Time `json:"start_date" yaml:"start_date"`
	EndDate   time.Time `json:"end_date" yaml:"end_date"`
}

// MetricsDTO renders decimals as strings. ChurnRate is a fraction in [0, 1].
type MetricsDTO struct {
	MRR          decimal.Decimal `json:"mrr" yaml:"mrr"`
	ChurnRate    decimal.Decimal `json:"churn_rate" yaml:"churn_rate"`
	LTV          decimal.Decimal `json:"ltv" yaml:"ltv"`
	ActiveUsers  int64           `json:"active_users" yaml:"active_users"`
	TotalRevenue decimal.Decimal `json:"total_revenue" yaml:"total_revenue"`
	TotalRefunds decimal.Decimal `json:"total_refunds" yaml:"total_refunds"`
	Range        *RangeDTO       `json:"range,omitempty" yaml:"range,omitempty"`
}

type ChartPointDTO struct {
	Date  string          `json:"date"`
	Value decimal.Decimal `json:"value"`
}

type PlanShareDTO struct {
	PlanName string          `json:"plan_name"`
	Count    int64           `json:"count"`
	Revenue  decimal.Decimal `json:"revenue"`
}

// SummaryDTO holds percentages (MRRGrowth, ChurnRate) rather than fractions.
type SummaryDTO struct {
	CurrentMRR          decimal.Decimal `json:"current_mrr"`
	MRRGrowth           decimal.Decimal `json:"mrr_growth"`
	ChurnRate           decimal.Decimal `json:"churn_rate"`
	ActiveSubscriptions int64           `json:"active_subscriptions"`
	TotalRevenue        decimal.Decimal `json:"total_revenue"`
}

type DashboardDTO struct {
	Range            RangeDTO         `json:"range"`
	Summary          SummaryDTO       `json:"summary"`
	MRRChart         []*ChartPointDTO `json:"mrr_chart"`
	ChurnChart       []*ChartPointDTO `json:"churn_chart"`
	RevenueChart     []*ChartPointDTO `json:"revenue_chart"`
	PlanDistribution []*PlanShareDTO  `json:"plan_distribution"`
}

// SnapshotDTO is the last persisted copy of a user's all-time metrics.
type SnapshotDTO struct {
	UserID     string     `json:"user_id" yaml:"user_id"`
	RangeLabel string     `json:"range_label" yaml:"range_label"`
	Metrics    MetricsDTO `json:"metrics" yaml:"metrics"`
	CapturedAt time.Time  `json:"captured_at" yaml:"captured_at"`
}

func ToMetricsDTO(m *metrics.Metrics, r *vo.DateRange) *MetricsDTO {
	if m == nil {
		return nil
	}
	out := &MetricsDTO{
		MRR:          m.MRR,
		ChurnRate:    m.ChurnRate,
		LTV:          m.LTV,
		ActiveUsers:  m.ActiveUsers,
		TotalRevenue: m.TotalRevenue,
		TotalRefunds: m.TotalRefunds,
	}
	if r != nil {
		out.Range = &RangeDTO{StartDate: r.Start, EndDate: r.End}
	}
	return out
}

func ToPlanShareDTOList(shares []metrics.PlanShare) []*PlanShareDTO {
	result := make([]*PlanShareDTO, 0, len(shares))
	for _, s := range shares {
		result = append(result, &PlanShareDTO{
			PlanName: s.PlanName,
			Count:    s.Subscriptions,
			Revenue:  s.Revenue,
		})
	}
	return result
}

func ToSnapshotDTO(s *metrics.Snapshot) *SnapshotDTO {
	if s == nil {
		return nil
	}
	return &SnapshotDTO{
		UserID:     s.UserID,
		RangeLabel: s.RangeLabel,
		Metrics:    *ToMetricsDTO(&s.Metrics, nil),
		CapturedAt: s.CapturedAt,
	}
}
