// Package metrics defines the subscription metrics computed per user and the
// read model they are computed from.
package metrics

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Name identifies one metric; it is part of the cache key.
type Name string

const (
	NameMRR          Name = "mrr"
	NameChurnRate    Name = "churn"
	NameLTV          Name = "ltv"
	NameActiveUsers  Name = "active_users"
	NameTotalRevenue Name = "revenue"
	NameTotalRefunds Name = "refunds"
)

var AllNames = []Name{NameMRR, NameChurnRate, NameLTV, NameActiveUsers, NameTotalRevenue, NameTotalRefunds}

func (n Name) String() string {
	return string(n)
}

var (
	ErrMRRCalculation          = errors.New("failed to calculate MRR")
	ErrChurnRateCalculation    = errors.New("failed to calculate churn rate")
	ErrLTVCalculation          = errors.New("failed to calculate LTV")
	ErrActiveUsersCalculation  = errors.New("failed to get active users")
	ErrTotalRevenueCalculation = errors.New("failed to get total revenue")
	ErrTotalRefundsCalculation = errors.New("failed to get total refunds")
)

// ErrFor returns the sentinel wrapped around a metric's computation failures.
func ErrFor(name Name) error {
	switch name {
	case NameMRR:
		return ErrMRRCalculation
	case NameChurnRate:
		return ErrChurnRateCalculation
	case NameLTV:
		return ErrLTVCalculation
	case NameActiveUsers:
		return ErrActiveUsersCalculation
	case NameTotalRevenue:
		return ErrTotalRevenueCalculation
	default:
		return ErrTotalRefundsCalculation
	}
}

// IsCalculationError reports whether err already carries a metric sentinel.
func IsCalculationError(err error) bool {
	for _, name := range AllNames {
		if errors.Is(err, ErrFor(name)) {
			return true
		}
	}
	return false
}

// Metrics is the full set for one user and range.
type Metrics struct {
	MRR          decimal.Decimal
	ChurnRate    decimal.Decimal
	LTV          decimal.Decimal
	ActiveUsers  int64
	TotalRevenue decimal.Decimal
	TotalRefunds decimal.Decimal
}
