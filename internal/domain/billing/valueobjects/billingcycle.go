package valueobjects

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type BillingCycle string

const (
	BillingCycleDaily   BillingCycle = "daily"
	BillingCycleWeekly  BillingCycle = "weekly"
	BillingCycleMonthly BillingCycle = "monthly"
	BillingCycleYearly  BillingCycle = "yearly"
)

var ValidBillingCycles = map[BillingCycle]bool{
	BillingCycleDaily:   true,
	BillingCycleWeekly:  true,
	BillingCycleMonthly: true,
	BillingCycleYearly:  true,
}

var providerIntervals = map[string]BillingCycle{
	"day":   BillingCycleDaily,
	"week":  BillingCycleWeekly,
	"month": BillingCycleMonthly,
	"year":  BillingCycleYearly,
}

var (
	dailyFactor  = decimal.NewFromInt(30)
	weeklyFactor = decimal.RequireFromString("4.33")
	monthsInYear = decimal.NewFromInt(12)
)

// MapProviderInterval maps a provider recurrence unit; anything unrecognized
// is billed monthly.
func MapProviderInterval(raw string) BillingCycle {
	if cycle, ok := providerIntervals[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return cycle
	}
	return BillingCycleMonthly
}

func ParseBillingCycle(value string) (BillingCycle, error) {
	cycle := BillingCycle(strings.ToLower(strings.TrimSpace(value)))
	if !ValidBillingCycles[cycle] {
		return "", fmt.Errorf("invalid billing cycle: %q", value)
	}
	return cycle, nil
}

func (b BillingCycle) String() string {
	return string(b)
}

func (b BillingCycle) IsValid() bool {
	return ValidBillingCycles[b]
}

// NormalizeToMonthlyRevenue converts a per-cycle price into its monthly
// equivalent: daily x30, weekly x4.33, yearly /12. Unknown cycles pass the
// amount through unchanged.
func NormalizeToMonthlyRevenue(amount decimal.Decimal, cycle BillingCycle) decimal.Decimal {
	switch cycle {
	case BillingCycleDaily:
		return amount.Mul(dailyFactor)
	case BillingCycleWeekly:
		return amount.Mul(weeklyFactor)
	case BillingCycleYearly:
		return amount.Div(monthsInYear)
	default:
		return amount
	}
}
