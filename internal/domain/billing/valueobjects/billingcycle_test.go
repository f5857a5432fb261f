package valueobjects

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeToMonthlyRevenue(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		cycle  BillingCycle
		want   string
	}{
		{name: "yearly divides by twelve", amount: "1200", cycle: BillingCycleYearly, want: "100"},
		{name: "weekly multiplies by 4.33", amount: "100", cycle: BillingCycleWeekly, want: "433"},
		{name: "daily multiplies by thirty", amount: "10", cycle: BillingCycleDaily, want: "300"},
		{name: "monthly is unchanged", amount: "50", cycle: BillingCycleMonthly, want: "50"},
		{name: "unknown cycle is unchanged", amount: "42.5", cycle: BillingCycle("quarterly"), want: "42.5"},
		{name: "zero stays zero", amount: "0", cycle: BillingCycleYearly, want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeToMonthlyRevenue(decimal.RequireFromString(tt.amount), tt.cycle)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}

func TestMapProviderInterval(t *testing.T) {
	assert.Equal(t, BillingCycleMonthly, MapProviderInterval("month"))
	assert.Equal(t, BillingCycleYearly, MapProviderInterval("YEAR"))
	assert.Equal(t, BillingCycleWeekly, MapProviderInterval("week"))
	assert.Equal(t, BillingCycleDaily, MapProviderInterval("day"))
	assert.Equal(t, BillingCycleMonthly, MapProviderInterval("fortnight"))
	assert.Equal(t, BillingCycleMonthly, MapProviderInterval(""))
}

func TestParseBillingCycle(t *testing.T) {
	got, err := ParseBillingCycle(" Weekly ")
	assert.NoError(t, err)
	assert.Equal(t, BillingCycleWeekly, got)

	_, err = ParseBillingCycle("lifetime")
	assert.Error(t, err)
}
