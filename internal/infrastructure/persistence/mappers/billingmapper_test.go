package mappers

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "github.com/orris-inc/tally/internal/domain/billing/valueobjects"
	"github.com/orris-inc/tally/internal/infrastructure/persistence/models"
)

func subscriptionModel(status, cycle string) *models.SubscriptionModel {
	return &models.SubscriptionModel{
		ID:                     "sub-1",
		AccountID:              "acc-1",
		ProviderSubscriptionID: "sub_1",
		StartDate:              time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Status:                 status,
		Price:                  decimal.NewFromInt(10),
		Currency:               "USD",
		BillingCycle:           cycle,
	}
}

func TestSubscriptionToDomain(t *testing.T) {
	sub, err := SubscriptionToDomain(subscriptionModel("past-due", " Yearly "))
	require.NoError(t, err)
	assert.Equal(t, vo.StatusPastDue, sub.Status())
	assert.Equal(t, vo.BillingCycleYearly, sub.BillingCycle())

	round := SubscriptionToModel(sub)
	assert.Equal(t, "past-due", round.Status)
	assert.Equal(t, "yearly", round.BillingCycle)
}

func TestSubscriptionToDomain_RejectsUnknownValues(t *testing.T) {
	_, err := SubscriptionToDomain(subscriptionModel("active", "lifetime"))
	assert.ErrorContains(t, err, "sub-1")

	_, err = SubscriptionToDomain(subscriptionModel("past_due", "monthly"))
	assert.ErrorContains(t, err, "invalid subscription status")
}
