package billing

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	vo "github.com/orris-inc/tally/internal/domain/billing/valueobjects"
)

// SubscriptionSnapshot is the provider's current view of a subscription,
// already mapped onto canonical values.
type SubscriptionSnapshot struct {
	ProviderSubscriptionID string
	CustomerID             string
	PlanID                 string
	PlanName               string
	Status                 vo.SubscriptionStatus
	StartDate              time.Time
	EndDate                *time.Time
	Price                  decimal.Decimal
	Currency               string
	BillingCycle           vo.BillingCycle
}

func (s SubscriptionSnapshot) Validate() error {
	switch {
	case s.ProviderSubscriptionID == "":
		return fmt.Errorf("%w: provider subscription ID is required", ErrInvalidSubscription)
	case !vo.ValidStatuses[s.Status]:
		return fmt.Errorf("%w: status %q", ErrInvalidSubscription, s.Status)
	case !s.BillingCycle.IsValid():
		return fmt.Errorf("%w: billing cycle %q", ErrInvalidSubscription, s.BillingCycle)
	case s.StartDate.IsZero():
		return fmt.Errorf("%w: start date is required", ErrInvalidSubscription)
	case s.EndDate != nil && s.EndDate.Before(s.StartDate):
		return fmt.Errorf("%w: end date before start date", ErrInvalidSubscription)
	case s.Price.IsNegative():
		return fmt.Errorf("%w: negative price", ErrInvalidSubscription)
	}
	return nil
}

// TransactionSnapshot is one money movement reported by a provider. The
// subscription it belongs to is located by ProviderSubscriptionID, then by
// the transaction it reverses, then by CustomerID.
type TransactionSnapshot struct {
	ProviderTransactionID  string
	Type                   vo.TransactionType
	Amount                 decimal.Decimal
	Currency               string
	Date                   time.Time
	Description            string
	ProviderSubscriptionID string
	RelatedTransactionID   string
	CustomerID             string
}

func (t TransactionSnapshot) Validate() error {
	switch {
	case t.ProviderTransactionID == "":
		return fmt.Errorf("%w: provider transaction ID is required", ErrInvalidTransaction)
	case !vo.ValidTransactionTypes[t.Type]:
		return fmt.Errorf("%w: type %q", ErrInvalidTransaction, t.Type)
	case t.Amount.IsNegative():
		return fmt.Errorf("%w: negative amount", ErrInvalidTransaction)
	case t.Date.IsZero():
		return fmt.Errorf("%w: date is required", ErrInvalidTransaction)
	}
	return nil
}
