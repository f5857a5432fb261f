package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	vo "github.com/orris-inc/tally/internal/domain/billing/valueobjects"
	"github.com/orris-inc/tally/internal/shared/biztime"
)

// Subscription is a recurring plan a customer of the account holder pays for.
type Subscription struct {
	id                     string
	accountID              string
	providerSubscriptionID string
	customerID             string
	planID                 string
	planName               string
	startDate              time.Time
	endDate                *time.Time
	status                 vo.SubscriptionStatus
	price                  decimal.Decimal
	currency               string
	billingCycle           vo.BillingCycle
	createdAt              time.Time
	updatedAt              time.Time
}

// NewSubscription creates the local record for a subscription first seen in snap.
func NewSubscription(accountID string, snap SubscriptionSnapshot) (*Subscription, error) {
	if accountID == "" {
		return nil, fmt.Errorf("%w: account ID is required", ErrInvalidSubscription)
	}
	if err := snap.Validate(); err != nil {
		return nil, err
	}

	now := biztime.NowUTC()
	s := &Subscription{
		id:                     uuid.NewString(),
		accountID:              accountID,
		providerSubscriptionID: snap.ProviderSubscriptionID,
		createdAt:              now,
	}
	s.apply(snap, now)
	return s, nil
}

func ReconstructSubscription(
	id, accountID, providerSubscriptionID, customerID, planID, planName string,
	startDate time.Time,
	endDate *time.Time,
	status vo.SubscriptionStatus,
	price decimal.Decimal,
	currency string,
	billingCycle vo.BillingCycle,
	createdAt, updatedAt time.Time,
) (*Subscription, error) {
	if id == "" {
		return nil, fmt.Errorf("subscription ID cannot be empty")
	}
	if !vo.ValidStatuses[status] {
		return nil, fmt.Errorf("invalid subscription status: %s", status)
	}
	if !billingCycle.IsValid() {
		return nil, fmt.Errorf("invalid billing cycle: %s", billingCycle)
	}
	return &Subscription{
		id:                     id,
		accountID:              accountID,
		providerSubscriptionID: providerSubscriptionID,
		customerID:             customerID,
		planID:                 planID,
		planName:               planName,
		startDate:              startDate,
		endDate:                endDate,
		status:                 status,
		price:                  price,
		currency:               currency,
		billingCycle:           billingCycle,
		createdAt:              createdAt,
		updatedAt:              updatedAt,
	}, nil
}

// ApplySnapshot overwrites the provider-owned fields with the provider's latest view.
func (s *Subscription) ApplySnapshot(snap SubscriptionSnapshot) error {
	if snap.ProviderSubscriptionID != s.providerSubscriptionID {
		return fmt.Errorf("%w: snapshot for %s applied to %s",
			ErrInvalidSubscription, snap.ProviderSubscriptionID, s.providerSubscriptionID)
	}
	if err := snap.Validate(); err != nil {
		return err
	}
	s.apply(snap, biztime.NowUTC())
	return nil
}

func (s *Subscription) apply(snap SubscriptionSnapshot, now time.Time) {
	s.customerID = snap.CustomerID
	s.planID = snap.PlanID
	s.planName = snap.PlanName
	s.startDate = snap.StartDate.UTC()
	s.endDate = nil
	if snap.EndDate != nil {
		end := snap.EndDate.UTC()
		s.endDate = &end
	}
	s.status = snap.Status
	s.price = snap.Price
	s.currency = snap.Currency
	s.billingCycle = snap.BillingCycle
	s.updatedAt = now
}

func (s *Subscription) ID() string                     { return s.id }
func (s *Subscription) AccountID() string              { return s.accountID }
func (s *Subscription) ProviderSubscriptionID() string { return s.providerSubscriptionID }
func (s *Subscription) CustomerID() string             { return s.customerID }
func (s *Subscription) PlanID() string                 { return s.planID }
func (s *Subscription) PlanName() string               { return s.planName }
func (s *Subscription) StartDate() time.Time           { return s.startDate }
func (s *Subscription) EndDate() *time.Time            { return s.endDate }
func (s *Subscription) Status() vo.SubscriptionStatus  { return s.status }
func (s *Subscription) Price() decimal.Decimal         { return s.price }
func (s *Subscription) Currency() string               { return s.currency }
func (s *Subscription) BillingCycle() vo.BillingCycle  { return s.billingCycle }
func (s *Subscription) CreatedAt() time.Time           { return s.createdAt }
func (s *Subscription) UpdatedAt() time.Time           { return s.updatedAt }

// MonthlyRevenue is the price normalized to one month of the billing cycle.
func (s *Subscription) MonthlyRevenue() decimal.Decimal {
	return vo.NormalizeToMonthlyRevenue(s.price, s.billingCycle)
}
