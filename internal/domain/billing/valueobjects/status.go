package valueobjects

import (
	"fmt"
	"strings"
)

// SubscriptionStatus is the canonical lifecycle state of a provider subscription.
type SubscriptionStatus string

const (
	StatusActive   SubscriptionStatus = "active"
	StatusCanceled SubscriptionStatus = "canceled"
	StatusPastDue  SubscriptionStatus = "past-due"
	StatusUnpaid   SubscriptionStatus = "unpaid"
	StatusTrialing SubscriptionStatus = "trialing"
)

// AllStatuses lists the canonical statuses in a stable order.
var AllStatuses = []SubscriptionStatus{StatusActive, StatusCanceled, StatusPastDue, StatusUnpaid, StatusTrialing}

var ValidStatuses = map[SubscriptionStatus]bool{
	StatusActive:   true,
	StatusCanceled: true,
	StatusPastDue:  true,
	StatusUnpaid:   true,
	StatusTrialing: true,
}

// providerStatuses folds Stripe and PayPal status vocabularies onto ours.
var providerStatuses = map[string]SubscriptionStatus{
	"active":    StatusActive,
	"canceled":  StatusCanceled,
	"cancelled": StatusCanceled,
	"past_due":  StatusPastDue,
	"past-due":  StatusPastDue,
	"unpaid":    StatusUnpaid,
	"trialing":  StatusTrialing,
	"suspended": StatusPastDue,
	"expired":   StatusCanceled,
}

// MapProviderStatus is total: unknown values map to active and known is
// false so the caller can log them.
func MapProviderStatus(raw string) (status SubscriptionStatus, known bool) {
	status, known = providerStatuses[strings.ToLower(strings.TrimSpace(raw))]
	if !known {
		return StatusActive, false
	}
	return status, true
}

// ParseSubscriptionStatus accepts only canonical values, as stored.
func ParseSubscriptionStatus(value string) (SubscriptionStatus, error) {
	s := SubscriptionStatus(value)
	if !ValidStatuses[s] {
		return "", fmt.Errorf("invalid subscription status: %q", value)
	}
	return s, nil
}

func (s SubscriptionStatus) String() string {
	return string(s)
}

func (s SubscriptionStatus) IsActive() bool {
	return s == StatusActive
}

// CountsTowardLifespan reports whether the subscription's duration feeds LTV.
func (s SubscriptionStatus) CountsTowardLifespan() bool {
	return s == StatusActive || s == StatusCanceled
}

// LifespanStatuses returns the statuses for which CountsTowardLifespan holds.
func LifespanStatuses() []SubscriptionStatus {
	var out []SubscriptionStatus
	for _, s := range AllStatuses {
		if s.CountsTowardLifespan() {
			out = append(out, s)
		}
	}
	return out
}
