package mappers

import (
	"fmt"
	"time"

	"github.com/orris-inc/tally/internal/domain/billing"
	vo "github.com/orris-inc/tally/internal/domain/billing/valueobjects"
	"github.com/orris-inc/tally/internal/infrastructure/persistence/models"
)

func AccountToModel(a *billing.Account) *models.AccountModel {
	return &models.AccountModel{
		ID:                a.ID(),
		UserID:            a.UserID(),
		Provider:          a.Provider().String(),
		ProviderAccountID: a.ProviderAccountID(),
		WebhookSecret:     a.WebhookSecret(),
		IsActive:          a.IsActive(),
		ConnectedAt:       a.ConnectedAt(),
		UpdatedAt:         a.UpdatedAt(),
	}
}

func AccountToDomain(m *models.AccountModel) (*billing.Account, error) {
	return billing.ReconstructAccount(
		m.ID,
		m.UserID,
		vo.Provider(m.Provider),
		m.ProviderAccountID,
		m.WebhookSecret,
		m.IsActive,
		m.ConnectedAt,
		m.UpdatedAt,
	)
}

func SubscriptionToModel(s *billing.Subscription) *models.SubscriptionModel {
	return &models.SubscriptionModel{
		ID:                     s.ID(),
		AccountID:              s.AccountID(),
		ProviderSubscriptionID: s.ProviderSubscriptionID(),
		CustomerID:             s.CustomerID(),
		PlanID:                 s.PlanID(),
		PlanName:               s.PlanName(),
		StartDate:              s.StartDate(),
		EndDate:                s.EndDate(),
		Status:                 s.Status().String(),
		Price:                  s.Price(),
		Currency:               s.Currency(),
		BillingCycle:           s.BillingCycle().String(),
		CreatedAt:              s.CreatedAt(),
		UpdatedAt:              s.UpdatedAt(),
	}
}

func SubscriptionToDomain(m *models.SubscriptionModel) (*billing.Subscription, error) {
	status, err := vo.ParseSubscriptionStatus(m.Status)
	if err != nil {
		return nil, fmt.Errorf("failed to map subscription %s: %w", m.ID, err)
	}
	cycle, err := vo.ParseBillingCycle(m.BillingCycle)
	if err != nil {
		return nil, fmt.Errorf("failed to map subscription %s: %w", m.ID, err)
	}
	sub, err := billing.ReconstructSubscription(
		m.ID,
		m.AccountID,
		m.ProviderSubscriptionID,
		m.CustomerID,
		m.PlanID,
		m.PlanName,
		m.StartDate.UTC(),
		utcPtr(m.EndDate),
		status,
		m.Price,
		m.Currency,
		cycle,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to map subscription %s: %w", m.ID, err)
	}
	return sub, nil
}

func SubscriptionsToDomain(ms []models.SubscriptionModel) ([]*billing.Subscription, error) {
	out := make([]*billing.Subscription, 0, len(ms))
	for i := range ms {
		sub, err := SubscriptionToDomain(&ms[i])
		if err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	return out, nil
}

func TransactionToModel(t *billing.Transaction) *models.TransactionModel {
	return &models.TransactionModel{
		ID:                    t.ID(),
		SubscriptionID:        t.SubscriptionID(),
		Type:                  t.Type().String(),
		Amount:                t.Amount(),
		Currency:              t.Currency(),
		Date:                  t.Date(),
		Description:           t.Description(),
		ProviderTransactionID: t.ProviderTransactionID(),
		CreatedAt:             t.CreatedAt(),
	}
}

func TransactionToDomain(m *models.TransactionModel) (*billing.Transaction, error) {
	return billing.ReconstructTransaction(
		m.ID,
		m.SubscriptionID,
		vo.TransactionType(m.Type),
		m.Amount,
		m.Currency,
		m.Date.UTC(),
		m.Description,
		m.ProviderTransactionID,
		m.CreatedAt,
	)
}

func WebhookEventToModel(e *billing.WebhookEvent) *models.WebhookEventModel {
	return &models.WebhookEventModel{
		ID:          e.ID(),
		Provider:    e.Provider().String(),
		EventID:     e.EventID(),
		EventType:   e.EventType(),
		AccountID:   e.AccountID(),
		Payload:     e.Payload(),
		Status:      e.Status().String(),
		Error:       e.ErrorMessage(),
		ReceivedAt:  e.ReceivedAt(),
		ProcessedAt: e.ProcessedAt(),
	}
}

func WebhookEventToDomain(m *models.WebhookEventModel) *billing.WebhookEvent {
	return billing.ReconstructWebhookEvent(
		m.ID,
		vo.Provider(m.Provider),
		m.EventID,
		m.EventType,
		m.AccountID,
		m.Payload,
		vo.WebhookEventStatus(m.Status),
		m.Error,
		m.ReceivedAt,
		m.ProcessedAt,
	)
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
