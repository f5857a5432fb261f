package dto

import "github.com/orris-inc/tally/internal/domain/billing"

func ToAccountDTO(a *billing.Account) *AccountDTO {
	if a == nil {
		return nil
	}
	return &AccountDTO{
		ID:                a.ID(),
		Provider:          a.Provider().String(),
		ProviderAccountID: a.ProviderAccountID(),
		HasWebhookSecret:  a.HasWebhookSecret(),
		IsActive:          a.IsActive(),
		ConnectedAt:       a.ConnectedAt(),
	}
}

func ToAccountDTOList(accounts []*billing.Account) []*AccountDTO {
	result := make([]*AccountDTO, 0, len(accounts))
	for _, a := range accounts {
		if a != nil {
			result = append(result, ToAccountDTO(a))
		}
	}
	return result
}

func ToSubscriptionDTO(s *billing.Subscription) *SubscriptionDTO {
	if s == nil {
		return nil
	}
	return &SubscriptionDTO{
		ID:                     s.ID(),
		AccountID:              s.AccountID(),
		ProviderSubscriptionID: s.ProviderSubscriptionID(),
		CustomerID:             s.CustomerID(),
		PlanID:                 s.PlanID(),
		PlanName:               s.PlanName(),
		Status:                 s.Status().String(),
		StartDate:              s.StartDate(),
		EndDate:                s.EndDate(),
		Price:                  s.Price().StringFixed(2),
		Currency:               s.Currency(),
		BillingCycle:           s.BillingCycle().String(),
		MonthlyRevenue:         s.MonthlyRevenue().StringFixed(2),
	}
}

func ToSubscriptionDTOList(subs []*billing.Subscription) []*SubscriptionDTO {
	result := make([]*SubscriptionDTO, 0, len(subs))
	for _, s := range subs {
		if s != nil {
			result = append(result, ToSubscriptionDTO(s))
		}
	}
	return result
}
