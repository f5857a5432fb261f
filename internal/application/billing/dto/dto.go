package dto

import "time"

type AccountDTO struct {
	ID                string    `json:"id"`
	Provider          string    `json:"provider"`
	ProviderAccountID string    `json:"provider_account_id"`
	HasWebhookSecret  bool      `json:"has_webhook_secret"`
	IsActive          bool      `json:"is_active"`
	ConnectedAt       time.Time `json:"connected_at"`
}

// SubscriptionDTO carries money as decimal strings so no precision is lost in JSON.
type SubscriptionDTO struct {
	ID                     string     `json:"id"`
	AccountID              string     `json:"account_id"`
	ProviderSubscriptionID string     `json:"provider_subscription_id"`
	CustomerID             string     `json:"customer_id,omitempty"`
	PlanID                 string     `json:"plan_id,omitempty"`
	PlanName               string     `json:"plan_name"`
	Status                 string     `json:"status"`
	StartDate              time.Time  `json:"start_date"`
	EndDate                *time.Time `json:"end_date,omitempty"`
	Price                  string     `json:"price"`
	Currency               string     `json:"currency"`
	BillingCycle           string     `json:"billing_cycle"`
	MonthlyRevenue         string     `json:"monthly_revenue"`
}

// WebhookResultDTO is what a provider sees after a delivery was accepted.
type WebhookResultDTO struct {
	EventID   string `json:"event_id"`
	EventType string `json:"event_type"`
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate,omitempty"`
}
