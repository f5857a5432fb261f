package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/orris-inc/tally/internal/shared/constants"
)

type SubscriptionModel struct {
	ID                     string          `gorm:"primaryKey;size:36"`
	AccountID              string          `gorm:"size:36;not null;uniqueIndex:uk_subscriptions_account_provider,priority:1"`
	ProviderSubscriptionID string          `gorm:"size:128;not null;uniqueIndex:uk_subscriptions_account_provider,priority:2"`
	CustomerID             string          `gorm:"size:128;index"`
	PlanID                 string          `gorm:"size:128"`
	PlanName               string          `gorm:"size:255"`
	StartDate              time.Time       `gorm:"not null;index"`
	EndDate                *time.Time      `gorm:"index"`
	Status                 string          `gorm:"size:16;not null;index"`
	Price                  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Currency               string          `gorm:"size:3;not null"`
	BillingCycle           string          `gorm:"size:16;not null"`
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

func (SubscriptionModel) TableName() string {
	return constants.TableSubscriptions
}
