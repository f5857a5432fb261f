package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/orris-inc/tally/internal/shared/constants"
)

type TransactionModel struct {
	ID                    string          `gorm:"primaryKey;size:36"`
	SubscriptionID        string          `gorm:"size:36;not null;index"`
	Type                  string          `gorm:"size:16;not null;index"`
	Amount                decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Currency              string          `gorm:"size:3;not null"`
	Date                  time.Time       `gorm:"not null;index"`
	Description           string          `gorm:"size:512"`
	ProviderTransactionID string          `gorm:"size:128;not null;uniqueIndex"`
	CreatedAt             time.Time
}

func (TransactionModel) TableName() string {
	return constants.TableTransactions
}
