package models

import (
	"time"

	"github.com/orris-inc/tally/internal/shared/constants"
)

type AccountModel struct {
	ID                string    `gorm:"primaryKey;size:36"`
	UserID            string    `gorm:"size:64;not null;uniqueIndex:uk_accounts_user_provider,priority:1"`
	Provider          string    `gorm:"size:16;not null;uniqueIndex:uk_accounts_user_provider,priority:2"`
	ProviderAccountID string    `gorm:"size:128;not null"`
	WebhookSecret     string    `gorm:"size:255"`
	IsActive          bool      `gorm:"not null;default:true;index"`
	ConnectedAt       time.Time `gorm:"not null"`
	UpdatedAt         time.Time
}

func (AccountModel) TableName() string {
	return constants.TableAccounts
}
