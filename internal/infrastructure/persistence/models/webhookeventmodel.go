package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/orris-inc/tally/internal/shared/constants"
)

type WebhookEventModel struct {
	ID          string         `gorm:"primaryKey;size:36"`
	Provider    string         `gorm:"size:16;not null;uniqueIndex:uk_webhook_events_provider_event,priority:1"`
	EventID     string         `gorm:"size:128;not null;uniqueIndex:uk_webhook_events_provider_event,priority:2"`
	EventType   string         `gorm:"size:128;not null"`
	AccountID   string         `gorm:"size:36;not null;index"`
	Payload     datatypes.JSON `gorm:"type:json"`
	Status      string         `gorm:"size:16;not null;index"`
	Error       string         `gorm:"type:text"`
	ReceivedAt  time.Time      `gorm:"not null"`
	ProcessedAt *time.Time
}

func (WebhookEventModel) TableName() string {
	return constants.TableWebhookEvents
}
