package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/orris-inc/tally/internal/shared/constants"
)

type MetricsSnapshotModel struct {
	ID           string          `gorm:"primaryKey;size:36"`
	UserID       string          `gorm:"size:64;not null;uniqueIndex:uk_metrics_snapshots_user_range,priority:1"`
	RangeLabel   string          `gorm:"size:64;not null;uniqueIndex:uk_metrics_snapshots_user_range,priority:2"`
	MRR          decimal.Decimal `gorm:"column:mrr;type:decimal(14,4);not null"`
	ChurnRate    decimal.Decimal `gorm:"type:decimal(10,6);not null"`
	LTV          decimal.Decimal `gorm:"column:ltv;type:decimal(14,4);not null"`
	ActiveUsers  int64           `gorm:"not null"`
	TotalRevenue decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	TotalRefunds decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	CapturedAt   time.Time       `gorm:"not null"`
}

func (MetricsSnapshotModel) TableName() string {
	return constants.TableMetricsSnapshots
}

// All returns every table model, in dependency order.
func All() []interface{} {
	return []interface{}{
		&AccountModel{},
		&SubscriptionModel{},
		&TransactionModel{},
		&WebhookEventModel{},
		&MetricsSnapshotModel{},
	}
}
