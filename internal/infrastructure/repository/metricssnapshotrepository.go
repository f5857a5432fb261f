package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/orris-inc/tally/internal/domain/metrics"
	"github.com/orris-inc/tally/internal/infrastructure/persistence/mappers"
	"github.com/orris-inc/tally/internal/infrastructure/persistence/models"
	"github.com/orris-inc/tally/internal/shared/db"
)

type MetricsSnapshotRepository struct {
	db *gorm.DB
}

func NewMetricsSnapshotRepository(db *gorm.DB) *MetricsSnapshotRepository {
	return &MetricsSnapshotRepository{db: db}
}

func (r *MetricsSnapshotRepository) Upsert(ctx context.Context, snapshot *metrics.Snapshot) error {
	model := mappers.SnapshotToModel(snapshot)
	err := db.GetTxFromContext(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "range_label"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"mrr", "churn_rate", "ltv", "active_users",
				"total_revenue", "total_refunds", "captured_at",
			}),
		}).
		Create(model).Error
	if err != nil {
		return fmt.Errorf("failed to upsert metrics snapshot: %w", err)
	}
	return nil
}

func (r *MetricsSnapshotRepository) Get(ctx context.Context, userID, rangeLabel string) (*metrics.Snapshot, error) {
	var model models.MetricsSnapshotModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ? AND range_label = ?", userID, rangeLabel).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get metrics snapshot: %w", err)
	}
	return mappers.SnapshotToDomain(&model), nil
}
