package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/orris-inc/tally/internal/domain/billing"
	vo "github.com/orris-inc/tally/internal/domain/billing/valueobjects"
	"github.com/orris-inc/tally/internal/infrastructure/persistence/mappers"
	"github.com/orris-inc/tally/internal/infrastructure/persistence/models"
	"github.com/orris-inc/tally/internal/shared/db"
)

type WebhookEventRepository struct {
	db *gorm.DB
}

func NewWebhookEventRepository(db *gorm.DB) *WebhookEventRepository {
	return &WebhookEventRepository{db: db}
}

func (r *WebhookEventRepository) Save(ctx context.Context, event *billing.WebhookEvent) error {
	model := mappers.WebhookEventToModel(event)
	err := db.GetTxFromContext(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(model).Error
	if err != nil {
		return fmt.Errorf("failed to save webhook event: %w", err)
	}
	return nil
}

func (r *WebhookEventRepository) GetByProviderEventID(ctx context.Context, provider vo.Provider, eventID string) (*billing.WebhookEvent, error) {
	var model models.WebhookEventModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("provider = ? AND event_id = ?", provider.String(), eventID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get webhook event: %w", err)
	}
	return mappers.WebhookEventToDomain(&model), nil
}
