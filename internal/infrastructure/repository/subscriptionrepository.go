package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/orris-inc/tally/internal/domain/billing"
	"github.com/orris-inc/tally/internal/infrastructure/persistence/mappers"
	"github.com/orris-inc/tally/internal/infrastructure/persistence/models"
	"github.com/orris-inc/tally/internal/shared/db"
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// Save inserts the subscription or overwrites the row with the same ID.
func (r *SubscriptionRepository) Save(ctx context.Context, sub *billing.Subscription) error {
	model := mappers.SubscriptionToModel(sub)
	err := db.GetTxFromContext(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(model).Error
	if err != nil {
		return fmt.Errorf("failed to save subscription: %w", err)
	}
	return nil
}

func (r *SubscriptionRepository) GetByProviderID(ctx context.Context, accountID, providerSubscriptionID string) (*billing.Subscription, error) {
	return r.first(ctx, "failed to get subscription by provider ID",
		"account_id = ? AND provider_subscription_id = ?", accountID, providerSubscriptionID)
}

// GetLatestByCustomer returns the customer's most recently started subscription.
func (r *SubscriptionRepository) GetLatestByCustomer(ctx context.Context, accountID, customerID string) (*billing.Subscription, error) {
	if customerID == "" {
		return nil, nil
	}
	return r.first(ctx, "failed to get subscription by customer",
		"account_id = ? AND customer_id = ?", accountID, customerID)
}

func (r *SubscriptionRepository) GetByID(ctx context.Context, id string) (*billing.Subscription, error) {
	sub, err := r.first(ctx, "failed to get subscription", "id = ?", id)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, billing.ErrSubscriptionNotFound
	}
	return sub, nil
}

func (r *SubscriptionRepository) first(ctx context.Context, failure string, query string, args ...interface{}) (*billing.Subscription, error) {
	var model models.SubscriptionModel
	err := db.GetTxFromContext(ctx, r.db).
		Where(query, args...).
		Order("start_date DESC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", failure, err)
	}
	return mappers.SubscriptionToDomain(&model)
}

func (r *SubscriptionRepository) List(ctx context.Context, filter billing.SubscriptionFilter) ([]*billing.Subscription, int64, error) {
	query := db.GetTxFromContext(ctx, r.db).Model(&models.SubscriptionModel{})
	if filter.AccountID != "" {
		query = query.Where("account_id = ?", filter.AccountID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count subscriptions: %w", err)
	}

	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var rows []models.SubscriptionModel
	if err := query.Order("start_date DESC").Order("id").Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	subs, err := mappers.SubscriptionsToDomain(rows)
	if err != nil {
		return nil, 0, err
	}
	return subs, total, nil
}
