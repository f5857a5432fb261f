package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/orris-inc/tally/internal/domain/billing"
	vo "github.com/orris-inc/tally/internal/domain/billing/valueobjects"
	"github.com/orris-inc/tally/internal/infrastructure/persistence/mappers"
	"github.com/orris-inc/tally/internal/infrastructure/persistence/models"
	"github.com/orris-inc/tally/internal/shared/db"
	apperrors "github.com/orris-inc/tally/internal/shared/errors"
	"github.com/orris-inc/tally/internal/shared/logger"
)

type AccountRepository struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewAccountRepository(db *gorm.DB, logger logger.Interface) *AccountRepository {
	return &AccountRepository{db: db, logger: logger}
}

func (r *AccountRepository) Create(ctx context.Context, account *billing.Account) error {
	model := mappers.AccountToModel(account)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		if apperrors.IsDuplicateError(err) {
			return billing.ErrAccountExists
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (r *AccountRepository) Update(ctx context.Context, account *billing.Account) error {
	model := mappers.AccountToModel(account)
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.AccountModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"provider_account_id": model.ProviderAccountID,
			"webhook_secret":      model.WebhookSecret,
			"is_active":           model.IsActive,
			"updated_at":          model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update account: %w", result.Error)
	}
	return nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (*billing.Account, error) {
	var model models.AccountModel
	if err := db.GetTxFromContext(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, billing.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return mappers.AccountToDomain(&model)
}

func (r *AccountRepository) GetByUserAndProvider(ctx context.Context, userID string, provider vo.Provider) (*billing.Account, error) {
	var model models.AccountModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ? AND provider = ?", userID, provider.String()).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get account by provider: %w", err)
	}
	return mappers.AccountToDomain(&model)
}

func (r *AccountRepository) ListByUser(ctx context.Context, userID string) ([]*billing.Account, error) {
	var rows []models.AccountModel
	if err := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ?", userID).
		Order("connected_at ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	accounts := make([]*billing.Account, 0, len(rows))
	for i := range rows {
		a, err := mappers.AccountToDomain(&rows[i])
		if err != nil {
			r.logger.Warnw("skipping unreadable account row", "id", rows[i].ID, "error", err)
			continue
		}
		accounts = append(accounts, a)
	}
	return accounts, nil
}

// ListActiveUserIDs returns every user with at least one connected account.
func (r *AccountRepository) ListActiveUserIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := db.GetTxFromContext(ctx, r.db).
		Model(&models.AccountModel{}).
		Where("is_active = ?", true).
		Distinct().
		Order("user_id").
		Pluck("user_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to list active users: %w", err)
	}
	return ids, nil
}
