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

type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Save(ctx context.Context, txn *billing.Transaction) error {
	model := mappers.TransactionToModel(txn)
	err := db.GetTxFromContext(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(model).Error
	if err != nil {
		return fmt.Errorf("failed to save transaction: %w", err)
	}
	return nil
}

func (r *TransactionRepository) GetByProviderID(ctx context.Context, providerTransactionID string) (*billing.Transaction, error) {
	var model models.TransactionModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("provider_transaction_id = ?", providerTransactionID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get transaction by provider ID: %w", err)
	}
	return mappers.TransactionToDomain(&model)
}
