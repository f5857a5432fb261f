package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/orris-inc/tally/internal/application/billing/dto"
	"github.com/orris-inc/tally/internal/domain/billing"
	apperrors "github.com/orris-inc/tally/internal/shared/errors"
	"github.com/orris-inc/tally/internal/shared/logger"
	"github.com/orris-inc/tally/internal/shared/utils"
)

type ListAccountSubscriptionsQuery struct {
	UserID    string
	AccountID string
	Page      int
	PageSize  int
}

type ListAccountSubscriptionsResult struct {
	Subscriptions []*dto.SubscriptionDTO
	Total         int64
	Page          int
	PageSize      int
}

type ListAccountSubscriptionsUseCase struct {
	accountRepo      billing.AccountRepository
	subscriptionRepo billing.SubscriptionRepository
	logger           logger.Interface
}

func NewListAccountSubscriptionsUseCase(
	accountRepo billing.AccountRepository,
	subscriptionRepo billing.SubscriptionRepository,
	logger logger.Interface,
) *ListAccountSubscriptionsUseCase {
	return &ListAccountSubscriptionsUseCase{
		accountRepo:      accountRepo,
		subscriptionRepo: subscriptionRepo,
		logger:           logger,
	}
}

func (uc *ListAccountSubscriptionsUseCase) Execute(ctx context.Context, query ListAccountSubscriptionsQuery) (*ListAccountSubscriptionsResult, error) {
	account, err := loadOwnedAccount(ctx, uc.accountRepo, query.UserID, query.AccountID)
	if err != nil {
		return nil, err
	}

	p := utils.ValidatePagination(query.Page, query.PageSize)
	subs, total, err := uc.subscriptionRepo.List(ctx, billing.SubscriptionFilter{
		AccountID: account.ID(),
		Page:      p.Page,
		PageSize:  p.PageSize,
	})
	if err != nil {
		uc.logger.Errorw("failed to list subscriptions", "account_id", account.ID(), "error", err)
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	return &ListAccountSubscriptionsResult{
		Subscriptions: dto.ToSubscriptionDTOList(subs),
		Total:         total,
		Page:          p.Page,
		PageSize:      p.PageSize,
	}, nil
}

// loadOwnedAccount reports another user's account as not found.
func loadOwnedAccount(ctx context.Context, repo billing.AccountRepository, userID, accountID string) (*billing.Account, error) {
	account, err := repo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, billing.ErrAccountNotFound) {
			return nil, apperrors.NewNotFoundError("account not found")
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account.UserID() != userID {
		return nil, apperrors.NewNotFoundError("account not found")
	}
	return account, nil
}
