package usecases

import (
	"context"
	"fmt"

	"github.com/orris-inc/tally/internal/application/billing/dto"
	"github.com/orris-inc/tally/internal/domain/billing"
	"github.com/orris-inc/tally/internal/shared/logger"
)

type ListAccountsUseCase struct {
	accountRepo billing.AccountRepository
	logger      logger.Interface
}

func NewListAccountsUseCase(accountRepo billing.AccountRepository, logger logger.Interface) *ListAccountsUseCase {
	return &ListAccountsUseCase{accountRepo: accountRepo, logger: logger}
}

func (uc *ListAccountsUseCase) Execute(ctx context.Context, userID string) ([]*dto.AccountDTO, error) {
	accounts, err := uc.accountRepo.ListByUser(ctx, userID)
	if err != nil {
		uc.logger.Errorw("failed to list accounts", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return dto.ToAccountDTOList(accounts), nil
}
