package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/orris-inc/tally/internal/application/billing/dto"
	"github.com/orris-inc/tally/internal/domain/billing"
	vo "github.com/orris-inc/tally/internal/domain/billing/valueobjects"
	apperrors "github.com/orris-inc/tally/internal/shared/errors"
	"github.com/orris-inc/tally/internal/shared/logger"
)

type ConnectAccountCommand struct {
	UserID            string
	Provider          string
	ProviderAccountID string
	WebhookSecret     string
}

// ConnectAccountUseCase registers a provider account whose webhooks will be
// accepted for the user. A previously disconnected account is reactivated.
type ConnectAccountUseCase struct {
	accountRepo billing.AccountRepository
	logger      logger.Interface
}

func NewConnectAccountUseCase(accountRepo billing.AccountRepository, logger logger.Interface) *ConnectAccountUseCase {
	return &ConnectAccountUseCase{accountRepo: accountRepo, logger: logger}
}

func (uc *ConnectAccountUseCase) Execute(ctx context.Context, cmd ConnectAccountCommand) (*dto.AccountDTO, error) {
	provider, err := vo.ParseProvider(cmd.Provider)
	if err != nil {
		return nil, apperrors.NewValidationError("unsupported provider", err.Error())
	}

	existing, err := uc.accountRepo.GetByUserAndProvider(ctx, cmd.UserID, provider)
	if err != nil {
		uc.logger.Errorw("failed to look up account", "user_id", cmd.UserID, "provider", provider, "error", err)
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	if existing != nil {
		if existing.IsActive() {
			return nil, apperrors.NewConflictError(billing.ErrAccountExists.Error())
		}
		existing.Reconnect(cmd.ProviderAccountID, cmd.WebhookSecret)
		if err := uc.accountRepo.Update(ctx, existing); err != nil {
			uc.logger.Errorw("failed to reconnect account", "account_id", existing.ID(), "error", err)
			return nil, fmt.Errorf("failed to reconnect account: %w", err)
		}
		uc.logger.Infow("account reconnected", "account_id", existing.ID(), "user_id", cmd.UserID, "provider", provider)
		return dto.ToAccountDTO(existing), nil
	}

	account, err := billing.NewAccount(cmd.UserID, provider, cmd.ProviderAccountID, cmd.WebhookSecret)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid account", err.Error())
	}

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		if errors.Is(err, billing.ErrAccountExists) {
			return nil, apperrors.NewConflictError(billing.ErrAccountExists.Error())
		}
		uc.logger.Errorw("failed to create account", "user_id", cmd.UserID, "provider", provider, "error", err)
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	uc.logger.Infow("account connected", "account_id", account.ID(), "user_id", cmd.UserID, "provider", provider)
	return dto.ToAccountDTO(account), nil
}
