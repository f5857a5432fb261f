package usecases

import (
	"context"
	"fmt"

	"github.com/orris-inc/tally/internal/domain/billing"
	"github.com/orris-inc/tally/internal/shared/logger"
)

type DisconnectAccountCommand struct {
	UserID    string
	AccountID string
}

// DisconnectAccountUseCase stops accepting webhooks for an account. Its
// records stay in place, so the owner's cached metrics are dropped.
type DisconnectAccountUseCase struct {
	accountRepo billing.AccountRepository
	invalidator MetricsInvalidator
	recorder    WebhookRecorder
	logger      logger.Interface
}

func NewDisconnectAccountUseCase(
	accountRepo billing.AccountRepository,
	invalidator MetricsInvalidator,
	logger logger.Interface,
) *DisconnectAccountUseCase {
	return &DisconnectAccountUseCase{
		accountRepo: accountRepo,
		invalidator: invalidator,
		recorder:    nopRecorder{},
		logger:      logger,
	}
}

func (uc *DisconnectAccountUseCase) SetRecorder(r WebhookRecorder) {
	if r != nil {
		uc.recorder = r
	}
}

func (uc *DisconnectAccountUseCase) Execute(ctx context.Context, cmd DisconnectAccountCommand) error {
	account, err := loadOwnedAccount(ctx, uc.accountRepo, cmd.UserID, cmd.AccountID)
	if err != nil {
		return err
	}

	if !account.IsActive() {
		return nil
	}

	account.Deactivate()
	if err := uc.accountRepo.Update(ctx, account); err != nil {
		uc.logger.Errorw("failed to deactivate account", "account_id", account.ID(), "error", err)
		return fmt.Errorf("failed to deactivate account: %w", err)
	}

	invalidate(ctx, uc.invalidator, uc.recorder, uc.logger, InvalidationSourceAccount, account.UserID())

	uc.logger.Infow("account disconnected", "account_id", account.ID(), "user_id", account.UserID())
	return nil
}

// invalidate never fails the caller; entries left behind expire by TTL.
func invalidate(ctx context.Context, inv MetricsInvalidator, rec WebhookRecorder, log logger.Interface, source, userID string) {
	deleted, err := inv.Invalidate(ctx, userID)
	if err != nil {
		log.Warnw("metrics cache invalidation failed", "user_id", userID, "source", source, "error", err)
		return
	}
	rec.CacheInvalidated(source, deleted)
}
