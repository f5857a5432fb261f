package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/orris-inc/tally/internal/application/billing/dto"
	"github.com/orris-inc/tally/internal/application/billing/services"
	"github.com/orris-inc/tally/internal/domain/billing"
	vo "github.com/orris-inc/tally/internal/domain/billing/valueobjects"
	"github.com/orris-inc/tally/internal/shared/db"
	apperrors "github.com/orris-inc/tally/internal/shared/errors"
	"github.com/orris-inc/tally/internal/shared/logger"
)

const (
	webhookStatusRejected  = "rejected"
	webhookStatusDuplicate = "duplicate"
)

type HandleWebhookCommand struct {
	Provider  string
	AccountID string
	Payload   []byte
	Signature string
}

// HandleWebhookUseCase applies one provider delivery to the record store
// and, once the sync has committed, drops the account owner's cached metrics.
type HandleWebhookUseCase struct {
	accountRepo billing.AccountRepository
	eventRepo   billing.WebhookEventRepository
	syncer      *services.RecordSyncer
	txMgr       *db.TransactionManager
	parsers     map[vo.Provider]WebhookParser
	invalidator MetricsInvalidator
	recorder    WebhookRecorder
	logger      logger.Interface
}

func NewHandleWebhookUseCase(
	accountRepo billing.AccountRepository,
	eventRepo billing.WebhookEventRepository,
	syncer *services.RecordSyncer,
	txMgr *db.TransactionManager,
	invalidator MetricsInvalidator,
	logger logger.Interface,
	parsers ...WebhookParser,
) *HandleWebhookUseCase {
	byProvider := make(map[vo.Provider]WebhookParser, len(parsers))
	for _, p := range parsers {
		byProvider[p.Provider()] = p
	}
	return &HandleWebhookUseCase{
		accountRepo: accountRepo,
		eventRepo:   eventRepo,
		syncer:      syncer,
		txMgr:       txMgr,
		parsers:     byProvider,
		invalidator: invalidator,
		recorder:    nopRecorder{},
		logger:      logger,
	}
}

func (uc *HandleWebhookUseCase) SetRecorder(r WebhookRecorder) {
	if r != nil {
		uc.recorder = r
	}
}

func (uc *HandleWebhookUseCase) Execute(ctx context.Context, cmd HandleWebhookCommand) (*dto.WebhookResultDTO, error) {
	provider, err := vo.ParseProvider(cmd.Provider)
	if err != nil {
		return nil, apperrors.NewValidationError("unsupported provider", err.Error())
	}
	parser, ok := uc.parsers[provider]
	if !ok {
		return nil, apperrors.NewValidationError("unsupported provider", provider.String())
	}

	account, err := uc.loadAccount(ctx, provider, cmd.AccountID)
	if err != nil {
		uc.recorder.WebhookEvent(provider.String(), webhookStatusRejected)
		return nil, err
	}

	event, err := parser.Parse(cmd.Payload, cmd.Signature, account.WebhookSecret())
	if err != nil {
		uc.recorder.WebhookEvent(provider.String(), webhookStatusRejected)
		uc.logger.Warnw("webhook rejected", "provider", provider, "account_id", account.ID(), "error", err)
		if errors.Is(err, billing.ErrInvalidSignature) {
			return nil, apperrors.NewUnauthorizedError("invalid webhook signature")
		}
		return nil, apperrors.NewBadRequestError("malformed webhook payload", err.Error())
	}

	record, err := uc.eventRepo.GetByProviderEventID(ctx, provider, event.ID)
	if err != nil {
		uc.logger.Errorw("failed to look up webhook event", "provider", provider, "event_id", event.ID, "error", err)
		return nil, fmt.Errorf("failed to look up webhook event: %w", err)
	}
	if record != nil && record.IsProcessed() {
		uc.recorder.WebhookEvent(provider.String(), webhookStatusDuplicate)
		uc.logger.Infow("webhook event already processed", "provider", provider, "event_id", event.ID)
		return &dto.WebhookResultDTO{
			EventID:   event.ID,
			EventType: event.Type,
			Status:    record.Status().String(),
			Duplicate: true,
		}, nil
	}
	if record == nil {
		record = billing.NewWebhookEvent(provider, event.ID, event.Type, account.ID(), cmd.Payload)
	} else {
		record.Redeliver(event.Type, cmd.Payload)
	}

	if !event.Recognized() {
		return uc.ignore(ctx, account, event, record)
	}

	err = uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.apply(txCtx, account, event); err != nil {
			return err
		}
		record.MarkProcessed()
		return uc.eventRepo.Save(txCtx, record)
	})
	if err != nil {
		return nil, uc.fail(ctx, account, event, record, err)
	}

	invalidate(ctx, uc.invalidator, uc.recorder, uc.logger, InvalidationSourceWebhook, account.UserID())
	uc.recorder.WebhookEvent(provider.String(), vo.WebhookEventProcessed.String())

	uc.logger.Infow("webhook processed",
		"provider", provider,
		"account_id", account.ID(),
		"event_id", event.ID,
		"event_type", event.Type,
		"kind", event.Kind,
	)

	return &dto.WebhookResultDTO{
		EventID:   event.ID,
		EventType: event.Type,
		Status:    record.Status().String(),
	}, nil
}

func (uc *HandleWebhookUseCase) loadAccount(ctx context.Context, provider vo.Provider, accountID string) (*billing.Account, error) {
	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, billing.ErrAccountNotFound) {
			return nil, apperrors.NewNotFoundError("account not found")
		}
		uc.logger.Errorw("failed to get account for webhook", "account_id", accountID, "error", err)
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account.Provider() != provider {
		return nil, apperrors.NewBadRequestError(billing.ErrProviderMismatch.Error())
	}
	if !account.IsActive() {
		return nil, apperrors.NewBadRequestError(billing.ErrAccountInactive.Error())
	}
	return account, nil
}

func (uc *HandleWebhookUseCase) apply(ctx context.Context, account *billing.Account, event *billing.ProviderEvent) error {
	switch event.Kind {
	case billing.EventSubscription:
		_, err := uc.syncer.ApplySubscription(ctx, account, *event.Subscription)
		return err
	case billing.EventTransaction:
		_, err := uc.syncer.ApplyTransaction(ctx, account, *event.Transaction)
		return err
	default:
		return nil
	}
}

// ignore stores a delivery of an unhandled type. Records are unchanged, so
// nothing is invalidated.
func (uc *HandleWebhookUseCase) ignore(ctx context.Context, account *billing.Account, event *billing.ProviderEvent, record *billing.WebhookEvent) (*dto.WebhookResultDTO, error) {
	record.MarkIgnored()
	if err := uc.eventRepo.Save(ctx, record); err != nil {
		uc.logger.Errorw("failed to store ignored webhook event", "event_id", event.ID, "error", err)
		return nil, fmt.Errorf("failed to store webhook event: %w", err)
	}

	uc.recorder.WebhookEvent(event.Provider.String(), vo.WebhookEventIgnored.String())
	uc.logger.Infow("ignoring unhandled webhook event type",
		"provider", event.Provider,
		"account_id", account.ID(),
		"event_id", event.ID,
		"event_type", event.Type,
	)

	return &dto.WebhookResultDTO{
		EventID:   event.ID,
		EventType: event.Type,
		Status:    record.Status().String(),
	}, nil
}

func (uc *HandleWebhookUseCase) fail(ctx context.Context, account *billing.Account, event *billing.ProviderEvent, record *billing.WebhookEvent, cause error) error {
	uc.logger.Errorw("failed to apply webhook event",
		"provider", event.Provider,
		"account_id", account.ID(),
		"event_id", event.ID,
		"event_type", event.Type,
		"error", cause,
	)

	record.MarkFailed(cause)
	if err := uc.eventRepo.Save(ctx, record); err != nil {
		uc.logger.Errorw("failed to store failed webhook event", "event_id", event.ID, "error", err)
	}
	uc.recorder.WebhookEvent(event.Provider.String(), vo.WebhookEventFailed.String())

	return apperrors.NewBadRequestError("failed to process webhook event", cause.Error())
}
