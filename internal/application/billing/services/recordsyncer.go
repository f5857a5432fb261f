// Package services writes provider snapshots into the billing record store.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/orris-inc/tally/internal/domain/billing"
	vo "github.com/orris-inc/tally/internal/domain/billing/valueobjects"
	"github.com/orris-inc/tally/internal/shared/logger"
)

// RecordSyncer upserts subscriptions and transactions reported by a
// provider. Callers run it inside a transaction; it never touches the cache.
type RecordSyncer struct {
	subscriptionRepo billing.SubscriptionRepository
	transactionRepo  billing.TransactionRepository
	logger           logger.Interface
}

func NewRecordSyncer(
	subscriptionRepo billing.SubscriptionRepository,
	transactionRepo billing.TransactionRepository,
	logger logger.Interface,
) *RecordSyncer {
	return &RecordSyncer{
		subscriptionRepo: subscriptionRepo,
		transactionRepo:  transactionRepo,
		logger:           logger,
	}
}

// ApplySubscription creates the subscription on first sight and overwrites
// it with snap afterwards.
func (s *RecordSyncer) ApplySubscription(ctx context.Context, account *billing.Account, snap billing.SubscriptionSnapshot) (*billing.Subscription, error) {
	existing, err := s.subscriptionRepo.GetByProviderID(ctx, account.ID(), snap.ProviderSubscriptionID)
	if err != nil {
		return nil, err
	}

	sub := existing
	if sub == nil {
		sub, err = billing.NewSubscription(account.ID(), snap)
	} else {
		err = sub.ApplySnapshot(snap)
	}
	if err != nil {
		return nil, err
	}

	if err := s.subscriptionRepo.Save(ctx, sub); err != nil {
		return nil, err
	}

	s.logger.Infow("subscription synced",
		"account_id", account.ID(),
		"subscription_id", sub.ID(),
		"provider_subscription_id", snap.ProviderSubscriptionID,
		"status", sub.Status(),
		"created", existing == nil,
	)
	return sub, nil
}

// ApplyTransaction upserts a charge or refund. A transaction seen before
// keeps its subscription; a new one is linked through resolveSubscription.
func (s *RecordSyncer) ApplyTransaction(ctx context.Context, account *billing.Account, snap billing.TransactionSnapshot) (*billing.Transaction, error) {
	existing, err := s.transactionRepo.GetByProviderID(ctx, snap.ProviderTransactionID)
	if err != nil {
		return nil, err
	}

	var txn *billing.Transaction
	if existing != nil {
		if snap, err = s.classifyRefund(ctx, snap); err != nil {
			return nil, err
		}
		if err := existing.ApplySnapshot(snap); err != nil {
			return nil, err
		}
		txn = existing
	} else {
		sub, err := s.resolveSubscription(ctx, account, snap)
		if err != nil {
			return nil, err
		}
		if snap, err = s.classifyRefund(ctx, snap); err != nil {
			return nil, err
		}
		if txn, err = billing.NewTransaction(sub.ID(), snap); err != nil {
			return nil, err
		}
	}

	if err := s.transactionRepo.Save(ctx, txn); err != nil {
		return nil, err
	}

	s.logger.Infow("transaction synced",
		"account_id", account.ID(),
		"transaction_id", txn.ID(),
		"provider_transaction_id", snap.ProviderTransactionID,
		"type", txn.Type(),
		"amount", txn.Amount().String(),
	)
	return txn, nil
}

// resolveSubscription tries the provider subscription ID, then the
// transaction being reversed, then the customer's most recent subscription.
func (s *RecordSyncer) resolveSubscription(ctx context.Context, account *billing.Account, snap billing.TransactionSnapshot) (*billing.Subscription, error) {
	if snap.ProviderSubscriptionID != "" {
		sub, err := s.subscriptionRepo.GetByProviderID(ctx, account.ID(), snap.ProviderSubscriptionID)
		if err != nil {
			return nil, err
		}
		if sub != nil {
			return sub, nil
		}
	}

	if snap.RelatedTransactionID != "" {
		related, err := s.transactionRepo.GetByProviderID(ctx, snap.RelatedTransactionID)
		if err != nil {
			return nil, err
		}
		if related != nil {
			sub, err := s.subscriptionRepo.GetByID(ctx, related.SubscriptionID())
			if err != nil && !errors.Is(err, billing.ErrSubscriptionNotFound) {
				return nil, err
			}
			if sub != nil && sub.AccountID() == account.ID() {
				return sub, nil
			}
		}
	}

	if snap.CustomerID != "" {
		sub, err := s.subscriptionRepo.GetLatestByCustomer(ctx, account.ID(), snap.CustomerID)
		if err != nil {
			return nil, err
		}
		if sub != nil {
			return sub, nil
		}
	}

	return nil, fmt.Errorf("%w: provider transaction %s", billing.ErrUnlinkedRecord, snap.ProviderTransactionID)
}

// classifyRefund downgrades a refund to partial_refund when it returns less
// than the charge it reverses. Providers that already say so are untouched.
func (s *RecordSyncer) classifyRefund(ctx context.Context, snap billing.TransactionSnapshot) (billing.TransactionSnapshot, error) {
	if snap.Type != vo.TransactionTypeRefund || snap.RelatedTransactionID == "" {
		return snap, nil
	}
	related, err := s.transactionRepo.GetByProviderID(ctx, snap.RelatedTransactionID)
	if err != nil {
		return snap, err
	}
	if related != nil && snap.Amount.LessThan(related.Amount()) {
		snap.Type = vo.TransactionTypePartialRefund
	}
	return snap, nil
}
