package services

import (
	"context"

	"github.com/orris-inc/tally/internal/domain/billing"
)

type mockSubscriptionRepository struct {
	SaveFunc                func(ctx context.Context, sub *billing.Subscription) error
	GetByProviderIDFunc     func(ctx context.Context, accountID, providerSubscriptionID string) (*billing.Subscription, error)
	GetLatestByCustomerFunc func(ctx context.Context, accountID, customerID string) (*billing.Subscription, error)
	GetByIDFunc             func(ctx context.Context, id string) (*billing.Subscription, error)
}

func (m *mockSubscriptionRepository) Save(ctx context.Context, sub *billing.Subscription) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, sub)
	}
	return nil
}

func (m *mockSubscriptionRepository) GetByProviderID(ctx context.Context, accountID, providerSubscriptionID string) (*billing.Subscription, error) {
	if m.GetByProviderIDFunc != nil {
		return m.GetByProviderIDFunc(ctx, accountID, providerSubscriptionID)
	}
	return nil, nil
}

func (m *mockSubscriptionRepository) GetLatestByCustomer(ctx context.Context, accountID, customerID string) (*billing.Subscription, error) {
	if m.GetLatestByCustomerFunc != nil {
		return m.GetLatestByCustomerFunc(ctx, accountID, customerID)
	}
	return nil, nil
}

func (m *mockSubscriptionRepository) GetByID(ctx context.Context, id string) (*billing.Subscription, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, billing.ErrSubscriptionNotFound
}

func (m *mockSubscriptionRepository) List(context.Context, billing.SubscriptionFilter) ([]*billing.Subscription, int64, error) {
	return nil, 0, nil
}

type mockTransactionRepository struct {
	SaveFunc            func(ctx context.Context, txn *billing.Transaction) error
	GetByProviderIDFunc func(ctx context.Context, providerTransactionID string) (*billing.Transaction, error)
}

func (m *mockTransactionRepository) Save(ctx context.Context, txn *billing.Transaction) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, txn)
	}
	return nil
}

func (m *mockTransactionRepository) GetByProviderID(ctx context.Context, providerTransactionID string) (*billing.Transaction, error) {
	if m.GetByProviderIDFunc != nil {
		return m.GetByProviderIDFunc(ctx, providerTransactionID)
	}
	return nil, nil
}
