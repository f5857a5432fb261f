package billing

import (
	"context"

	vo "github.com/orris-inc/tally/internal/domain/billing/valueobjects"
)

// Lookups by provider keys return (nil, nil) when nothing matches; GetByID
// methods return ErrXxxNotFound.

type AccountRepository interface {
	Create(ctx context.Context, account *Account) error
	Update(ctx context.Context, account *Account) error
	GetByID(ctx context.Context, id string) (*Account, error)
	GetByUserAndProvider(ctx context.Context, userID string, provider vo.Provider) (*Account, error)
	ListByUser(ctx context.Context, userID string) ([]*Account, error)
	ListActiveUserIDs(ctx context.Context) ([]string, error)
}

type SubscriptionFilter struct {
	AccountID string
	Page      int
	PageSize  int
}

type SubscriptionRepository interface {
	Save(ctx context.Context, subscription *Subscription) error
	GetByProviderID(ctx context.Context, accountID, providerSubscriptionID string) (*Subscription, error)
	GetLatestByCustomer(ctx context.Context, accountID, customerID string) (*Subscription, error)
	GetByID(ctx context.Context, id string) (*Subscription, error)
	List(ctx context.Context, filter SubscriptionFilter) ([]*Subscription, int64, error)
}

type TransactionRepository interface {
	Save(ctx context.Context, transaction *Transaction) error
	GetByProviderID(ctx context.Context, providerTransactionID string) (*Transaction, error)
}

type WebhookEventRepository interface {
	Save(ctx context.Context, event *WebhookEvent) error
	GetByProviderEventID(ctx context.Context, provider vo.Provider, eventID string) (*WebhookEvent, error)
}
