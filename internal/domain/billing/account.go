// Package billing models the records synced from payment providers: connected
// accounts, their subscriptions and the money movements on them.
package billing

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	vo "github.com/orris-inc/tally/internal/domain/billing/valueobjects"
	"github.com/orris-inc/tally/internal/shared/biztime"
)

// Account is a payment-provider account a user connected. Its user owns every
// subscription and transaction synced through it.
type Account struct {
	id                string
	userID            string
	provider          vo.Provider
	providerAccountID string
	webhookSecret     string
	active            bool
	connectedAt       time.Time
	updatedAt         time.Time
}

func NewAccount(userID string, provider vo.Provider, providerAccountID, webhookSecret string) (*Account, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("user ID is required")
	}
	if !vo.ValidProviders[provider] {
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
	if strings.TrimSpace(providerAccountID) == "" {
		return nil, fmt.Errorf("provider account ID is required")
	}

	now := biztime.NowUTC()
	return &Account{
		id:                uuid.NewString(),
		userID:            userID,
		provider:          provider,
		providerAccountID: strings.TrimSpace(providerAccountID),
		webhookSecret:     webhookSecret,
		active:            true,
		connectedAt:       now,
		updatedAt:         now,
	}, nil
}

func ReconstructAccount(
	id, userID string,
	provider vo.Provider,
	providerAccountID, webhookSecret string,
	active bool,
	connectedAt, updatedAt time.Time,
) (*Account, error) {
	if id == "" {
		return nil, fmt.Errorf("account ID cannot be empty")
	}
	if !vo.ValidProviders[provider] {
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
	return &Account{
		id:                id,
		userID:            userID,
		provider:          provider,
		providerAccountID: providerAccountID,
		webhookSecret:     webhookSecret,
		active:            active,
		connectedAt:       connectedAt,
		updatedAt:         updatedAt,
	}, nil
}

func (a *Account) ID() string                { return a.id }
func (a *Account) UserID() string            { return a.userID }
func (a *Account) Provider() vo.Provider     { return a.provider }
func (a *Account) ProviderAccountID() string { return a.providerAccountID }
func (a *Account) WebhookSecret() string     { return a.webhookSecret }
func (a *Account) IsActive() bool            { return a.active }
func (a *Account) ConnectedAt() time.Time    { return a.connectedAt }
func (a *Account) UpdatedAt() time.Time      { return a.updatedAt }

// HasWebhookSecret reports whether deliveries must carry a valid signature.
func (a *Account) HasWebhookSecret() bool {
	return a.webhookSecret != ""
}

func (a *Account) Deactivate() {
	if !a.active {
		return
	}
	a.active = false
	a.updatedAt = biztime.NowUTC()
}

// Reconnect reactivates a previously disconnected account with fresh credentials.
func (a *Account) Reconnect(providerAccountID, webhookSecret string) {
	if providerAccountID != "" {
		a.providerAccountID = providerAccountID
	}
	a.webhookSecret = webhookSecret
	a.active = true
	a.updatedAt = biztime.NowUTC()
}
