package usecases

import (
	"context"

	"github.com/orris-inc/tally/internal/domain/billing"
	vo "github.com/orris-inc/tally/internal/domain/billing/valueobjects"
)

// WebhookParser verifies and decodes one provider's webhook deliveries.
type WebhookParser interface {
	Provider() vo.Provider
	Parse(payload []byte, signature, secret string) (*billing.ProviderEvent, error)
}

// MetricsInvalidator drops a user's cached metrics.
type MetricsInvalidator interface {
	Invalidate(ctx context.Context, userID string) (int64, error)
}

// WebhookRecorder counts deliveries and invalidated cache keys.
type WebhookRecorder interface {
	WebhookEvent(provider, status string)
	CacheInvalidated(source string, keys int64)
}

type nopRecorder struct{}

func (nopRecorder) WebhookEvent(string, string)    {}
func (nopRecorder) CacheInvalidated(string, int64) {}

const (
	InvalidationSourceWebhook = "webhook"
	InvalidationSourceAccount = "account"
)
