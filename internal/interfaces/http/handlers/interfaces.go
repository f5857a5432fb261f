package handlers

import (
	"context"

	billingdto "github.com/orris-inc/tally/internal/application/billing/dto"
	billingusecases "github.com/orris-inc/tally/internal/application/billing/usecases"
	metricsdto "github.com/orris-inc/tally/internal/application/metrics/dto"
	metricsusecases "github.com/orris-inc/tally/internal/application/metrics/usecases"
)

// Use case interfaces the handlers depend on.

type getDashboardUseCase interface {
	Execute(ctx context.Context, query metricsusecases.GetDashboardQuery) (*metricsdto.DashboardDTO, error)
}

type getMetricsUseCase interface {
	Execute(ctx context.Context, query metricsusecases.GetMetricsQuery) (*metricsdto.MetricsDTO, error)
}

type getSnapshotUseCase interface {
	Execute(ctx context.Context, userID string) (*metricsdto.SnapshotDTO, error)
}

type listAccountsUseCase interface {
	Execute(ctx context.Context, userID string) ([]*billingdto.AccountDTO, error)
}

type connectAccountUseCase interface {
	Execute(ctx context.Context, cmd billingusecases.ConnectAccountCommand) (*billingdto.AccountDTO, error)
}

type disconnectAccountUseCase interface {
	Execute(ctx context.Context, cmd billingusecases.DisconnectAccountCommand) error
}

type listAccountSubscriptionsUseCase interface {
	Execute(ctx context.Context, query billingusecases.ListAccountSubscriptionsQuery) (*billingusecases.ListAccountSubscriptionsResult, error)
}

type handleWebhookUseCase interface {
	Execute(ctx context.Context, cmd billingusecases.HandleWebhookCommand) (*billingdto.WebhookResultDTO, error)
}

type invalidateCacheUseCase interface {
	Execute(ctx context.Context, cmd metricsusecases.InvalidateCacheCommand) (int64, error)
}
