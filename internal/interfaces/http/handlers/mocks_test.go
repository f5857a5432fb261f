package handlers

import (
	"context"

	billingdto "github.com/orris-inc/tally/internal/application/billing/dto"
	billingusecases "github.com/orris-inc/tally/internal/application/billing/usecases"
	metricsdto "github.com/orris-inc/tally/internal/application/metrics/dto"
	metricsusecases "github.com/orris-inc/tally/internal/application/metrics/usecases"
)

type mockGetDashboardUC struct {
	executeFunc func(ctx context.Context, query metricsusecases.GetDashboardQuery) (*metricsdto.DashboardDTO, error)
}

func (m *mockGetDashboardUC) Execute(ctx context.Context, query metricsusecases.GetDashboardQuery) (*metricsdto.DashboardDTO, error) {
	return m.executeFunc(ctx, query)
}

type mockGetMetricsUC struct {
	executeFunc func(ctx context.Context, query metricsusecases.GetMetricsQuery) (*metricsdto.MetricsDTO, error)
}

func (m *mockGetMetricsUC) Execute(ctx context.Context, query metricsusecases.GetMetricsQuery) (*metricsdto.MetricsDTO, error) {
	return m.executeFunc(ctx, query)
}

type mockGetSnapshotUC struct {
	executeFunc func(ctx context.Context, userID string) (*metricsdto.SnapshotDTO, error)
}

func (m *mockGetSnapshotUC) Execute(ctx context.Context, userID string) (*metricsdto.SnapshotDTO, error) {
	return m.executeFunc(ctx, userID)
}

type mockListAccountsUC struct {
	executeFunc func(ctx context.Context, userID string) ([]*billingdto.AccountDTO, error)
}

func (m *mockListAccountsUC) Execute(ctx context.Context, userID string) ([]*billingdto.AccountDTO, error) {
	return m.executeFunc(ctx, userID)
}

type mockConnectAccountUC struct {
	executeFunc func(ctx context.Context, cmd billingusecases.ConnectAccountCommand) (*billingdto.AccountDTO, error)
}

func (m *mockConnectAccountUC) Execute(ctx context.Context, cmd billingusecases.ConnectAccountCommand) (*billingdto.AccountDTO, error) {
	return m.executeFunc(ctx, cmd)
}

type mockDisconnectAccountUC struct {
	executeFunc func(ctx context.Context, cmd billingusecases.DisconnectAccountCommand) error
}

func (m *mockDisconnectAccountUC) Execute(ctx context.Context, cmd billingusecases.DisconnectAccountCommand) error {
	return m.executeFunc(ctx, cmd)
}

type mockListSubscriptionsUC struct {
	executeFunc func(ctx context.Context, query billingusecases.ListAccountSubscriptionsQuery) (*billingusecases.ListAccountSubscriptionsResult, error)
}

func (m *mockListSubscriptionsUC) Execute(ctx context.Context, query billingusecases.ListAccountSubscriptionsQuery) (*billingusecases.ListAccountSubscriptionsResult, error) {
	return m.executeFunc(ctx, query)
}

type mockHandleWebhookUC struct {
	executeFunc func(ctx context.Context, cmd billingusecases.HandleWebhookCommand) (*billingdto.WebhookResultDTO, error)
}

func (m *mockHandleWebhookUC) Execute(ctx context.Context, cmd billingusecases.HandleWebhookCommand) (*billingdto.WebhookResultDTO, error) {
	return m.executeFunc(ctx, cmd)
}
