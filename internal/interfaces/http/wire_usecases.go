package http

import (
	billingUsecases "github.com/orris-inc/tally/internal/application/billing/usecases"
	metricsUsecases "github.com/orris-inc/tally/internal/application/metrics/usecases"
)

type allUseCases struct {
	// Metrics
	getDashboardUC    *metricsUsecases.GetDashboardUseCase
	getMetricsUC      *metricsUsecases.GetMetricsUseCase
	getSnapshotUC     *metricsUsecases.GetSnapshotUseCase
	invalidateCacheUC *metricsUsecases.InvalidateCacheUseCase

	// Billing
	listAccountsUC             *billingUsecases.ListAccountsUseCase
	connectAccountUC           *billingUsecases.ConnectAccountUseCase
	disconnectAccountUC        *billingUsecases.DisconnectAccountUseCase
	listAccountSubscriptionsUC *billingUsecases.ListAccountSubscriptionsUseCase
	handleWebhookUC            *billingUsecases.HandleWebhookUseCase
}

func newUseCases(c *Container) *allUseCases {
	log := c.log
	repos := c.repos
	svcs := c.svcs

	ucs := &allUseCases{
		getDashboardUC:    metricsUsecases.NewGetDashboardUseCase(svcs.aggregator, repos.billingReader, log),
		getMetricsUC:      metricsUsecases.NewGetMetricsUseCase(svcs.aggregator, log),
		getSnapshotUC:     metricsUsecases.NewGetSnapshotUseCase(repos.snapshotRepo, log),
		invalidateCacheUC: metricsUsecases.NewInvalidateCacheUseCase(svcs.invalidator, log),

		listAccountsUC:             billingUsecases.NewListAccountsUseCase(repos.accountRepo, log),
		connectAccountUC:           billingUsecases.NewConnectAccountUseCase(repos.accountRepo, log),
		disconnectAccountUC:        billingUsecases.NewDisconnectAccountUseCase(repos.accountRepo, svcs.invalidator, log),
		listAccountSubscriptionsUC: billingUsecases.NewListAccountSubscriptionsUseCase(repos.accountRepo, repos.subscriptionRepo, log),
		handleWebhookUC: billingUsecases.NewHandleWebhookUseCase(
			repos.accountRepo,
			repos.webhookEventRepo,
			svcs.recordSyncer,
			svcs.txManager,
			svcs.invalidator,
			log.Named("webhook"),
			svcs.parsers...,
		),
	}

	ucs.invalidateCacheUC.SetRecorder(c.collector)
	ucs.disconnectAccountUC.SetRecorder(c.collector)
	ucs.handleWebhookUC.SetRecorder(c.collector)

	return ucs
}
