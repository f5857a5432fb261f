package http

import (
	"context"

	"github.com/orris-inc/tally/internal/interfaces/http/handlers"
	adminHandlers "github.com/orris-inc/tally/internal/interfaces/http/handlers/admin"
)

type allHandlers struct {
	dashboardHandler *handlers.DashboardHandler
	accountHandler   *handlers.AccountHandler
	webhookHandler   *handlers.WebhookHandler
	healthHandler    *handlers.HealthHandler
	cacheHandler     *adminHandlers.CacheHandler
}

func newHandlers(c *Container) *allHandlers {
	log := c.log
	ucs := c.ucs

	return &allHandlers{
		dashboardHandler: handlers.NewDashboardHandler(ucs.getDashboardUC, ucs.getMetricsUC, ucs.getSnapshotUC, log),
		accountHandler: handlers.NewAccountHandler(
			ucs.listAccountsUC,
			ucs.connectAccountUC,
			ucs.disconnectAccountUC,
			ucs.listAccountSubscriptionsUC,
			log,
		),
		webhookHandler: handlers.NewWebhookHandler(ucs.handleWebhookUC, log),
		healthHandler:  handlers.NewHealthHandler(c.healthChecks()),
		cacheHandler:   adminHandlers.NewCacheHandler(ucs.invalidateCacheUC, log),
	}
}

func (c *Container) healthChecks() map[string]handlers.HealthCheck {
	checks := map[string]handlers.HealthCheck{
		"database": func(ctx context.Context) error {
			sqlDB, err := c.db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if c.redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return c.redis.Ping(ctx).Err()
		}
	}
	return checks
}
