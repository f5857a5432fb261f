package http

import (
	"fmt"

	billingServices "github.com/orris-inc/tally/internal/application/billing/services"
	billingUsecases "github.com/orris-inc/tally/internal/application/billing/usecases"
	metricsServices "github.com/orris-inc/tally/internal/application/metrics/services"
	"github.com/orris-inc/tally/internal/infrastructure/cache"
	"github.com/orris-inc/tally/internal/infrastructure/payment/paypal"
	"github.com/orris-inc/tally/internal/infrastructure/payment/stripe"
	"github.com/orris-inc/tally/internal/infrastructure/ratelimit"
	"github.com/orris-inc/tally/internal/shared/db"
)

// services holds the application services shared by several use cases.
type services struct {
	metricStore  cache.MetricStore
	aggregator   *metricsServices.MetricsAggregator
	invalidator  *metricsServices.CacheInvalidator
	recordSyncer *billingServices.RecordSyncer
	txManager    *db.TransactionManager
	parsers      []billingUsecases.WebhookParser
	// rateLimiter is nil without Redis.
	rateLimiter ratelimit.RateLimiter
}

func newServices(c *Container) (*services, error) {
	log := c.log

	store, err := cache.NewMetricStore(c.cfg.Metrics.CacheDriver, c.redis)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize metrics cache: %w", err)
	}

	aggregator := metricsServices.NewMetricsAggregator(
		c.repos.billingReader,
		store,
		c.cfg.Metrics.CacheTTL(),
		log.Named("metrics.aggregator"),
	)
	aggregator.SetRecorder(c.collector)

	s := &services{
		metricStore: store,
		aggregator:  aggregator,
		invalidator: metricsServices.NewCacheInvalidator(store, log.Named("metrics.invalidator")),
		recordSyncer: billingServices.NewRecordSyncer(
			c.repos.subscriptionRepo,
			c.repos.transactionRepo,
			log.Named("billing.syncer"),
		),
		txManager: db.NewTransactionManager(c.db),
		parsers: []billingUsecases.WebhookParser{
			stripe.NewParser(log.Named("webhook.stripe")),
			paypal.NewParser(log.Named("webhook.paypal")),
		},
	}
	if c.redis != nil {
		s.rateLimiter = ratelimit.NewRedisRateLimiter(c.redis)
	}
	return s, nil
}
