package http

import (
	"gorm.io/gorm"

	"github.com/orris-inc/tally/internal/infrastructure/repository"
	"github.com/orris-inc/tally/internal/shared/logger"
)

// repositories holds the concrete repository instances. Concrete types are
// kept because some serve several narrow interfaces.
type repositories struct {
	accountRepo      *repository.AccountRepository
	subscriptionRepo *repository.SubscriptionRepository
	transactionRepo  *repository.TransactionRepository
	webhookEventRepo *repository.WebhookEventRepository
	snapshotRepo     *repository.MetricsSnapshotRepository
	billingReader    *repository.BillingReader
}

func newRepositories(db *gorm.DB, log logger.Interface) *repositories {
	return &repositories{
		accountRepo:      repository.NewAccountRepository(db, log),
		subscriptionRepo: repository.NewSubscriptionRepository(db),
		transactionRepo:  repository.NewTransactionRepository(db),
		webhookEventRepo: repository.NewWebhookEventRepository(db),
		snapshotRepo:     repository.NewMetricsSnapshotRepository(db),
		billingReader:    repository.NewBillingReader(db),
	}
}
