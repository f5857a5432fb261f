package repository

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/orris-inc/tally/internal/domain/billing"
	vo "github.com/orris-inc/tally/internal/domain/billing/valueobjects"
	"github.com/orris-inc/tally/internal/domain/metrics"
	"github.com/orris-inc/tally/internal/infrastructure/persistence/migrations"
	"github.com/orris-inc/tally/internal/shared/db"
	"github.com/orris-inc/tally/internal/shared/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// every pooled connection to :memory: is a separate database
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, migrations.MigrateBillingTables(gdb))
	return gdb
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mustAccount(t *testing.T, repo *AccountRepository, userID string, provider vo.Provider) *billing.Account {
	acc, err := billing.NewAccount(userID, provider, "acct_"+userID, "whsec_test")
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), acc))
	return acc
}

func mustSubscription(t *testing.T, repo *SubscriptionRepository, accountID string, snap billing.SubscriptionSnapshot) *billing.Subscription {
	if snap.Currency == "" {
		snap.Currency = "USD"
	}
	if snap.BillingCycle == "" {
		snap.BillingCycle = vo.BillingCycleMonthly
	}
	sub, err := billing.NewSubscription(accountID, snap)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), sub))
	return sub
}

func mustTransaction(t *testing.T, repo *TransactionRepository, subscriptionID string, snap billing.TransactionSnapshot) {
	if snap.Currency == "" {
		snap.Currency = "USD"
	}
	txn, err := billing.NewTransaction(subscriptionID, snap)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), txn))
}

func TestAccountRepository(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	repo := NewAccountRepository(gdb, logger.NewNopLogger())

	t.Run("create and look up", func(t *testing.T) {
		acc := mustAccount(t, repo, "user-1", vo.ProviderStripe)

		got, err := repo.GetByID(ctx, acc.ID())
		require.NoError(t, err)
		assert.Equal(t, "user-1", got.UserID())
		assert.Equal(t, vo.ProviderStripe, got.Provider())
		assert.True(t, got.IsActive())

		byProvider, err := repo.GetByUserAndProvider(ctx, "user-1", vo.ProviderStripe)
		require.NoError(t, err)
		require.NotNil(t, byProvider)
		assert.Equal(t, acc.ID(), byProvider.ID())
	})

	t.Run("one account per user and provider", func(t *testing.T) {
		dup, err := billing.NewAccount("user-1", vo.ProviderStripe, "acct_other", "")
		require.NoError(t, err)
		assert.ErrorIs(t, repo.Create(ctx, dup), billing.ErrAccountExists)
	})

	t.Run("missing account", func(t *testing.T) {
		_, err := repo.GetByID(ctx, "nope")
		assert.ErrorIs(t, err, billing.ErrAccountNotFound)

		got, err := repo.GetByUserAndProvider(ctx, "user-1", vo.ProviderPayPal)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("deactivated accounts drop out of active users", func(t *testing.T) {
		other := mustAccount(t, repo, "user-2", vo.ProviderPayPal)

		ids, err := repo.ListActiveUserIDs(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"user-1", "user-2"}, ids)

		other.Deactivate()
		require.NoError(t, repo.Update(ctx, other))

		ids, err = repo.ListActiveUserIDs(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"user-1"}, ids)

		list, err := repo.ListByUser(ctx, "user-2")
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.False(t, list[0].IsActive())
	})
}

func TestSubscriptionRepository(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	accounts := NewAccountRepository(gdb, logger.NewNopLogger())
	repo := NewSubscriptionRepository(gdb)
	acc := mustAccount(t, accounts, "user-1", vo.ProviderStripe)

	sub := mustSubscription(t, repo, acc.ID(), billing.SubscriptionSnapshot{
		ProviderSubscriptionID: "sub_1",
		CustomerID:             "cus_1",
		PlanName:               "Pro",
		Status:                 vo.StatusActive,
		StartDate:              day(2024, 1, 1),
		Price:                  decimal.NewFromInt(20),
	})

	t.Run("save overwrites the existing row", func(t *testing.T) {
		end := day(2024, 3, 1)
		require.NoError(t, sub.ApplySnapshot(billing.SubscriptionSnapshot{
			ProviderSubscriptionID: "sub_1",
			CustomerID:             "cus_1",
			PlanName:               "Pro",
			Status:                 vo.StatusCanceled,
			StartDate:              day(2024, 1, 1),
			EndDate:                &end,
			Price:                  decimal.NewFromInt(25),
			Currency:               "USD",
			BillingCycle:           vo.BillingCycleMonthly,
		}))
		require.NoError(t, repo.Save(ctx, sub))

		got, err := repo.GetByProviderID(ctx, acc.ID(), "sub_1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, sub.ID(), got.ID())
		assert.Equal(t, vo.StatusCanceled, got.Status())
		assert.True(t, got.Price().Equal(decimal.NewFromInt(25)))
		require.NotNil(t, got.EndDate())
		assert.True(t, got.EndDate().Equal(end))
	})

	t.Run("latest by customer", func(t *testing.T) {
		newer := mustSubscription(t, repo, acc.ID(), billing.SubscriptionSnapshot{
			ProviderSubscriptionID: "sub_2",
			CustomerID:             "cus_1",
			Status:                 vo.StatusActive,
			StartDate:              day(2024, 4, 1),
			Price:                  decimal.NewFromInt(30),
		})

		got, err := repo.GetLatestByCustomer(ctx, acc.ID(), "cus_1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, newer.ID(), got.ID())

		none, err := repo.GetLatestByCustomer(ctx, acc.ID(), "")
		require.NoError(t, err)
		assert.Nil(t, none)
	})

	t.Run("not found", func(t *testing.T) {
		got, err := repo.GetByProviderID(ctx, acc.ID(), "sub_missing")
		require.NoError(t, err)
		assert.Nil(t, got)

		_, err = repo.GetByID(ctx, "missing")
		assert.ErrorIs(t, err, billing.ErrSubscriptionNotFound)
	})

	t.Run("list paginates newest first", func(t *testing.T) {
		subs, total, err := repo.List(ctx, billing.SubscriptionFilter{AccountID: acc.ID(), Page: 1, PageSize: 1})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, subs, 1)
		assert.Equal(t, "sub_2", subs[0].ProviderSubscriptionID())

		subs, _, err = repo.List(ctx, billing.SubscriptionFilter{AccountID: acc.ID(), Page: 2, PageSize: 1})
		require.NoError(t, err)
		require.Len(t, subs, 1)
		assert.Equal(t, "sub_1", subs[0].ProviderSubscriptionID())
	})
}

func TestTransactionAndWebhookEventRepositories(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	txns := NewTransactionRepository(gdb)
	events := NewWebhookEventRepository(gdb)

	t.Run("transaction upsert keyed by provider ID", func(t *testing.T) {
		mustTransaction(t, txns, "sub-id", billing.TransactionSnapshot{
			ProviderTransactionID: "in_1",
			Type:                  vo.TransactionTypeCharge,
			Amount:                decimal.NewFromInt(20),
			Date:                  day(2024, 1, 2),
		})

		got, err := txns.GetByProviderID(ctx, "in_1")
		require.NoError(t, err)
		require.NotNil(t, got)
		require.NoError(t, got.ApplySnapshot(billing.TransactionSnapshot{
			ProviderTransactionID: "in_1",
			Type:                  vo.TransactionTypeCharge,
			Amount:                decimal.NewFromInt(22),
			Currency:              "USD",
			Date:                  day(2024, 1, 2),
		}))
		require.NoError(t, txns.Save(ctx, got))

		again, err := txns.GetByProviderID(ctx, "in_1")
		require.NoError(t, err)
		assert.Equal(t, got.ID(), again.ID())
		assert.True(t, again.Amount().Equal(decimal.NewFromInt(22)))

		missing, err := txns.GetByProviderID(ctx, "in_missing")
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("webhook event status round trip", func(t *testing.T) {
		event := billing.NewWebhookEvent(vo.ProviderStripe, "evt_1", "invoice.payment_succeeded", "acc-1", []byte(`{"id":"evt_1"}`))
		require.NoError(t, events.Save(ctx, event))

		event.MarkProcessed()
		require.NoError(t, events.Save(ctx, event))

		got, err := events.GetByProviderEventID(ctx, vo.ProviderStripe, "evt_1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.True(t, got.IsProcessed())
		assert.JSONEq(t, `{"id":"evt_1"}`, string(got.Payload()))

		other, err := events.GetByProviderEventID(ctx, vo.ProviderPayPal, "evt_1")
		require.NoError(t, err)
		assert.Nil(t, other)
	})
}

func TestMetricsSnapshotRepository_Upsert(t *testing.T) {
	ctx := context.Background()
	repo := NewMetricsSnapshotRepository(setupTestDB(t))

	first := metrics.NewSnapshot("user-1", metrics.RangeAll, metrics.Metrics{
		MRR:         decimal.NewFromInt(100),
		ActiveUsers: 3,
	}, day(2024, 5, 1))
	require.NoError(t, repo.Upsert(ctx, first))

	second := metrics.NewSnapshot("user-1", metrics.RangeAll, metrics.Metrics{
		MRR:         decimal.NewFromInt(150),
		ActiveUsers: 4,
	}, day(2024, 5, 2))
	require.NoError(t, repo.Upsert(ctx, second))

	got, err := repo.Get(ctx, "user-1", metrics.RangeAll)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Metrics.MRR.Equal(decimal.NewFromInt(150)))
	assert.Equal(t, int64(4), got.Metrics.ActiveUsers)
	assert.True(t, got.CapturedAt.Equal(day(2024, 5, 2)))

	missing, err := repo.Get(ctx, "user-2", metrics.RangeAll)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestBillingReader(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	accounts := NewAccountRepository(gdb, logger.NewNopLogger())
	subs := NewSubscriptionRepository(gdb)
	txns := NewTransactionRepository(gdb)
	reader := NewBillingReader(gdb)

	mine := mustAccount(t, accounts, "user-1", vo.ProviderStripe)
	theirs := mustAccount(t, accounts, "user-2", vo.ProviderStripe)
	canceledAt := day(2024, 2, 10)

	yearly := mustSubscription(t, subs, mine.ID(), billing.SubscriptionSnapshot{
		ProviderSubscriptionID: "sub_yearly", PlanName: "Annual", Status: vo.StatusActive,
		StartDate: day(2024, 1, 1), Price: decimal.NewFromInt(1200), BillingCycle: vo.BillingCycleYearly,
	})
	mustSubscription(t, subs, mine.ID(), billing.SubscriptionSnapshot{
		ProviderSubscriptionID: "sub_monthly", Status: vo.StatusActive,
		StartDate: day(2024, 3, 5), Price: decimal.NewFromInt(50),
	})
	canceled := mustSubscription(t, subs, mine.ID(), billing.SubscriptionSnapshot{
		ProviderSubscriptionID: "sub_canceled", PlanName: "Annual", Status: vo.StatusCanceled,
		StartDate: day(2023, 12, 1), EndDate: &canceledAt, Price: decimal.NewFromInt(30),
	})
	mustSubscription(t, subs, mine.ID(), billing.SubscriptionSnapshot{
		ProviderSubscriptionID: "sub_past_due", Status: vo.StatusPastDue,
		StartDate: day(2024, 1, 1), Price: decimal.NewFromInt(99),
	})
	foreign := mustSubscription(t, subs, theirs.ID(), billing.SubscriptionSnapshot{
		ProviderSubscriptionID: "sub_foreign", Status: vo.StatusActive,
		StartDate: day(2024, 1, 1), Price: decimal.NewFromInt(500),
	})

	mustTransaction(t, txns, yearly.ID(), billing.TransactionSnapshot{
		ProviderTransactionID: "ch_1", Type: vo.TransactionTypeCharge,
		Amount: decimal.NewFromInt(100), Date: day(2024, 1, 1),
	})
	mustTransaction(t, txns, canceled.ID(), billing.TransactionSnapshot{
		ProviderTransactionID: "ch_2", Type: vo.TransactionTypeCharge,
		Amount: decimal.RequireFromString("30.50"), Date: day(2024, 2, 1),
	})
	mustTransaction(t, txns, canceled.ID(), billing.TransactionSnapshot{
		ProviderTransactionID: "re_1", Type: vo.TransactionTypeRefund,
		Amount: decimal.NewFromInt(30), Date: day(2024, 2, 11),
	})
	mustTransaction(t, txns, yearly.ID(), billing.TransactionSnapshot{
		ProviderTransactionID: "re_2", Type: vo.TransactionTypePartialRefund,
		Amount: decimal.NewFromInt(5), Date: day(2024, 3, 1),
	})
	mustTransaction(t, txns, foreign.ID(), billing.TransactionSnapshot{
		ProviderTransactionID: "ch_foreign", Type: vo.TransactionTypeCharge,
		Amount: decimal.NewFromInt(500), Date: day(2024, 1, 1),
	})

	feb, err := vo.NewDateRange(day(2024, 2, 1), day(2024, 2, 29))
	require.NoError(t, err)

	t.Run("active subscriptions", func(t *testing.T) {
		all, err := reader.ListActiveSubscriptions(ctx, "user-1", nil)
		require.NoError(t, err)
		assert.Len(t, all, 2)

		startedInMarch, err := vo.NewDateRange(day(2024, 3, 1), day(2024, 3, 31))
		require.NoError(t, err)
		march, err := reader.ListActiveSubscriptions(ctx, "user-1", &startedInMarch)
		require.NoError(t, err)
		require.Len(t, march, 1)
		assert.True(t, march[0].Price.Equal(decimal.NewFromInt(50)))
		assert.Equal(t, vo.BillingCycleMonthly, march[0].BillingCycle)
	})

	t.Run("churn inputs", func(t *testing.T) {
		alive, err := reader.CountAliveAt(ctx, "user-1", feb.Start)
		require.NoError(t, err)
		// yearly, canceled and past_due had started by Feb 1
		assert.Equal(t, int64(3), alive)

		churned, err := reader.CountCanceledWithin(ctx, "user-1", feb)
		require.NoError(t, err)
		assert.Equal(t, int64(1), churned)
	})

	t.Run("active count overlaps the range", func(t *testing.T) {
		n, err := reader.CountActive(ctx, "user-1", &feb)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		n, err = reader.CountActive(ctx, "user-1", nil)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
	})

	t.Run("lifespans skip other statuses", func(t *testing.T) {
		periods, err := reader.ListLifespans(ctx, "user-1")
		require.NoError(t, err)
		assert.Len(t, periods, 3)
		var closed int
		for _, p := range periods {
			if p.End != nil {
				closed++
			}
		}
		assert.Equal(t, 1, closed)
	})

	t.Run("transaction sums", func(t *testing.T) {
		revenue, err := reader.SumTransactions(ctx, "user-1", []vo.TransactionType{vo.TransactionTypeCharge}, nil)
		require.NoError(t, err)
		assert.True(t, revenue.Equal(decimal.RequireFromString("130.50")), revenue.String())

		refunds, err := reader.SumTransactions(ctx, "user-1", vo.RefundTypes, &feb)
		require.NoError(t, err)
		assert.True(t, refunds.Equal(decimal.NewFromInt(30)), refunds.String())

		none, err := reader.SumTransactions(ctx, "user-3", vo.RefundTypes, nil)
		require.NoError(t, err)
		assert.True(t, none.IsZero())
	})

	t.Run("dated amounts", func(t *testing.T) {
		amounts, err := reader.ListTransactionAmounts(ctx, "user-1", []vo.TransactionType{vo.TransactionTypeCharge}, feb)
		require.NoError(t, err)
		require.Len(t, amounts, 1)
		assert.True(t, amounts[0].Date.Equal(day(2024, 2, 1)))
	})

	t.Run("plan distribution", func(t *testing.T) {
		rng, err := vo.NewDateRange(day(2024, 1, 1), day(2024, 12, 31))
		require.NoError(t, err)
		shares, err := reader.PlanDistribution(ctx, "user-1", rng)
		require.NoError(t, err)
		require.Len(t, shares, 2)
		names := []string{shares[0].PlanName, shares[1].PlanName}
		assert.ElementsMatch(t, []string{"Annual", "Unknown Plan"}, names)
	})
}

func TestAccountRepository_RollsBackWithTransaction(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	accounts := NewAccountRepository(gdb, logger.NewNopLogger())
	tm := db.NewTransactionManager(gdb)

	err := tm.RunInTransaction(ctx, func(txCtx context.Context) error {
		mustAccountCtx(t, txCtx, accounts, "user-tx")
		ids, err := accounts.ListActiveUserIDs(txCtx)
		require.NoError(t, err)
		assert.Equal(t, []string{"user-tx"}, ids)
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	ids, err := accounts.ListActiveUserIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func mustAccountCtx(t *testing.T, ctx context.Context, repo *AccountRepository, userID string) {
	acc, err := billing.NewAccount(userID, vo.ProviderStripe, "acct_"+userID, "")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, acc))
}
