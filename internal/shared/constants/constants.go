package constants

const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	HeaderAuthorization   = "Authorization"
	HeaderXRequestID      = "X-Request-ID"
	HeaderStripeSignature = "Stripe-Signature"

	// Context keys set by the auth middleware.
	ContextKeyUserID    = "user_id"
	ContextKeyUserRole  = "user_role"
	ContextKeyRequestID = "request_id"

	RoleAdmin = "admin"
	RoleUser  = "user"

	TableAccounts         = "accounts"
	TableSubscriptions    = "subscriptions"
	TableTransactions     = "transactions"
	TableWebhookEvents    = "webhook_events"
	TableMetricsSnapshots = "metrics_snapshots"

	// DefaultMetricsCacheTTLSeconds is how long a computed metric stays cached.
	DefaultMetricsCacheTTLSeconds = 3600
	// MetricsCacheKeyPrefix namespaces every cached metric entry.
	MetricsCacheKeyPrefix = "metrics"
)
