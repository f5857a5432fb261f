package billing

import vo "github.com/orris-inc/tally/internal/domain/billing/valueobjects"

type EventKind int

const (
	// EventUnknown is a delivery whose type this service does not handle.
	EventUnknown EventKind = iota
	EventSubscription
	EventTransaction
	// EventNoop is a handled type that changes no records.
	EventNoop
)

func (k EventKind) String() string {
	switch k {
	case EventSubscription:
		return "subscription"
	case EventTransaction:
		return "transaction"
	case EventNoop:
		return "noop"
	default:
		return "unknown"
	}
}

// ProviderEvent is one decoded webhook delivery. Exactly one of Subscription
// and Transaction is set for the matching kinds.
type ProviderEvent struct {
	Provider     vo.Provider
	ID           string
	Type         string
	Kind         EventKind
	Subscription *SubscriptionSnapshot
	Transaction  *TransactionSnapshot
}

func (e *ProviderEvent) Recognized() bool {
	return e.Kind != EventUnknown
}
