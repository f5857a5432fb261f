package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	vo "github.com/orris-inc/tally/internal/domain/billing/valueobjects"
	"github.com/orris-inc/tally/internal/shared/biztime"
)

// Transaction is a charge or refund against a subscription. Amount is always
// a non-negative magnitude; Type carries the direction.
type Transaction struct {
	id                    string
	subscriptionID        string
	txType                vo.TransactionType
	amount                decimal.Decimal
	currency              string
	date                  time.Time
	description           string
	providerTransactionID string
	createdAt             time.Time
}

func NewTransaction(subscriptionID string, snap TransactionSnapshot) (*Transaction, error) {
	if subscriptionID == "" {
		return nil, fmt.Errorf("%w: subscription ID is required", ErrInvalidTransaction)
	}
	if err := snap.Validate(); err != nil {
		return nil, err
	}
	t := &Transaction{
		id:                    uuid.NewString(),
		subscriptionID:        subscriptionID,
		providerTransactionID: snap.ProviderTransactionID,
		createdAt:             biztime.NowUTC(),
	}
	t.apply(snap)
	return t, nil
}

func ReconstructTransaction(
	id, subscriptionID string,
	txType vo.TransactionType,
	amount decimal.Decimal,
	currency string,
	date time.Time,
	description, providerTransactionID string,
	createdAt time.Time,
) (*Transaction, error) {
	if id == "" {
		return nil, fmt.Errorf("transaction ID cannot be empty")
	}
	if !vo.ValidTransactionTypes[txType] {
		return nil, fmt.Errorf("invalid transaction type: %s", txType)
	}
	return &Transaction{
		id:                    id,
		subscriptionID:        subscriptionID,
		txType:                txType,
		amount:                amount,
		currency:              currency,
		date:                  date,
		description:           description,
		providerTransactionID: providerTransactionID,
		createdAt:             createdAt,
	}, nil
}

// ApplySnapshot updates a redelivered or revised provider transaction in place.
func (t *Transaction) ApplySnapshot(snap TransactionSnapshot) error {
	if snap.ProviderTransactionID != t.providerTransactionID {
		return fmt.Errorf("%w: snapshot for %s applied to %s",
			ErrInvalidTransaction, snap.ProviderTransactionID, t.providerTransactionID)
	}
	if err := snap.Validate(); err != nil {
		return err
	}
	t.apply(snap)
	return nil
}

func (t *Transaction) apply(snap TransactionSnapshot) {
	t.txType = snap.Type
	t.amount = snap.Amount
	t.currency = snap.Currency
	t.date = snap.Date.UTC()
	t.description = snap.Description
}

func (t *Transaction) ID() string                    { return t.id }
func (t *Transaction) SubscriptionID() string        { return t.subscriptionID }
func (t *Transaction) Type() vo.TransactionType      { return t.txType }
func (t *Transaction) Amount() decimal.Decimal       { return t.amount }
func (t *Transaction) Currency() string              { return t.currency }
func (t *Transaction) Date() time.Time               { return t.date }
func (t *Transaction) Description() string           { return t.description }
func (t *Transaction) ProviderTransactionID() string { return t.providerTransactionID }
func (t *Transaction) CreatedAt() time.Time          { return t.createdAt }
