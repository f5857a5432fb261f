package valueobjects

import "fmt"

type TransactionType string

const (
	TransactionTypeCharge        TransactionType = "charge"
	TransactionTypeRefund        TransactionType = "refund"
	TransactionTypePartialRefund TransactionType = "partial_refund"
)

var ValidTransactionTypes = map[TransactionType]bool{
	TransactionTypeCharge:        true,
	TransactionTypeRefund:        true,
	TransactionTypePartialRefund: true,
}

// RefundTypes are summed together as total refunds.
var RefundTypes = []TransactionType{TransactionTypeRefund, TransactionTypePartialRefund}

func ParseTransactionType(value string) (TransactionType, error) {
	t := TransactionType(value)
	if !ValidTransactionTypes[t] {
		return "", fmt.Errorf("invalid transaction type: %q", value)
	}
	return t, nil
}

func (t TransactionType) String() string {
	return string(t)
}

func (t TransactionType) IsRefund() bool {
	return t == TransactionTypeRefund || t == TransactionTypePartialRefund
}
