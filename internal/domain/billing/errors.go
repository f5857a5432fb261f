package billing

import "errors"

var (
	ErrAccountNotFound      = errors.New("account not found")
	ErrAccountInactive      = errors.New("account inactive")
	ErrAccountExists        = errors.New("account already connected for this provider")
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrInvalidSubscription  = errors.New("invalid subscription")
	ErrInvalidTransaction   = errors.New("invalid transaction")
)

var (
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrMalformedPayload = errors.New("malformed webhook payload")
	ErrUnlinkedRecord   = errors.New("no subscription matches the transaction")
	ErrProviderMismatch = errors.New("account belongs to a different provider")
)
