// Package paypal decodes PayPal webhook deliveries into provider events.
package paypal

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/orris-inc/tally/internal/domain/billing"
	vo "github.com/orris-inc/tally/internal/domain/billing/valueobjects"
	"github.com/orris-inc/tally/internal/shared/logger"
)

const (
	EventSubscriptionCreated   = "BILLING.SUBSCRIPTION.CREATED"
	EventSubscriptionActivated = "BILLING.SUBSCRIPTION.ACTIVATED"
	EventSubscriptionUpdated   = "BILLING.SUBSCRIPTION.UPDATED"
	EventSubscriptionCancelled = "BILLING.SUBSCRIPTION.CANCELLED"
	EventSubscriptionSuspended = "BILLING.SUBSCRIPTION.SUSPENDED"
	EventSubscriptionExpired   = "BILLING.SUBSCRIPTION.EXPIRED"
	EventSaleCompleted         = "PAYMENT.SALE.COMPLETED"
	EventSaleRefunded          = "PAYMENT.SALE.REFUNDED"

	defaultPlanName = "PayPal Plan"
	defaultCurrency = "USD"
)

type envelope struct {
	ID         string          `json:"id"`
	EventType  string          `json:"event_type"`
	CreateTime string          `json:"create_time"`
	Resource   json.RawMessage `json:"resource"`
}

type money struct {
	Value        string `json:"value"`
	CurrencyCode string `json:"currency_code"`
}

type saleAmount struct {
	Total    string `json:"total"`
	Currency string `json:"currency"`
}

type subscriptionResource struct {
	ID               string `json:"id"`
	Status           string `json:"status"`
	PlanID           string `json:"plan_id"`
	StartTime        string `json:"start_time"`
	CreateTime       string `json:"create_time"`
	StatusUpdateTime string `json:"status_update_time"`
	Subscriber       struct {
		PayerID string `json:"payer_id"`
	} `json:"subscriber"`
	BillingInfo *struct {
		LastPayment *struct {
			Amount money `json:"amount"`
		} `json:"last_payment"`
		OutstandingBalance *money `json:"outstanding_balance"`
	} `json:"billing_info"`
}

type saleResource struct {
	ID                 string     `json:"id"`
	State              string     `json:"state"`
	Amount             saleAmount `json:"amount"`
	BillingAgreementID string     `json:"billing_agreement_id"`
	SaleID             string     `json:"sale_id"`
	CreateTime         string     `json:"create_time"`
}

type Parser struct {
	logger logger.Interface
}

func NewParser(log logger.Interface) *Parser {
	return &Parser{logger: log.With("provider", "paypal")}
}

func (p *Parser) Provider() vo.Provider {
	return vo.ProviderPayPal
}

// Parse maps a PayPal notification. PayPal signs deliveries with a
// certificate that can only be checked through its API, so signature and
// secret are not consulted.
func (p *Parser) Parse(payload []byte, _, _ string) (*billing.ProviderEvent, error) {
	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", billing.ErrMalformedPayload, err)
	}
	if env.ID == "" || env.EventType == "" {
		return nil, fmt.Errorf("%w: missing id or event_type", billing.ErrMalformedPayload)
	}

	out := &billing.ProviderEvent{
		Provider: vo.ProviderPayPal,
		ID:       env.ID,
		Type:     env.EventType,
	}

	switch strings.ToUpper(env.EventType) {
	case EventSubscriptionCreated, EventSubscriptionActivated, EventSubscriptionUpdated,
		EventSubscriptionCancelled, EventSubscriptionSuspended, EventSubscriptionExpired:
		snap, err := p.subscription(env)
		if err != nil {
			return nil, err
		}
		out.Kind = billing.EventSubscription
		out.Subscription = snap

	case EventSaleCompleted:
		snap, err := p.sale(env)
		if err != nil {
			return nil, err
		}
		out.Kind = billing.EventTransaction
		out.Transaction = snap

	case EventSaleRefunded:
		snap, err := p.refund(env)
		if err != nil {
			return nil, err
		}
		out.Kind = billing.EventTransaction
		out.Transaction = snap

	default:
		out.Kind = billing.EventUnknown
	}
	return out, nil
}

func (p *Parser) subscription(env envelope) (*billing.SubscriptionSnapshot, error) {
	var res subscriptionResource
	if err := json.Unmarshal(env.Resource, &res); err != nil {
		return nil, fmt.Errorf("%w: subscription: %v", billing.ErrMalformedPayload, err)
	}
	if res.ID == "" {
		return nil, fmt.Errorf("%w: subscription without id", billing.ErrMalformedPayload)
	}

	status, known := vo.MapProviderStatus(res.Status)
	if !known {
		p.logger.Warnw("unknown subscription status, treating as active",
			"subscription_id", res.ID, "status", res.Status)
	}

	start := firstTime(res.StartTime, res.CreateTime, env.CreateTime)
	if start.IsZero() {
		return nil, fmt.Errorf("%w: subscription %s has no start time", billing.ErrMalformedPayload, res.ID)
	}

	price, currency, err := subscriptionPrice(res)
	if err != nil {
		return nil, err
	}

	snap := &billing.SubscriptionSnapshot{
		ProviderSubscriptionID: res.ID,
		CustomerID:             res.Subscriber.PayerID,
		PlanID:                 res.PlanID,
		PlanName:               defaultPlanName,
		Status:                 status,
		StartDate:              start,
		Price:                  price,
		Currency:               currency,
		BillingCycle:           vo.BillingCycleMonthly,
	}
	if status == vo.StatusCanceled {
		end := firstTime(res.StatusUpdateTime, env.CreateTime)
		if !end.IsZero() && !end.Before(start) {
			snap.EndDate = &end
		}
	}
	return snap, nil
}

// subscriptionPrice prefers the last payment and falls back to the
// outstanding balance.
func subscriptionPrice(res subscriptionResource) (decimal.Decimal, string, error) {
	var m *money
	if res.BillingInfo != nil {
		if res.BillingInfo.LastPayment != nil && res.BillingInfo.LastPayment.Amount.Value != "" {
			m = &res.BillingInfo.LastPayment.Amount
		} else if res.BillingInfo.OutstandingBalance != nil {
			m = res.BillingInfo.OutstandingBalance
		}
	}
	if m == nil {
		return decimal.Zero, defaultCurrency, nil
	}
	return parseMoney(m.Value, m.CurrencyCode)
}

func (p *Parser) sale(env envelope) (*billing.TransactionSnapshot, error) {
	res, amount, currency, err := decodeSale(env)
	if err != nil {
		return nil, err
	}
	if res.BillingAgreementID == "" {
		return nil, fmt.Errorf("%w: sale %s has no billing_agreement_id", billing.ErrMalformedPayload, res.ID)
	}

	return &billing.TransactionSnapshot{
		ProviderTransactionID:  res.ID,
		Type:                   vo.TransactionTypeCharge,
		Amount:                 amount,
		Currency:               currency,
		Date:                   firstTime(res.CreateTime, env.CreateTime),
		Description:            "PayPal subscription payment",
		ProviderSubscriptionID: res.BillingAgreementID,
	}, nil
}

// refund reports a full refund; the sync step downgrades it to partial when
// the amount is below the refunded sale.
func (p *Parser) refund(env envelope) (*billing.TransactionSnapshot, error) {
	res, amount, currency, err := decodeSale(env)
	if err != nil {
		return nil, err
	}
	if res.SaleID == "" && res.BillingAgreementID == "" {
		return nil, fmt.Errorf("%w: refund %s references no sale", billing.ErrMalformedPayload, res.ID)
	}

	return &billing.TransactionSnapshot{
		ProviderTransactionID:  res.ID,
		Type:                   vo.TransactionTypeRefund,
		Amount:                 amount.Abs(),
		Currency:               currency,
		Date:                   firstTime(res.CreateTime, env.CreateTime),
		Description:            "PayPal refund of sale " + res.SaleID,
		ProviderSubscriptionID: res.BillingAgreementID,
		RelatedTransactionID:   res.SaleID,
	}, nil
}

func decodeSale(env envelope) (saleResource, decimal.Decimal, string, error) {
	var res saleResource
	if err := json.Unmarshal(env.Resource, &res); err != nil {
		return res, decimal.Zero, "", fmt.Errorf("%w: sale: %v", billing.ErrMalformedPayload, err)
	}
	if res.ID == "" {
		return res, decimal.Zero, "", fmt.Errorf("%w: sale without id", billing.ErrMalformedPayload)
	}
	amount, currency, err := parseMoney(res.Amount.Total, res.Amount.Currency)
	if err != nil {
		return res, decimal.Zero, "", err
	}
	return res, amount, currency, nil
}

func parseMoney(value, code string) (decimal.Decimal, string, error) {
	amount := decimal.Zero
	if value != "" {
		var err error
		amount, err = decimal.NewFromString(value)
		if err != nil {
			return decimal.Zero, "", fmt.Errorf("%w: amount %q: %v", billing.ErrMalformedPayload, value, err)
		}
	}
	if code == "" {
		code = defaultCurrency
	}
	normalized, err := vo.NormalizeCurrency(code)
	if err != nil {
		return decimal.Zero, "", fmt.Errorf("%w: %v", billing.ErrMalformedPayload, err)
	}
	return amount, normalized, nil
}

// firstTime returns the first value that parses as RFC 3339, in UTC.
func firstTime(values ...string) time.Time {
	for _, v := range values {
		if v == "" {
			continue
		}
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
