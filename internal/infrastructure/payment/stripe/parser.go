// Package stripe decodes Stripe webhook deliveries into provider events.
package stripe

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	stripego "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/orris-inc/tally/internal/domain/billing"
	vo "github.com/orris-inc/tally/internal/domain/billing/valueobjects"
	"github.com/orris-inc/tally/internal/shared/logger"
	"github.com/orris-inc/tally/internal/shared/sanitize"
)

const (
	EventSubscriptionCreated  = "customer.subscription.created"
	EventSubscriptionUpdated  = "customer.subscription.updated"
	EventSubscriptionDeleted  = "customer.subscription.deleted"
	EventInvoicePaid          = "invoice.payment_succeeded"
	EventInvoicePaymentFailed = "invoice.payment_failed"
	EventChargeRefunded       = "charge.refunded"

	// refundSuffix keeps the refund record of a charge apart from the charge.
	refundSuffix = ":refund"

	defaultPlanName    = "Unknown Plan"
	defaultInvoiceDesc = "Subscription payment"
	planNameMaxRunes   = 255
	descriptionMaxRune = 512
)

type Parser struct {
	logger logger.Interface
	now    func() time.Time
}

func NewParser(log logger.Interface) *Parser {
	return &Parser{logger: log.With("provider", "stripe"), now: time.Now}
}

func (p *Parser) Provider() vo.Provider {
	return vo.ProviderStripe
}

// Parse verifies the Stripe-Signature header when secret is set and maps the
// event onto canonical snapshots.
func (p *Parser) Parse(payload []byte, signature, secret string) (*billing.ProviderEvent, error) {
	event, err := p.decode(payload, signature, secret)
	if err != nil {
		return nil, err
	}

	out := &billing.ProviderEvent{
		Provider: vo.ProviderStripe,
		ID:       event.ID,
		Type:     string(event.Type),
	}

	switch out.Type {
	case EventSubscriptionCreated, EventSubscriptionUpdated, EventSubscriptionDeleted:
		snap, err := p.subscription(event.Data.Raw)
		if err != nil {
			return nil, err
		}
		out.Kind = billing.EventSubscription
		out.Subscription = snap

	case EventInvoicePaid:
		snap, err := p.invoice(event)
		if err != nil {
			return nil, err
		}
		if snap == nil {
			out.Kind = billing.EventNoop
			return out, nil
		}
		out.Kind = billing.EventTransaction
		out.Transaction = snap

	case EventInvoicePaymentFailed:
		out.Kind = billing.EventNoop

	case EventChargeRefunded:
		snap, err := p.refund(event)
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

func (p *Parser) decode(payload []byte, signature, secret string) (stripego.Event, error) {
	if secret != "" {
		event, err := webhook.ConstructEventWithOptions(payload, signature, secret,
			webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
		if err != nil {
			return stripego.Event{}, fmt.Errorf("%w: %v", billing.ErrInvalidSignature, err)
		}
		return event, nil
	}

	var event stripego.Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return stripego.Event{}, fmt.Errorf("%w: %v", billing.ErrMalformedPayload, err)
	}
	if event.ID == "" || event.Type == "" || event.Data == nil {
		return stripego.Event{}, fmt.Errorf("%w: missing id, type or data", billing.ErrMalformedPayload)
	}
	return event, nil
}

func (p *Parser) subscription(raw json.RawMessage) (*billing.SubscriptionSnapshot, error) {
	var sub stripego.Subscription
	if err := json.Unmarshal(raw, &sub); err != nil {
		return nil, fmt.Errorf("%w: subscription: %v", billing.ErrMalformedPayload, err)
	}
	if sub.ID == "" {
		return nil, fmt.Errorf("%w: subscription without id", billing.ErrMalformedPayload)
	}

	status, known := vo.MapProviderStatus(string(sub.Status))
	if !known {
		p.logger.Warnw("unknown subscription status, treating as active",
			"subscription_id", sub.ID, "status", sub.Status)
	}

	snap := &billing.SubscriptionSnapshot{
		ProviderSubscriptionID: sub.ID,
		CustomerID:             customerID(sub.Customer),
		PlanName:               defaultPlanName,
		Status:                 status,
		StartDate:              unix(sub.StartDate),
		Price:                  decimal.Zero,
		BillingCycle:           vo.BillingCycleMonthly,
	}
	if sub.EndedAt > 0 {
		end := unix(sub.EndedAt)
		snap.EndDate = &end
	}
	if snap.StartDate.IsZero() {
		snap.StartDate = unix(sub.Created)
	}

	currency := string(sub.Currency)
	if sub.Items != nil && len(sub.Items.Data) > 0 && sub.Items.Data[0].Price != nil {
		price := sub.Items.Data[0].Price
		snap.PlanID = price.ID
		if name := sanitize.Text(price.Nickname, planNameMaxRunes); name != "" {
			snap.PlanName = name
		}
		snap.Price = minorToMajor(price.UnitAmount)
		if price.Recurring != nil {
			snap.BillingCycle = vo.MapProviderInterval(string(price.Recurring.Interval))
		}
		if currency == "" {
			currency = string(price.Currency)
		}
	}

	code, err := vo.NormalizeCurrency(currency)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", billing.ErrMalformedPayload, err)
	}
	snap.Currency = code
	return snap, nil
}

// invoiceLinks reads the subscription reference from both the legacy
// top-level field and the parent details of newer API versions.
type invoiceLinks struct {
	Subscription json.RawMessage `json:"subscription"`
	Parent       *struct {
		SubscriptionDetails *struct {
			Subscription json.RawMessage `json:"subscription"`
		} `json:"subscription_details"`
	} `json:"parent"`
}

func (l invoiceLinks) subscriptionID() string {
	if id := expandableID(l.Subscription); id != "" {
		return id
	}
	if l.Parent != nil && l.Parent.SubscriptionDetails != nil {
		return expandableID(l.Parent.SubscriptionDetails.Subscription)
	}
	return ""
}

// chargeLinks reads the invoice a charge paid. Recorded invoice charges use
// the invoice ID as their provider transaction ID.
type chargeLinks struct {
	Invoice json.RawMessage `json:"invoice"`
}

// invoice returns nil for invoices that belong to no subscription.
func (p *Parser) invoice(event stripego.Event) (*billing.TransactionSnapshot, error) {
	var inv stripego.Invoice
	if err := json.Unmarshal(event.Data.Raw, &inv); err != nil {
		return nil, fmt.Errorf("%w: invoice: %v", billing.ErrMalformedPayload, err)
	}
	var links invoiceLinks
	if err := json.Unmarshal(event.Data.Raw, &links); err != nil {
		return nil, fmt.Errorf("%w: invoice: %v", billing.ErrMalformedPayload, err)
	}

	subscriptionID := links.subscriptionID()
	if subscriptionID == "" {
		p.logger.Infow("invoice has no subscription, skipping", "invoice_id", inv.ID)
		return nil, nil
	}

	code, err := vo.NormalizeCurrency(string(inv.Currency))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", billing.ErrMalformedPayload, err)
	}

	paidAt := unix(event.Created)
	if inv.StatusTransitions != nil && inv.StatusTransitions.PaidAt > 0 {
		paidAt = unix(inv.StatusTransitions.PaidAt)
	}

	desc := sanitize.Text(inv.Description, descriptionMaxRune)
	if desc == "" {
		desc = defaultInvoiceDesc
	}

	return &billing.TransactionSnapshot{
		ProviderTransactionID:  inv.ID,
		Type:                   vo.TransactionTypeCharge,
		Amount:                 minorToMajor(inv.AmountPaid),
		Currency:               code,
		Date:                   paidAt,
		Description:            desc,
		ProviderSubscriptionID: subscriptionID,
		CustomerID:             customerID(inv.Customer),
	}, nil
}

func (p *Parser) refund(event stripego.Event) (*billing.TransactionSnapshot, error) {
	var charge stripego.Charge
	if err := json.Unmarshal(event.Data.Raw, &charge); err != nil {
		return nil, fmt.Errorf("%w: charge: %v", billing.ErrMalformedPayload, err)
	}
	if charge.ID == "" {
		return nil, fmt.Errorf("%w: charge without id", billing.ErrMalformedPayload)
	}
	var links chargeLinks
	if err := json.Unmarshal(event.Data.Raw, &links); err != nil {
		return nil, fmt.Errorf("%w: charge: %v", billing.ErrMalformedPayload, err)
	}

	code, err := vo.NormalizeCurrency(string(charge.Currency))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", billing.ErrMalformedPayload, err)
	}

	txType := vo.TransactionTypeRefund
	if charge.AmountRefunded < charge.Amount {
		txType = vo.TransactionTypePartialRefund
	}

	date := unix(event.Created)
	if date.IsZero() {
		date = p.now().UTC()
	}

	return &billing.TransactionSnapshot{
		ProviderTransactionID: charge.ID + refundSuffix,
		Type:                  txType,
		Amount:                minorToMajor(charge.AmountRefunded),
		Currency:              code,
		Date:                  date,
		Description:           "Refund of " + charge.ID,
		RelatedTransactionID:  expandableID(links.Invoice),
		CustomerID:            customerID(charge.Customer),
	}, nil
}

func customerID(c *stripego.Customer) string {
	if c == nil {
		return ""
	}
	return c.ID
}

// expandableID accepts either a bare ID string or an expanded object.
func expandableID(raw json.RawMessage) string {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return ""
	}
	if strings.HasPrefix(s, `"`) {
		var id string
		if err := json.Unmarshal(raw, &id); err == nil {
			return id
		}
		return ""
	}
	var obj struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return ""
	}
	return obj.ID
}

func minorToMajor(amount int64) decimal.Decimal {
	return decimal.New(amount, -2)
}

func unix(sec int64) time.Time {
	if sec <= 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}
