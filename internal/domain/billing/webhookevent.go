package billing

import (
	"time"

	"github.com/google/uuid"

	vo "github.com/orris-inc/tally/internal/domain/billing/valueobjects"
	"github.com/orris-inc/tally/internal/shared/biztime"
)

// WebhookEvent records one provider delivery so redeliveries are recognized.
type WebhookEvent struct {
	id          string
	provider    vo.Provider
	eventID     string
	eventType   string
	accountID   string
	payload     []byte
	status      vo.WebhookEventStatus
	errMessage  string
	receivedAt  time.Time
	processedAt *time.Time
}

func NewWebhookEvent(provider vo.Provider, eventID, eventType, accountID string, payload []byte) *WebhookEvent {
	return &WebhookEvent{
		id:         uuid.NewString(),
		provider:   provider,
		eventID:    eventID,
		eventType:  eventType,
		accountID:  accountID,
		payload:    payload,
		receivedAt: biztime.NowUTC(),
	}
}

func ReconstructWebhookEvent(
	id string,
	provider vo.Provider,
	eventID, eventType, accountID string,
	payload []byte,
	status vo.WebhookEventStatus,
	errMessage string,
	receivedAt time.Time,
	processedAt *time.Time,
) *WebhookEvent {
	return &WebhookEvent{
		id:          id,
		provider:    provider,
		eventID:     eventID,
		eventType:   eventType,
		accountID:   accountID,
		payload:     payload,
		status:      status,
		errMessage:  errMessage,
		receivedAt:  receivedAt,
		processedAt: processedAt,
	}
}

func (e *WebhookEvent) ID() string                    { return e.id }
func (e *WebhookEvent) Provider() vo.Provider         { return e.provider }
func (e *WebhookEvent) EventID() string               { return e.eventID }
func (e *WebhookEvent) EventType() string             { return e.eventType }
func (e *WebhookEvent) AccountID() string             { return e.accountID }
func (e *WebhookEvent) Payload() []byte               { return e.payload }
func (e *WebhookEvent) Status() vo.WebhookEventStatus { return e.status }
func (e *WebhookEvent) ErrorMessage() string          { return e.errMessage }
func (e *WebhookEvent) ReceivedAt() time.Time         { return e.receivedAt }
func (e *WebhookEvent) ProcessedAt() *time.Time       { return e.processedAt }
func (e *WebhookEvent) IsProcessed() bool             { return e.status == vo.WebhookEventProcessed }

// Redeliver refreshes a stored event with the latest delivery's body.
func (e *WebhookEvent) Redeliver(eventType string, payload []byte) {
	e.eventType = eventType
	e.payload = payload
	e.receivedAt = biztime.NowUTC()
}

func (e *WebhookEvent) MarkProcessed() {
	e.finish(vo.WebhookEventProcessed, "")
}

func (e *WebhookEvent) MarkIgnored() {
	e.finish(vo.WebhookEventIgnored, "")
}

func (e *WebhookEvent) MarkFailed(err error) {
	e.finish(vo.WebhookEventFailed, err.Error())
}

func (e *WebhookEvent) finish(status vo.WebhookEventStatus, errMessage string) {
	now := biztime.NowUTC()
	e.status = status
	e.errMessage = errMessage
	e.processedAt = &now
}
