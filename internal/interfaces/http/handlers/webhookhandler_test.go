package handlers

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	billingdto "github.com/orris-inc/tally/internal/application/billing/dto"
	billingusecases "github.com/orris-inc/tally/internal/application/billing/usecases"
	"github.com/orris-inc/tally/internal/interfaces/http/handlers/testutil"
	"github.com/orris-inc/tally/internal/shared/constants"
	"github.com/orris-inc/tally/internal/shared/errors"
	"github.com/orris-inc/tally/internal/shared/logger"
)

func TestWebhookHandler_HandleStripe_PassesRawBodyAndSignature(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"customer.subscription.created"}`)
	var got billingusecases.HandleWebhookCommand
	uc := &mockHandleWebhookUC{executeFunc: func(_ context.Context, cmd billingusecases.HandleWebhookCommand) (*billingdto.WebhookResultDTO, error) {
		got = cmd
		return &billingdto.WebhookResultDTO{EventID: "evt_1", EventType: "customer.subscription.created", Status: "processed"}, nil
	}}
	handler := NewWebhookHandler(uc, logger.NewNopLogger())

	c, w := testutil.NewTestContext(http.MethodPost, "/webhooks/stripe/acc-1", payload)
	c.Request.Header.Set(constants.HeaderStripeSignature, "t=1,v1=abc")
	testutil.SetURLParam(c, "accountId", "acc-1")

	handler.HandleStripe(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "stripe", got.Provider)
	assert.Equal(t, "acc-1", got.AccountID)
	assert.Equal(t, "t=1,v1=abc", got.Signature)
	assert.Equal(t, payload, got.Payload)
	assert.Contains(t, w.Body.String(), `"status":"processed"`)
}

func TestWebhookHandler_HandlePayPal(t *testing.T) {
	var got billingusecases.HandleWebhookCommand
	uc := &mockHandleWebhookUC{executeFunc: func(_ context.Context, cmd billingusecases.HandleWebhookCommand) (*billingdto.WebhookResultDTO, error) {
		got = cmd
		return &billingdto.WebhookResultDTO{EventID: "WH-1", Status: "processed", Duplicate: true}, nil
	}}
	handler := NewWebhookHandler(uc, logger.NewNopLogger())

	c, w := testutil.NewTestContext(http.MethodPost, "/webhooks/paypal/acc-2", []byte(`{"id":"WH-1"}`))
	testutil.SetURLParam(c, "accountId", "acc-2")

	handler.HandlePayPal(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "paypal", got.Provider)
	assert.Empty(t, got.Signature)
	assert.Contains(t, w.Body.String(), `"duplicate":true`)
}

func TestWebhookHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"unknown account", errors.NewNotFoundError("account not found"), http.StatusNotFound},
		{"bad signature", errors.NewUnauthorizedError("invalid webhook signature"), http.StatusUnauthorized},
		{"sync failure", errors.NewBadRequestError("failed to apply webhook event"), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockHandleWebhookUC{executeFunc: func(context.Context, billingusecases.HandleWebhookCommand) (*billingdto.WebhookResultDTO, error) {
				return nil, tt.err
			}}
			handler := NewWebhookHandler(uc, logger.NewNopLogger())

			c, w := testutil.NewTestContext(http.MethodPost, "/webhooks/stripe/acc-1", []byte(`{}`))
			testutil.SetURLParam(c, "accountId", "acc-1")

			handler.HandleStripe(c)

			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestWebhookHandler_RejectsOversizedBody(t *testing.T) {
	called := false
	uc := &mockHandleWebhookUC{executeFunc: func(context.Context, billingusecases.HandleWebhookCommand) (*billingdto.WebhookResultDTO, error) {
		called = true
		return &billingdto.WebhookResultDTO{}, nil
	}}
	handler := NewWebhookHandler(uc, logger.NewNopLogger())

	big := []byte(`{"pad":"` + strings.Repeat("x", maxWebhookBodyBytes) + `"}`)
	c, w := testutil.NewTestContext(http.MethodPost, "/webhooks/stripe/acc-1", big)
	testutil.SetURLParam(c, "accountId", "acc-1")

	handler.HandleStripe(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, called)
}
