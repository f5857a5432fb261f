package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	billingdto "github.com/orris-inc/tally/internal/application/billing/dto"
	billingusecases "github.com/orris-inc/tally/internal/application/billing/usecases"
	"github.com/orris-inc/tally/internal/interfaces/http/handlers/testutil"
	"github.com/orris-inc/tally/internal/shared/constants"
	"github.com/orris-inc/tally/internal/shared/errors"
	"github.com/orris-inc/tally/internal/shared/logger"
)

func newTestAccountHandler(
	list listAccountsUseCase,
	connect connectAccountUseCase,
	disconnect disconnectAccountUseCase,
	subs listAccountSubscriptionsUseCase,
) *AccountHandler {
	return NewAccountHandler(list, connect, disconnect, subs, logger.NewNopLogger())
}

func TestAccountHandler_ListAccounts(t *testing.T) {
	uc := &mockListAccountsUC{executeFunc: func(_ context.Context, userID string) ([]*billingdto.AccountDTO, error) {
		assert.Equal(t, "user-1", userID)
		return []*billingdto.AccountDTO{{ID: "acc-1", Provider: "stripe", IsActive: true, ConnectedAt: time.Now()}}, nil
	}}
	handler := newTestAccountHandler(uc, nil, nil, nil)

	c, w := testutil.NewTestContext(http.MethodGet, "/api/accounts", nil)
	testutil.SetAuthContext(c, "user-1", constants.RoleUser)

	handler.ListAccounts(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"acc-1"`)
}

func TestAccountHandler_ConnectAccount_Success(t *testing.T) {
	var got billingusecases.ConnectAccountCommand
	uc := &mockConnectAccountUC{executeFunc: func(_ context.Context, cmd billingusecases.ConnectAccountCommand) (*billingdto.AccountDTO, error) {
		got = cmd
		return &billingdto.AccountDTO{ID: "acc-1", Provider: cmd.Provider, HasWebhookSecret: true}, nil
	}}
	handler := newTestAccountHandler(nil, uc, nil, nil)

	c, w := testutil.NewTestContext(http.MethodPost, "/api/accounts", ConnectAccountRequest{
		Provider:          "stripe",
		ProviderAccountID: "acct_123",
		WebhookSecret:     "whsec_abc",
	})
	testutil.SetAuthContext(c, "user-1", constants.RoleUser)

	handler.ConnectAccount(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, billingusecases.ConnectAccountCommand{
		UserID:            "user-1",
		Provider:          "stripe",
		ProviderAccountID: "acct_123",
		WebhookSecret:     "whsec_abc",
	}, got)
	assert.NotContains(t, w.Body.String(), "whsec_abc")
}

func TestAccountHandler_ConnectAccount_InvalidRequest(t *testing.T) {
	handler := newTestAccountHandler(nil, nil, nil, nil)

	tests := []struct {
		name string
		body map[string]string
	}{
		{"missing provider", map[string]string{"provider_account_id": "acct_1"}},
		{"unknown provider", map[string]string{"provider": "square", "provider_account_id": "acct_1"}},
		{"missing account id", map[string]string{"provider": "paypal"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := testutil.NewTestContext(http.MethodPost, "/api/accounts", tt.body)
			testutil.SetAuthContext(c, "user-1", constants.RoleUser)

			handler.ConnectAccount(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestAccountHandler_ConnectAccount_Conflict(t *testing.T) {
	uc := &mockConnectAccountUC{executeFunc: func(context.Context, billingusecases.ConnectAccountCommand) (*billingdto.AccountDTO, error) {
		return nil, errors.NewConflictError("stripe account already connected")
	}}
	handler := newTestAccountHandler(nil, uc, nil, nil)

	c, w := testutil.NewTestContext(http.MethodPost, "/api/accounts", ConnectAccountRequest{Provider: "stripe", ProviderAccountID: "acct_1"})
	testutil.SetAuthContext(c, "user-1", constants.RoleUser)

	handler.ConnectAccount(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAccountHandler_DisconnectAccount(t *testing.T) {
	var got billingusecases.DisconnectAccountCommand
	uc := &mockDisconnectAccountUC{executeFunc: func(_ context.Context, cmd billingusecases.DisconnectAccountCommand) error {
		got = cmd
		return nil
	}}
	handler := newTestAccountHandler(nil, nil, uc, nil)

	c, w := testutil.NewTestContext(http.MethodDelete, "/api/accounts/acc-9", nil)
	testutil.SetAuthContext(c, "user-1", constants.RoleUser)
	testutil.SetURLParam(c, "id", "acc-9")

	handler.DisconnectAccount(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, billingusecases.DisconnectAccountCommand{UserID: "user-1", AccountID: "acc-9"}, got)
}

func TestAccountHandler_DisconnectAccount_NotFound(t *testing.T) {
	uc := &mockDisconnectAccountUC{executeFunc: func(context.Context, billingusecases.DisconnectAccountCommand) error {
		return errors.NewNotFoundError("account not found")
	}}
	handler := newTestAccountHandler(nil, nil, uc, nil)

	c, w := testutil.NewTestContext(http.MethodDelete, "/api/accounts/acc-9", nil)
	testutil.SetAuthContext(c, "user-1", constants.RoleUser)
	testutil.SetURLParam(c, "id", "acc-9")

	handler.DisconnectAccount(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAccountHandler_ListSubscriptions_Pagination(t *testing.T) {
	var got billingusecases.ListAccountSubscriptionsQuery
	uc := &mockListSubscriptionsUC{executeFunc: func(_ context.Context, q billingusecases.ListAccountSubscriptionsQuery) (*billingusecases.ListAccountSubscriptionsResult, error) {
		got = q
		return &billingusecases.ListAccountSubscriptionsResult{
			Subscriptions: []*billingdto.SubscriptionDTO{{ID: "sub-1", Price: "10.00"}},
			Total:         41,
			Page:          q.Page,
			PageSize:      q.PageSize,
		}, nil
	}}
	handler := newTestAccountHandler(nil, nil, nil, uc)

	c, w := testutil.NewTestContext(http.MethodGet, "/api/accounts/acc-1/subscriptions", nil)
	testutil.SetAuthContext(c, "user-1", constants.RoleUser)
	testutil.SetURLParam(c, "id", "acc-1")
	testutil.SetQueryParams(c, map[string]string{"page": "2", "page_size": "500"})

	handler.ListSubscriptions(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, got.Page)
	assert.Equal(t, constants.MaxPageSize, got.PageSize)
	assert.Equal(t, "acc-1", got.AccountID)
	assert.Contains(t, w.Body.String(), `"total":41`)
	assert.Contains(t, w.Body.String(), `"price":"10.00"`)
}
