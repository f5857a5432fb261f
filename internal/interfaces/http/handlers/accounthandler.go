package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/tally/internal/application/billing/usecases"
	"github.com/orris-inc/tally/internal/shared/errors"
	"github.com/orris-inc/tally/internal/shared/logger"
	"github.com/orris-inc/tally/internal/shared/utils"
)

type AccountHandler struct {
	listAccountsUC      listAccountsUseCase
	connectAccountUC    connectAccountUseCase
	disconnectAccountUC disconnectAccountUseCase
	listSubscriptionsUC listAccountSubscriptionsUseCase
	logger              logger.Interface
}

func NewAccountHandler(
	listAccountsUC listAccountsUseCase,
	connectAccountUC connectAccountUseCase,
	disconnectAccountUC disconnectAccountUseCase,
	listSubscriptionsUC listAccountSubscriptionsUseCase,
	logger logger.Interface,
) *AccountHandler {
	return &AccountHandler{
		listAccountsUC:      listAccountsUC,
		connectAccountUC:    connectAccountUC,
		disconnectAccountUC: disconnectAccountUC,
		listSubscriptionsUC: listSubscriptionsUC,
		logger:              logger,
	}
}

type ConnectAccountRequest struct {
	Provider          string `json:"provider" binding:"required,oneof=stripe paypal"`
	ProviderAccountID string `json:"provider_account_id" binding:"required,max=255"`
	WebhookSecret     string `json:"webhook_secret" binding:"omitempty,max=255"`
}

// ListAccounts handles GET /api/accounts
//
//	@Summary		List connected provider accounts
//	@Tags			accounts
//	@Produce		json
//	@Security		Bearer
//	@Success		200	{object}	utils.APIResponse{data=[]dto.AccountDTO}	"Accounts"
//	@Failure		401	{object}	utils.APIResponse							"Unauthorized"
//	@Router			/api/accounts [get]
func (h *AccountHandler) ListAccounts(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	accounts, err := h.listAccountsUC.Execute(c.Request.Context(), userID)
	if err != nil {
		h.logger.Errorw("failed to list accounts", "user_id", userID, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", accounts)
}

// ConnectAccount handles POST /api/accounts
//
//	@Summary		Connect a provider account
//	@Description	Registers where webhooks for a Stripe or PayPal account come from
//	@Tags			accounts
//	@Accept			json
//	@Produce		json
//	@Security		Bearer
//	@Param			account	body		ConnectAccountRequest					true	"Account"
//	@Success		201		{object}	utils.APIResponse{data=dto.AccountDTO}	"Connected"
//	@Failure		400		{object}	utils.APIResponse						"Invalid request"
//	@Failure		409		{object}	utils.APIResponse						"Provider already connected"
//	@Router			/api/accounts [post]
func (h *AccountHandler) ConnectAccount(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req ConnectAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid connect account request", "user_id", userID, "error", err)
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}

	account, err := h.connectAccountUC.Execute(c.Request.Context(), usecases.ConnectAccountCommand{
		UserID:            userID,
		Provider:          req.Provider,
		ProviderAccountID: req.ProviderAccountID,
		WebhookSecret:     req.WebhookSecret,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, account, "account connected")
}

// DisconnectAccount handles DELETE /api/accounts/:id
//
//	@Summary		Disconnect a provider account
//	@Description	Stops accepting its webhooks and drops the cached metrics
//	@Tags			accounts
//	@Produce		json
//	@Security		Bearer
//	@Param			id	path		string				true	"Account ID"
//	@Success		200	{object}	utils.APIResponse	"Disconnected"
//	@Failure		404	{object}	utils.APIResponse	"Account not found"
//	@Router			/api/accounts/{id} [delete]
func (h *AccountHandler) DisconnectAccount(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	err := h.disconnectAccountUC.Execute(c.Request.Context(), usecases.DisconnectAccountCommand{
		UserID:    userID,
		AccountID: c.Param("id"),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "account disconnected", nil)
}

// ListSubscriptions handles GET /api/accounts/:id/subscriptions
//
//	@Summary		List an account's subscriptions
//	@Tags			accounts
//	@Produce		json
//	@Security		Bearer
//	@Param			id			path		string											true	"Account ID"
//	@Param			page		query		int												false	"Page"		default(1)
//	@Param			page_size	query		int												false	"Page size"	default(20)
//	@Success		200			{object}	utils.APIResponse{data=utils.ListResponse}	"Subscriptions"
//	@Failure		404			{object}	utils.APIResponse								"Account not found"
//	@Router			/api/accounts/{id}/subscriptions [get]
func (h *AccountHandler) ListSubscriptions(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	p := utils.ParsePagination(c)
	result, err := h.listSubscriptionsUC.Execute(c.Request.Context(), usecases.ListAccountSubscriptionsQuery{
		UserID:    userID,
		AccountID: c.Param("id"),
		Page:      p.Page,
		PageSize:  p.PageSize,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Subscriptions, result.Total, result.Page, result.PageSize)
}
