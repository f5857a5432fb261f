package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/tally/internal/application/billing/usecases"
	"github.com/orris-inc/tally/internal/shared/constants"
	"github.com/orris-inc/tally/internal/shared/logger"
	"github.com/orris-inc/tally/internal/shared/utils"
)

// maxWebhookBodyBytes matches the largest payload Stripe documents sending.
const maxWebhookBodyBytes = 512 * 1024

type WebhookHandler struct {
	handleWebhookUC handleWebhookUseCase
	logger          logger.Interface
}

func NewWebhookHandler(handleWebhookUC handleWebhookUseCase, logger logger.Interface) *WebhookHandler {
	return &WebhookHandler{
		handleWebhookUC: handleWebhookUC,
		logger:          logger,
	}
}

// HandleStripe handles POST /webhooks/stripe/:accountId
//
//	@Summary		Stripe webhook
//	@Description	Verified with the account's signing secret when one is configured
//	@Tags			webhooks
//	@Accept			json
//	@Produce		json
//	@Param			accountId			path		string										true	"Account ID"
//	@Param			Stripe-Signature	header		string										false	"Stripe signature"
//	@Success		200					{object}	utils.APIResponse{data=dto.WebhookResultDTO}	"Accepted"
//	@Failure		400					{object}	utils.APIResponse							"Malformed or failed event"
//	@Failure		401					{object}	utils.APIResponse							"Invalid signature"
//	@Failure		404					{object}	utils.APIResponse							"Unknown account"
//	@Router			/webhooks/stripe/{accountId} [post]
func (h *WebhookHandler) HandleStripe(c *gin.Context) {
	h.handle(c, "stripe", c.GetHeader(constants.HeaderStripeSignature))
}

// HandlePayPal handles POST /webhooks/paypal/:accountId
//
//	@Summary		PayPal webhook
//	@Tags			webhooks
//	@Accept			json
//	@Produce		json
//	@Param			accountId	path		string										true	"Account ID"
//	@Success		200			{object}	utils.APIResponse{data=dto.WebhookResultDTO}	"Accepted"
//	@Failure		400			{object}	utils.APIResponse							"Malformed or failed event"
//	@Failure		404			{object}	utils.APIResponse							"Unknown account"
//	@Router			/webhooks/paypal/{accountId} [post]
func (h *WebhookHandler) HandlePayPal(c *gin.Context) {
	h.handle(c, "paypal", "")
}

func (h *WebhookHandler) handle(c *gin.Context, provider, signature string) {
	accountID := c.Param("accountId")

	// signatures cover the exact bytes, so the body is read raw
	payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBodyBytes))
	if err != nil {
		h.logger.Warnw("failed to read webhook body", "provider", provider, "account_id", accountID, "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, "unreadable request body")
		return
	}

	result, err := h.handleWebhookUC.Execute(c.Request.Context(), usecases.HandleWebhookCommand{
		Provider:  provider,
		AccountID: accountID,
		Payload:   payload,
		Signature: signature,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "webhook received", result)
}
