package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/orris-inc/tally/internal/interfaces/http/handlers"
)

type WebhookRouteConfig struct {
	WebhookHandler *handlers.WebhookHandler
	// RateLimit may be nil when limiting is disabled.
	RateLimit gin.HandlerFunc
}

// SetupWebhookRoutes mounts the provider callbacks. They carry no bearer
// token; the account id in the path and the provider signature identify
// the sender.
func SetupWebhookRoutes(engine *gin.Engine, cfg *WebhookRouteConfig) {
	webhooks := engine.Group("/webhooks")
	if cfg.RateLimit != nil {
		webhooks.Use(cfg.RateLimit)
	}
	{
		webhooks.POST("/stripe/:accountId", cfg.WebhookHandler.HandleStripe)
		webhooks.POST("/paypal/:accountId", cfg.WebhookHandler.HandlePayPal)
	}
}
