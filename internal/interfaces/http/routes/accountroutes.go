package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/orris-inc/tally/internal/interfaces/http/handlers"
	"github.com/orris-inc/tally/internal/interfaces/http/middleware"
)

type AccountRouteConfig struct {
	AccountHandler *handlers.AccountHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// SetupAccountRoutes mounts /accounts under api. Ownership is checked by
// the use cases, which report foreign accounts as not found.
func SetupAccountRoutes(api *gin.RouterGroup, cfg *AccountRouteConfig) {
	accounts := api.Group("/accounts")
	accounts.Use(cfg.AuthMiddleware.RequireAuth())
	{
		accounts.GET("", cfg.AccountHandler.ListAccounts)
		accounts.POST("", cfg.AccountHandler.ConnectAccount)
		accounts.DELETE("/:id", cfg.AccountHandler.DisconnectAccount)
		accounts.GET("/:id/subscriptions", cfg.AccountHandler.ListSubscriptions)
	}
}
