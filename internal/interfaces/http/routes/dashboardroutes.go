// Package routes groups the HTTP endpoints by area.
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/orris-inc/tally/internal/interfaces/http/handlers"
	"github.com/orris-inc/tally/internal/interfaces/http/middleware"
)

type DashboardRouteConfig struct {
	DashboardHandler *handlers.DashboardHandler
	AuthMiddleware   *middleware.AuthMiddleware
}

// SetupDashboardRoutes mounts /dashboard under api.
func SetupDashboardRoutes(api *gin.RouterGroup, cfg *DashboardRouteConfig) {
	dashboard := api.Group("/dashboard")
	dashboard.Use(cfg.AuthMiddleware.RequireAuth())
	{
		dashboard.GET("", cfg.DashboardHandler.GetDashboard)
		dashboard.GET("/metrics", cfg.DashboardHandler.GetMetrics)
		dashboard.GET("/snapshot", cfg.DashboardHandler.GetSnapshot)
	}
}
