package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/orris-inc/tally/internal/infrastructure/permission"
	adminHandlers "github.com/orris-inc/tally/internal/interfaces/http/handlers/admin"
	"github.com/orris-inc/tally/internal/interfaces/http/middleware"
)

type AdminRouteConfig struct {
	CacheHandler         *adminHandlers.CacheHandler
	AuthMiddleware       *middleware.AuthMiddleware
	PermissionMiddleware *middleware.PermissionMiddleware
}

func SetupAdminRoutes(api *gin.RouterGroup, cfg *AdminRouteConfig) {
	admin := api.Group("/admin")
	admin.Use(cfg.AuthMiddleware.RequireAuth())
	{
		admin.POST("/cache/:userId/invalidate",
			cfg.PermissionMiddleware.RequirePermission(permission.ResourceMetricsCache, permission.ActionInvalidate),
			cfg.CacheHandler.InvalidateUserCache,
		)
	}
}
