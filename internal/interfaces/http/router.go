// Package http assembles the gin engine of the API server.
package http

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "github.com/orris-inc/tally/docs"
	"github.com/orris-inc/tally/internal/infrastructure/config"
	"github.com/orris-inc/tally/internal/interfaces/http/middleware"
	"github.com/orris-inc/tally/internal/interfaces/http/routes"
	"github.com/orris-inc/tally/internal/shared/logger"
)

const (
	rateLimitScopeAPI     = "api"
	rateLimitScopeWebhook = "webhook"
)

type Router struct {
	container *Container
}

func NewRouter(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, log logger.Interface) (*Router, error) {
	c, err := NewContainer(db, redisClient, cfg, log)
	if err != nil {
		return nil, err
	}
	return &Router{container: c}, nil
}

// SetupRoutes configures all HTTP routes.
func (r *Router) SetupRoutes() {
	c := r.container
	engine := c.engine

	engine.Use(middleware.RequestID())
	engine.Use(middleware.Logger(c.log))
	engine.Use(middleware.Recovery(c.log))
	engine.Use(middleware.Telemetry(c.collector))
	engine.Use(middleware.SecurityHeaders())
	engine.Use(middleware.CORS(c.cfg.Server.AllowedOrigins))

	engine.GET("/health", c.hdlrs.healthHandler.Health)
	engine.GET("/metrics", gin.WrapH(c.collector.Handler()))
	if c.cfg.Server.Mode != gin.ReleaseMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := engine.Group("/api")
	if limit := r.rateLimit(rateLimitScopeAPI, c.cfg.RateLimit.APIPerMinute); limit != nil {
		api.Use(limit)
	}

	routes.SetupDashboardRoutes(api, &routes.DashboardRouteConfig{
		DashboardHandler: c.hdlrs.dashboardHandler,
		AuthMiddleware:   c.authMiddleware,
	})
	routes.SetupAccountRoutes(api, &routes.AccountRouteConfig{
		AccountHandler: c.hdlrs.accountHandler,
		AuthMiddleware: c.authMiddleware,
	})
	routes.SetupAdminRoutes(api, &routes.AdminRouteConfig{
		CacheHandler:         c.hdlrs.cacheHandler,
		AuthMiddleware:       c.authMiddleware,
		PermissionMiddleware: c.permissionMiddleware,
	})
	routes.SetupWebhookRoutes(engine, &routes.WebhookRouteConfig{
		WebhookHandler: c.hdlrs.webhookHandler,
		RateLimit:      r.rateLimit(rateLimitScopeWebhook, c.cfg.RateLimit.WebhookPerMinute),
	})
}

func (r *Router) rateLimit(scope string, perMinute int) gin.HandlerFunc {
	if r.container.rateLimitMiddleware == nil {
		return nil
	}
	return r.container.rateLimitMiddleware.Limit(scope, perMinute)
}

func (r *Router) GetEngine() *gin.Engine {
	return r.container.engine
}

func (r *Router) Shutdown(ctx context.Context) error {
	return r.container.Shutdown(ctx)
}
