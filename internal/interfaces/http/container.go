package http

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/orris-inc/tally/internal/infrastructure/auth"
	"github.com/orris-inc/tally/internal/infrastructure/config"
	"github.com/orris-inc/tally/internal/infrastructure/permission"
	"github.com/orris-inc/tally/internal/infrastructure/telemetry"
	"github.com/orris-inc/tally/internal/interfaces/http/middleware"
	"github.com/orris-inc/tally/internal/shared/logger"
)

// Container holds the infrastructure, repositories, use cases, handlers and
// middlewares of the API server and wires them together.
type Container struct {
	// Core infrastructure
	engine    *gin.Engine
	db        *gorm.DB
	cfg       *config.Config
	log       logger.Interface
	redis     *redis.Client
	collector *telemetry.Collector

	repos *repositories
	svcs  *services
	ucs   *allUseCases
	hdlrs *allHandlers

	// Middlewares
	authMiddleware       *middleware.AuthMiddleware
	permissionMiddleware *middleware.PermissionMiddleware
	rateLimitMiddleware  *middleware.RateLimitMiddleware

	jwtSvc   *auth.JWTService
	enforcer *permission.Enforcer
}

// NewContainer wires the server. redisClient may be nil when both the
// metrics cache and rate limiting run without Redis.
func NewContainer(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, log logger.Interface) (*Container, error) {
	c := &Container{
		engine:    gin.New(),
		db:        db,
		cfg:       cfg,
		log:       log,
		redis:     redisClient,
		collector: telemetry.NewCollector(),
	}

	c.repos = newRepositories(db, log)

	svcs, err := newServices(c)
	if err != nil {
		return nil, err
	}
	c.svcs = svcs

	if err := c.initMiddlewares(); err != nil {
		return nil, err
	}

	c.ucs = newUseCases(c)
	c.hdlrs = newHandlers(c)

	return c, nil
}

func (c *Container) initMiddlewares() error {
	c.jwtSvc = auth.NewJWTService(c.cfg.Auth.JWT.Secret, c.cfg.Auth.JWT.Issuer, c.cfg.Auth.JWT.AccessTTL())
	c.authMiddleware = middleware.NewAuthMiddleware(c.jwtSvc, c.log)

	enforcer, err := permission.NewEnforcer(c.db, c.log)
	if err != nil {
		return fmt.Errorf("failed to initialize permissions: %w", err)
	}
	if err := permission.InitDefaultPolicies(enforcer, c.log); err != nil {
		return fmt.Errorf("failed to seed permissions: %w", err)
	}
	c.enforcer = enforcer
	c.permissionMiddleware = middleware.NewPermissionMiddleware(enforcer, c.log)

	if c.cfg.RateLimit.Enabled && c.svcs.rateLimiter != nil {
		c.rateLimitMiddleware = middleware.NewRateLimitMiddleware(c.svcs.rateLimiter, c.log)
	}
	return nil
}

// Shutdown releases the Redis connection. The database belongs to the caller.
func (c *Container) Shutdown(_ context.Context) error {
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			return fmt.Errorf("failed to close redis: %w", err)
		}
	}
	return nil
}
