// Package bootstrap prepares the process runtime shared by the CLI commands
// and the worker.
package bootstrap

import (
	"context"
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	metricsServices "github.com/orris-inc/tally/internal/application/metrics/services"
	"github.com/orris-inc/tally/internal/infrastructure/cache"
	"github.com/orris-inc/tally/internal/infrastructure/config"
	"github.com/orris-inc/tally/internal/infrastructure/database"
	"github.com/orris-inc/tally/internal/infrastructure/repository"
	"github.com/orris-inc/tally/internal/shared/biztime"
	"github.com/orris-inc/tally/internal/shared/logger"
)

// ResolveEnv lets the ENV variable override the --env flag.
func ResolveEnv(flagValue string) string {
	if envVar := os.Getenv("ENV"); envVar != "" {
		return envVar
	}
	return flagValue
}

// GinMode maps a deployment environment name onto a server mode.
func GinMode(environment string) string {
	switch environment {
	case "production", "prod", "release":
		return "release"
	case "test", "testing":
		return "test"
	default:
		return "debug"
	}
}

// LoadConfig loads configuration and initializes the logger and the business
// timezone.
func LoadConfig(env string) (*config.Config, logger.Interface, error) {
	cfg, err := config.Load(GinMode(env))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger, cfg.Server.Mode); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := biztime.Init(cfg.Metrics.Timezone); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize business timezone: %w", err)
	}

	return cfg, logger.NewLogger(), nil
}

// NeedsRedis reports whether any configured component talks to Redis.
func NeedsRedis(cfg *config.Config) bool {
	return cfg.Metrics.CacheDriver == cache.DriverRedis || cfg.RateLimit.Enabled
}

type Runtime struct {
	Config *config.Config
	Log    logger.Interface
	DB     *gorm.DB
	// Redis is nil when NeedsRedis is false.
	Redis *redis.Client
}

// Open loads configuration and connects to the database and, when needed,
// to Redis.
func Open(ctx context.Context, env string) (*Runtime, error) {
	cfg, log, err := LoadConfig(env)
	if err != nil {
		return nil, err
	}

	if err := database.Init(&cfg.Database); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	rt := &Runtime{Config: cfg, Log: log, DB: database.Get()}

	if NeedsRedis(cfg) {
		client, err := cache.NewRedisClient(ctx, &cfg.Redis)
		if err != nil {
			_ = database.Close()
			return nil, err
		}
		rt.Redis = client
		log.Infow("redis connection established", "address", cfg.Redis.GetAddr())
	}

	return rt, nil
}

// Close releases the connections opened by Open.
func (rt *Runtime) Close() {
	if rt.Redis != nil {
		if err := rt.Redis.Close(); err != nil {
			rt.Log.Warnw("failed to close redis client", "error", err)
		}
	}
	if err := database.Close(); err != nil {
		rt.Log.Warnw("failed to close database", "error", err)
	}
}

// MetricsStack is the aggregator and invalidator pair built over the
// configured cache.
type MetricsStack struct {
	Store       cache.MetricStore
	Aggregator  *metricsServices.MetricsAggregator
	Invalidator *metricsServices.CacheInvalidator
	Accounts    *repository.AccountRepository
	Snapshots   *repository.MetricsSnapshotRepository
}

func (rt *Runtime) MetricsStack() (*MetricsStack, error) {
	store, err := cache.NewMetricStore(rt.Config.Metrics.CacheDriver, rt.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize metrics cache: %w", err)
	}

	return &MetricsStack{
		Store: store,
		Aggregator: metricsServices.NewMetricsAggregator(
			repository.NewBillingReader(rt.DB),
			store,
			rt.Config.Metrics.CacheTTL(),
			rt.Log.Named("metrics.aggregator"),
		),
		Invalidator: metricsServices.NewCacheInvalidator(store, rt.Log.Named("metrics.invalidator")),
		Accounts:    repository.NewAccountRepository(rt.DB, rt.Log),
		Snapshots:   repository.NewMetricsSnapshotRepository(rt.DB),
	}, nil
}
