package bootstrap

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/orris-inc/tally/internal/infrastructure/config"
	sharedConfig "github.com/orris-inc/tally/internal/shared/config"
)

func TestGinMode(t *testing.T) {
	cases := map[string]string{
		"production":  "release",
		"prod":        "release",
		"release":     "release",
		"test":        "test",
		"testing":     "test",
		"development": "debug",
		"":            "debug",
	}
	for env, want := range cases {
		assert.Equal(t, want, GinMode(env), env)
	}
}

func TestResolveEnv(t *testing.T) {
	t.Setenv("ENV", "")
	assert.Equal(t, "development", ResolveEnv("development"))

	t.Setenv("ENV", "production")
	assert.Equal(t, "production", ResolveEnv("development"))
}

func TestNeedsRedis(t *testing.T) {
	cfg := &config.Config{
		Metrics:   sharedConfig.MetricsConfig{CacheDriver: "memory"},
		RateLimit: sharedConfig.RateLimitConfig{Enabled: false},
	}
	assert.False(t, NeedsRedis(cfg))

	cfg.RateLimit.Enabled = true
	assert.True(t, NeedsRedis(cfg))

	cfg.RateLimit.Enabled = false
	cfg.Metrics.CacheDriver = "redis"
	assert.True(t, NeedsRedis(cfg))
}
