// Package config declares the typed configuration sections. Loading lives in
// infrastructure/config.
package config

import (
	"fmt"
	"time"
)

type ServerConfig struct {
	Host           string   `mapstructure:"host" validate:"required"`
	Port           int      `mapstructure:"port" validate:"gt=0,lte=65535"`
	Mode           string   `mapstructure:"mode" validate:"oneof=debug release test"`
	BaseURL        string   `mapstructure:"base_url"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	// Driver is mysql in deployments; sqlite serves local runs and tests.
	Driver          string `mapstructure:"driver" validate:"oneof=mysql sqlite"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database" validate:"required"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
	// MigrationTool selects goose, golang-migrate or gorm automigrate.
	MigrationTool string `mapstructure:"migration_tool" validate:"oneof=goose golang-migrate gorm"`
}

// GetDSN returns the driver-specific data source name. For sqlite Database is
// the file path (or :memory:).
func (d *DatabaseConfig) GetDSN() string {
	if d.Driver == "sqlite" {
		return d.Database
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC&multiStatements=true",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format" validate:"oneof=console json"`
	OutputPath string `mapstructure:"output_path"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type JWTConfig struct {
	Secret string `mapstructure:"secret" validate:"required,min=16"`
	Issuer string `mapstructure:"issuer"`
	// AccessExpMinutes is the lifetime of tokens minted by `tally token`.
	AccessExpMinutes int `mapstructure:"access_exp_minutes" validate:"gt=0"`
}

func (j *JWTConfig) AccessTTL() time.Duration {
	return time.Duration(j.AccessExpMinutes) * time.Minute
}

type AuthConfig struct {
	JWT JWTConfig `mapstructure:"jwt"`
}

type MetricsConfig struct {
	// CacheDriver is redis in deployments; memory keeps a single-process cache.
	CacheDriver string `mapstructure:"cache_driver" validate:"oneof=redis memory"`
	// CacheTTLSeconds bounds how stale a cached metric may be.
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds" validate:"gt=0"`
	// Timezone decides where dashboard days start.
	Timezone string `mapstructure:"timezone"`
	// SnapshotIntervalMinutes drives the worker's snapshot scheduler.
	SnapshotIntervalMinutes int `mapstructure:"snapshot_interval_minutes" validate:"gt=0"`
}

func (m *MetricsConfig) CacheTTL() time.Duration {
	return time.Duration(m.CacheTTLSeconds) * time.Second
}

func (m *MetricsConfig) SnapshotInterval() time.Duration {
	return time.Duration(m.SnapshotIntervalMinutes) * time.Minute
}

type RateLimitConfig struct {
	Enabled          bool `mapstructure:"enabled"`
	APIPerMinute     int  `mapstructure:"api_per_minute" validate:"gte=0"`
	WebhookPerMinute int  `mapstructure:"webhook_per_minute" validate:"gte=0"`
}
