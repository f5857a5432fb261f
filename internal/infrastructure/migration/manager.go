package migration

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/orris-inc/tally/internal/shared/config"
	"github.com/orris-inc/tally/internal/shared/logger"
)

type Manager struct {
	strategy Strategy
	logger   logger.Interface
}

// NewManager picks the strategy named by cfg.MigrationTool. The versioned
// scripts are written for MySQL, so sqlite always uses gorm automigrate.
func NewManager(cfg *config.DatabaseConfig, log logger.Interface) *Manager {
	log = log.With("component", "migration.manager")

	var strategy Strategy
	switch {
	case cfg.Driver == "sqlite":
		if cfg.MigrationTool != "" && cfg.MigrationTool != "gorm" {
			log.Warnw("sqlite databases are migrated with gorm automigrate",
				"configured_tool", cfg.MigrationTool)
		}
		strategy = NewGormAutoMigrateStrategy(log)
	case cfg.MigrationTool == "golang-migrate":
		strategy = NewGolangMigrateStrategy(log)
	case cfg.MigrationTool == "gorm":
		strategy = NewGormAutoMigrateStrategy(log)
	default:
		strategy = NewGooseStrategy("mysql", log)
	}

	return &Manager{strategy: strategy, logger: log}
}

func NewManagerWithStrategy(strategy Strategy, log logger.Interface) *Manager {
	return &Manager{strategy: strategy, logger: log.With("component", "migration.manager")}
}

func (m *Manager) Strategy() Strategy {
	return m.strategy
}

func (m *Manager) Up(db *gorm.DB) error {
	m.logger.Infow("starting database migration", "strategy", m.strategy.GetName())
	if err := m.strategy.Migrate(db); err != nil {
		return fmt.Errorf("migration failed with strategy %s: %w", m.strategy.GetName(), err)
	}
	return nil
}

func (m *Manager) Down(db *gorm.DB, steps int) error {
	r, ok := m.strategy.(Reverter)
	if !ok {
		return fmt.Errorf("strategy %s cannot roll back", m.strategy.GetName())
	}
	if steps < 1 {
		return fmt.Errorf("steps must be at least 1, got %d", steps)
	}
	return r.MigrateDown(db, steps)
}

// Version reports the schema version; supported is false for strategies
// without one.
func (m *Manager) Version(db *gorm.DB) (version int64, dirty bool, supported bool, err error) {
	v, ok := m.strategy.(Versioner)
	if !ok {
		return 0, false, false, nil
	}
	version, dirty, err = v.GetVersion(db)
	return version, dirty, true, err
}
