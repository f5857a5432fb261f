// Package migrations creates the schema straight from the gorm models. It
// backs the gorm migration strategy and every sqlite-backed test.
package migrations

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/orris-inc/tally/internal/infrastructure/persistence/models"
)

func MigrateBillingTables(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate billing tables: %w", err)
	}
	return nil
}
