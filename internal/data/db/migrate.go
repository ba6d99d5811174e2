package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/yungbote/mealprep-backend/internal/domain"
)

// staleScanIndexes back the recursive staleness query. Partial indexes are
// Postgres only; SQLite runs fall back to the tag-declared indexes.
var staleScanIndexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_label_snapshot_frozen_sku
		ON label_snapshot (organization_id, frozen_at)
		WHERE label_type = 'SKU' AND frozen_at IS NOT NULL`,
	`CREATE INDEX IF NOT EXISTS idx_label_lineage_edge_walk
		ON label_lineage_edge (parent_label_id, created_at, id)`,
	`CREATE INDEX IF NOT EXISTS idx_product_nutrient_value_recent
		ON product_nutrient_value (product_id, updated_at DESC)`,
}

// AutoMigrateAll creates or updates every table, then the staleness indexes.
func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(types.Models()...); err != nil {
		return err
	}
	if db.Dialector.Name() != DriverPostgres {
		return nil
	}
	for _, stmt := range staleScanIndexes {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create staleness index: %w", err)
		}
	}
	return nil
}
