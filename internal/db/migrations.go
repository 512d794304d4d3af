package db

import (
	"database/sql"
	"fmt"
)

// migrations is a list of SQL statements applied in order after schema creation.
// Each migration must be idempotent. Append new migrations at the end.
var migrations = []string{
	// Migration 1: lookup indexes for the list pages and the access check.
	`CREATE INDEX IF NOT EXISTS idx_items_category ON items(category_id)`,
	`CREATE INDEX IF NOT EXISTS idx_items_name ON items(name)`,
	`CREATE INDEX IF NOT EXISTS idx_categories_name ON categories(name)`,
	`CREATE INDEX IF NOT EXISTS idx_instance_access_category
	     ON instance_access(access_id, category_id) WHERE category_id IS NOT NULL`,
	`CREATE INDEX IF NOT EXISTS idx_instance_access_item
	     ON instance_access(access_id, item_id) WHERE item_id IS NOT NULL`,
}

// Migrate ensures the schema exists and applies all migrations.
func Migrate(db *sql.DB) error {
	if err := EnsureSchema(db); err != nil {
		return err
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}

	return nil
}
