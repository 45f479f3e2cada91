package database

import (
	"fmt"

	"gorm.io/gorm"

	"gamerent/internal/model"
	"gamerent/pkg/log"
)

// AutoMigrate auto migrate database table schema
func AutoMigrate(db *gorm.DB) error {
	log.Info("Starting database migration...")

	models := []interface{}{
		&model.AdminUser{},
		&model.Game{},
		&model.Rental{},
	}

	for _, m := range models {
		if err := db.AutoMigrate(m); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", m, err)
		}
		log.Infof("Migrated model: %T", m)
	}

	log.Info("Database migration completed successfully")
	return nil
}

// CreateIndexes create additional indexes
func CreateIndexes(db *gorm.DB) error {
	indexes := []struct {
		name string
		sql  string
	}{
		{
			name: "idx_games_platform_available",
			sql:  "CREATE INDEX IF NOT EXISTS idx_games_platform_available ON games (platform, available)",
		},
		{
			name: "idx_rentals_status_created",
			sql:  "CREATE INDEX IF NOT EXISTS idx_rentals_status_created ON rentals (status, created_at)",
		},
	}

	for _, idx := range indexes {
		if err := db.Exec(idx.sql).Error; err != nil {
			log.Warnf("Failed to create index %s: %v", idx.name, err)
		}
	}

	return nil
}
