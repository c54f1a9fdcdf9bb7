package migration

import (
	"fmt"
	"log"

	"github.com/latoulicious/hutbot/pkg/database/models"
	"gorm.io/gorm"
)

// Models lists every table owned by the bot
func Models() []interface{} {
	return []interface{}{
		&models.CommandLog{},
	}
}

// RunMigration creates or updates the schema
func RunMigration(db *gorm.DB) error {
	log.Println("Running database migrations...")

	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Println("Migrations completed successfully!")
	return nil
}

// Reset drops every table owned by the bot
func Reset(db *gorm.DB) error {
	log.Println("Dropping tables...")

	if err := db.Migrator().DropTable(Models()...); err != nil {
		return fmt.Errorf("failed to drop tables: %w", err)
	}

	log.Println("Database reset successfully")
	return nil
}
