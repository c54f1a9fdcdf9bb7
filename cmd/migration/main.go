package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/latoulicious/hutbot/pkg/database"
	"github.com/latoulicious/hutbot/pkg/database/migration"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		databaseURL string
		reset       bool
	)

	cmd := &cobra.Command{
		Use:          "migration",
		Short:        "Create or reset the hutbot database schema",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load the environment variables; .env is optional
			if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
				log.Printf("Warning: Error loading .env file: %v", err)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			db, closeDB, err := connect(databaseURL)
			if err != nil {
				return err
			}
			defer closeDB()

			if reset {
				if err := migration.Reset(db); err != nil {
					return err
				}
			}

			return migration.RunMigration(db)
		},
	}

	cmd.PersistentFlags().StringVar(&databaseURL, "database-url", "", "PostgreSQL DSN (defaults to $DATABASE_URL)")
	cmd.Flags().BoolVar(&reset, "reset", false, "Drop the bot tables before migrating")

	cmd.AddCommand(newCheckCmd(&databaseURL))

	return cmd
}

// connect opens the database named by url, falling back to $DATABASE_URL
func connect(url string) (*gorm.DB, func(), error) {
	if url == "" {
		url = os.Getenv("DATABASE_URL")
	}

	db, err := database.NewGormDB(url)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get SQL database: %w", err)
	}
	log.Println("Connected to database")

	return db, func() { _ = sqlDB.Close() }, nil
}
