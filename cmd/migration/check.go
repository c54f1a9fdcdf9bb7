package main

import (
	"fmt"
	"time"

	"github.com/latoulicious/hutbot/pkg/database/migration"
	"github.com/latoulicious/hutbot/pkg/database/repository"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// newCheckCmd verifies connectivity and schema, then summarises recent logs
func newCheckCmd(databaseURL *string) *cobra.Command {
	var since time.Duration

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check database connectivity, schema and recent log volume",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "=== PostgreSQL Database Connectivity Check ===")

			db, closeDB, err := connect(*databaseURL)
			if err != nil {
				return err
			}
			defer closeDB()

			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			if err := sqlDB.PingContext(cmd.Context()); err != nil {
				return fmt.Errorf("database ping failed: %w", err)
			}
			fmt.Fprintln(out, "✅ Database ping successful")

			var version string
			if err := db.Raw("SELECT version()").Scan(&version).Error; err != nil {
				return fmt.Errorf("failed to get database version: %w", err)
			}
			fmt.Fprintf(out, "✅ PostgreSQL version: %s\n", version)

			if missing := missingTables(db); len(missing) > 0 {
				fmt.Fprintf(out, "⚠️  Missing tables %v, run the migration first\n", missing)
				return nil
			}
			fmt.Fprintln(out, "✅ All tables present")

			counts, err := repository.NewLogRepository(db).CountByLevel(time.Now().Add(-since))
			if err != nil {
				return fmt.Errorf("failed to count log entries: %w", err)
			}
			fmt.Fprintf(out, "📊 Log entries in the last %s:\n", since)
			for _, level := range []string{"INFO", "WARN", "ERROR"} {
				fmt.Fprintf(out, "   %-5s %d\n", level, counts[level])
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&since, "since", 24*time.Hour, "Window for the log volume summary")
	return cmd
}

func missingTables(db *gorm.DB) []string {
	var missing []string
	for _, model := range migration.Models() {
		if db.Migrator().HasTable(model) {
			continue
		}
		if named, ok := model.(interface{ TableName() string }); ok {
			missing = append(missing, named.TableName())
		} else {
			missing = append(missing, fmt.Sprintf("%T", model))
		}
	}
	return missing
}
