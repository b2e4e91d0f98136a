package main

import (
	"fmt"
	"strconv"

	"catalog/internal/database"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create and/or upgrade the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Run: func(cmd *cobra.Command, args []string) {
		withMigrator(func(m *database.Migrator) error {
			if err := m.Up(); err != nil {
				return err
			}
			version, _, err := m.Version()
			if err != nil {
				return err
			}
			fmt.Printf("Migrated to version: %d\n", version)
			return nil
		})
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down [steps]",
	Short: "Roll back migrations (default: 1)",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		steps := 1
		if len(args) > 0 {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				fail("steps must be an integer: %v", err)
			}
			steps = n
		}

		withMigrator(func(m *database.Migrator) error {
			fmt.Printf("Rolling back %d migration(s)...\n", steps)
			if err := m.Down(steps); err != nil {
				return err
			}
			version, _, err := m.Version()
			if err != nil {
				return err
			}
			fmt.Printf("Rolled back to version: %d\n", version)
			return nil
		})
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the current migration version",
	Run: func(cmd *cobra.Command, args []string) {
		withMigrator(func(m *database.Migrator) error {
			version, dirty, err := m.Version()
			if err != nil {
				return err
			}
			if version == 0 {
				fmt.Println("No migrations have been applied yet")
				return nil
			}
			fmt.Printf("Current version: %d\n", version)
			if dirty {
				fmt.Println("Warning: Database is in a dirty state")
			}
			return nil
		})
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateVersionCmd)
	rootCmd.AddCommand(migrateCmd)
}

func withMigrator(fn func(m *database.Migrator) error) {
	cfg, _ := loadConfig()

	m, err := database.NewMigrator(cfg.DatabaseURL)
	if err != nil {
		fail("Failed to create migrator: %v", err)
	}
	defer m.Close()

	if err := fn(m); err != nil {
		m.Close()
		fail("Migration failed: %v", err)
	}
}
