// Command catalogctl manages the instrument catalog database: schema
// migrations and idempotent fixture seeding.
//
//	catalogctl migrate up
//	catalogctl seed all
//	catalogctl seed reset
//
// DATABASE_URL and ENVIRONMENT are read from the environment or a .env file.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"catalog/internal/config"
	"catalog/internal/repository/postgres"
	"catalog/internal/seed"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "catalogctl",
	Short: "Manage the instrument catalog database",
	Long: `Manage the instrument catalog database.

Seed commands are idempotent. If a row to be inserted already exists, it is
updated with the fixture values. Ids are not hard coded, so a row is a
duplicate if these columns match:

  TABLE         COLUMNS
  categories    slug
  users         id
  instruments   name, user_id`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		_ = godotenv.Load()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func loadConfig() (*config.Config, *slog.Logger) {
	cfg, err := config.Load()
	if err != nil {
		fail("Failed to load config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		fail("DATABASE_URL environment variable is required")
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	return cfg, logger
}

// withSeeder connects to the database and runs fn with a seeder over it
func withSeeder(fn func(ctx context.Context, s *seed.Seeder) error) error {
	cfg, logger := loadConfig()
	ctx := context.Background()

	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	fixtures, err := seed.DefaultFixtures()
	if err != nil {
		return err
	}

	repos := postgres.NewRepositories(&postgres.RepositoryConfig{Pool: pool, Logger: logger})
	return fn(ctx, seed.NewSeeder(repos, fixtures, cfg.IsProduction(), logger))
}
