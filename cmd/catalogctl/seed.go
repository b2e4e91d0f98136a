package main

import (
	"context"

	"catalog/internal/seed"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Add or update fixture data",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

func seedSubcommand(use, short string, run func(s *seed.Seeder, ctx context.Context) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			err := withSeeder(func(ctx context.Context, s *seed.Seeder) error {
				return run(s, ctx)
			})
			if err != nil {
				fail("%s failed: %v", cmd.CommandPath(), err)
			}
		},
	}
}

func init() {
	seedCmd.AddCommand(
		seedSubcommand("all", "Seed categories, users, and instruments", (*seed.Seeder).SeedAll),
		seedSubcommand("categories", "Seed categories", (*seed.Seeder).SeedCategories),
		seedSubcommand("users", "Seed users", (*seed.Seeder).SeedUsers),
		seedSubcommand("instruments", "Seed instruments (categories and users must exist)", (*seed.Seeder).SeedInstruments),
		seedSubcommand("truncate", "Empty all tables (refused when ENVIRONMENT=production)", (*seed.Seeder).Truncate),
		seedSubcommand("reset", "Empty all tables and reseed (refused when ENVIRONMENT=production)", (*seed.Seeder).Reset),
	)

	rootCmd.AddCommand(seedCmd)
}
