//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"catalog/internal/database"
	"catalog/internal/domain"
	"catalog/internal/domain/models"
	"catalog/internal/domain/repositories"
	"catalog/internal/repository/postgres"
	"catalog/internal/seed"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startDatabase runs Postgres in a container and applies the migrations
func startDatabase(t *testing.T) (repositories.Set, *seed.Seeder) {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("catalog_test"),
		tcpostgres.WithUsername("catalog"),
		tcpostgres.WithPassword("catalog"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	migrator, err := database.NewMigrator(dsn)
	require.NoError(t, err)
	require.NoError(t, migrator.Up())
	version, dirty, err := migrator.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(3), version)
	assert.False(t, dirty)
	require.NoError(t, migrator.Close())

	pool, err := postgres.CreateConnectionPool(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repos := postgres.NewRepositories(&postgres.RepositoryConfig{Pool: pool, Logger: logger})

	fixtures, err := seed.DefaultFixtures()
	require.NoError(t, err)
	return repos, seed.NewSeeder(repos, fixtures, false, logger)
}

func TestPostgres(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	repos, seeder := startDatabase(t)
	ctx := context.Background()

	t.Run("seed is idempotent", func(t *testing.T) {
		require.NoError(t, seeder.SeedAll(ctx))
		require.NoError(t, seeder.SeedAll(ctx))

		categories, err := repos.Categories.List(ctx)
		require.NoError(t, err)
		require.Len(t, categories, 2)
		assert.Equal(t, "strings", categories[0].Slug)

		instruments, err := repos.Instruments.List(ctx)
		require.NoError(t, err)
		assert.Len(t, instruments, 2)
	})

	t.Run("category upsert overwrites by slug", func(t *testing.T) {
		before, err := repos.Categories.GetBySlug(ctx, "STRINGS")
		require.NoError(t, err)

		update := &models.Category{Name: "Strings", Slug: "strings", Summary: "New summary", Description: "New description"}
		require.NoError(t, repos.Categories.Upsert(ctx, update))
		assert.Equal(t, before.ID, update.ID)

		after, err := repos.Categories.GetBySlug(ctx, "strings")
		require.NoError(t, err)
		assert.Equal(t, "New summary", after.Summary)

		_, err = repos.Categories.GetBySlug(ctx, "brass")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("instrument crud", func(t *testing.T) {
		stringsCat, err := repos.Categories.GetBySlug(ctx, "strings")
		require.NoError(t, err)

		err = repos.TxManager.ExecTx(ctx, func(ctx context.Context) error {
			return repos.Users.EnsureExists(ctx, "user|3")
		})
		require.NoError(t, err)

		inst := &models.Instrument{CategoryID: stringsCat.ID, UserID: "user|3", Name: "Cello"}
		require.NoError(t, repos.Instruments.Create(ctx, inst))
		assert.NotZero(t, inst.ID)

		inst.Name = "Viola"
		inst.UserID = "someone-else"
		require.NoError(t, repos.Instruments.Update(ctx, inst))
		assert.Equal(t, "user|3", inst.UserID)

		got, err := repos.Instruments.GetByID(ctx, inst.ID)
		require.NoError(t, err)
		assert.Equal(t, "Viola", got.Name)

		byCategory, err := repos.Instruments.ListByCategory(ctx, stringsCat.ID)
		require.NoError(t, err)
		assert.Len(t, byCategory, 2)

		require.NoError(t, repos.Instruments.Delete(ctx, inst.ID))
		require.NoError(t, repos.Instruments.Delete(ctx, inst.ID))
		_, err = repos.Instruments.GetByID(ctx, inst.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("foreign keys", func(t *testing.T) {
		err := repos.Instruments.Create(ctx, &models.Instrument{CategoryID: 999, UserID: "seed.user|1", Name: "Ghost"})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("transaction rolls back", func(t *testing.T) {
		boom := errors.New("boom")
		err := repos.TxManager.ExecTx(ctx, func(ctx context.Context) error {
			if err := repos.Users.EnsureExists(ctx, "user|rollback"); err != nil {
				return err
			}
			if err := repos.Instruments.Create(ctx, &models.Instrument{CategoryID: 1, UserID: "user|rollback", Name: "Oboe"}); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)

		_, err = repos.Instruments.FindByOwnerAndName(ctx, "user|rollback", "Oboe")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("reset restarts identity", func(t *testing.T) {
		require.NoError(t, seeder.Reset(ctx))

		flute, err := repos.Instruments.GetByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "Flute", flute.Name)

		winds, err := repos.Categories.GetBySlug(ctx, "winds")
		require.NoError(t, err)
		assert.Equal(t, winds.ID, flute.CategoryID)
	})
}
