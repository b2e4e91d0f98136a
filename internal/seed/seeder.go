// Package seed writes the fixture data set. Every operation is idempotent:
// categories match on slug, users on id, and instruments on (user id, name).
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"catalog/internal/domain"
	"catalog/internal/domain/models"
	"catalog/internal/domain/repositories"
)

// ErrProduction is returned by destructive operations in a production environment
var ErrProduction = errors.New("don't truncate tables in production")

// Seeder handles seeding of categories, users and instruments
type Seeder struct {
	repos      repositories.Set
	fixtures   *Fixtures
	production bool
	logger     *slog.Logger
}

// NewSeeder creates a seeder. production disables Truncate and Reset.
func NewSeeder(repos repositories.Set, fixtures *Fixtures, production bool, logger *slog.Logger) *Seeder {
	return &Seeder{
		repos:      repos,
		fixtures:   fixtures,
		production: production,
		logger:     logger,
	}
}

// SeedCategories upserts every fixture category by slug
func (s *Seeder) SeedCategories(ctx context.Context) error {
	for _, c := range s.fixtures.Categories {
		category := c
		if err := s.repos.Categories.Upsert(ctx, &category); err != nil {
			return err
		}
		s.logger.Debug("seeded category", "id", category.ID, "slug", category.Slug)
	}
	s.logger.Info("categories seeded", "count", len(s.fixtures.Categories))
	return nil
}

// SeedUsers inserts fixture users that are not present yet
func (s *Seeder) SeedUsers(ctx context.Context) error {
	for _, id := range s.fixtures.Users {
		if err := s.repos.Users.EnsureExists(ctx, id); err != nil {
			return err
		}
	}
	s.logger.Info("users seeded", "count", len(s.fixtures.Users))
	return nil
}

// SeedInstruments inserts or updates fixture instruments in one transaction.
// There is no unique key on (user_id, name), so each row is looked up first.
func (s *Seeder) SeedInstruments(ctx context.Context) error {
	categoryIDs := make(map[string]int64)
	for _, f := range s.fixtures.Instruments {
		if _, ok := categoryIDs[f.Category]; ok {
			continue
		}
		category, err := s.repos.Categories.GetBySlug(ctx, f.Category)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return errors.New("you must seed categories before seeding instruments")
			}
			return err
		}
		categoryIDs[f.Category] = category.ID
	}

	err := s.repos.TxManager.ExecTx(ctx, func(txCtx context.Context) error {
		for _, f := range s.fixtures.Instruments {
			if err := s.upsertInstrument(txCtx, categoryIDs[f.Category], f); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("seed instruments: %w", err)
	}

	s.logger.Info("instruments seeded", "count", len(s.fixtures.Instruments))
	return nil
}

func (s *Seeder) upsertInstrument(ctx context.Context, categoryID int64, f InstrumentFixture) error {
	existing, err := s.repos.Instruments.FindByOwnerAndName(ctx, f.UserID, f.Name)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	inst := &models.Instrument{
		CategoryID:  categoryID,
		UserID:      f.UserID,
		Name:        f.Name,
		Summary:     f.Summary,
		Description: f.Description,
		ImageURL:    f.ImageURL,
	}

	if existing == nil {
		return s.repos.Instruments.Create(ctx, inst)
	}
	inst.ID = existing.ID
	return s.repos.Instruments.Update(ctx, inst)
}

// SeedAll seeds categories and users, then the instruments referencing them
func (s *Seeder) SeedAll(ctx context.Context) error {
	if err := s.SeedCategories(ctx); err != nil {
		return err
	}
	if err := s.SeedUsers(ctx); err != nil {
		return err
	}
	return s.SeedInstruments(ctx)
}

// Truncate empties every table. It refuses to run in production.
func (s *Seeder) Truncate(ctx context.Context) error {
	if s.production {
		return ErrProduction
	}
	if err := s.repos.Maintenance.TruncateAll(ctx); err != nil {
		return err
	}
	s.logger.Info("tables truncated")
	return nil
}

// Reset truncates and reseeds
func (s *Seeder) Reset(ctx context.Context) error {
	if err := s.Truncate(ctx); err != nil {
		return err
	}
	return s.SeedAll(ctx)
}
