package repositories

import (
	"context"

	"catalog/internal/domain/models"
)

// CategoryRepository defines data access operations for categories
type CategoryRepository interface {
	// List retrieves all categories ordered by name (empty slice, never nil)
	List(ctx context.Context) ([]models.Category, error)

	// GetBySlug retrieves a category by slug, matched case-insensitively
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)

	// Exists reports whether a category with the given id exists
	Exists(ctx context.Context, id int64) (bool, error)

	// Upsert inserts the category, or overwrites every non-key column of the
	// row with the same slug. The stored row (with its id) is written back.
	Upsert(ctx context.Context, category *models.Category) error
}
