package postgres

import (
	"context"
	"fmt"

	"catalog/internal/domain"
	"catalog/internal/domain/models"
	"catalog/internal/domain/repositories"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresCategoryRepository implements the CategoryRepository interface
type PostgresCategoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(config *RepositoryConfig) repositories.CategoryRepository {
	return &PostgresCategoryRepository{pool: config.Pool}
}

const categoryColumns = `id, name, slug, summary, description`

// List retrieves all categories ordered by name
func (r *PostgresCategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories ORDER BY name, id`

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Summary, &c.Description); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}

	return categories, nil
}

// GetBySlug retrieves a category by slug, ignoring case
func (r *PostgresCategoryRepository) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE lower(slug) = lower($1)`

	var c models.Category
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, slug).Scan(&c.ID, &c.Name, &c.Slug, &c.Summary, &c.Description)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, domain.NotFoundf("no category found with slug: %s", slug)
		}
		return nil, fmt.Errorf("get category: %w", err)
	}

	return &c, nil
}

// Exists reports whether a category id is present
func (r *PostgresCategoryRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM categories WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check category: %w", err)
	}
	return exists, nil
}

// Upsert inserts a category or overwrites the row holding the same slug
func (r *PostgresCategoryRepository) Upsert(ctx context.Context, category *models.Category) error {
	query := `
		INSERT INTO categories (name, slug, summary, description)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (slug) DO UPDATE SET
			name = EXCLUDED.name,
			summary = EXCLUDED.summary,
			description = EXCLUDED.description
		RETURNING id
	`

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		category.Name,
		category.Slug,
		category.Summary,
		category.Description,
	).Scan(&category.ID)
	if err != nil {
		return fmt.Errorf("upsert category %s: %w", category.Slug, err)
	}

	return nil
}
