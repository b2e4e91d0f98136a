package memory

import (
	"context"
	"sort"
	"strings"

	"catalog/internal/domain"
	"catalog/internal/domain/models"
)

// CategoryRepository implements repositories.CategoryRepository
type CategoryRepository struct {
	store *Store
}

func (r *CategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := []models.Category{}
	for _, c := range r.store.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *CategoryRepository) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, c := range r.store.categories {
		if strings.EqualFold(c.Slug, slug) {
			found := c
			return &found, nil
		}
	}
	return nil, domain.NotFoundf("no category found with slug: %s", slug)
}

func (r *CategoryRepository) Exists(ctx context.Context, id int64) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	_, ok := r.store.categories[id]
	return ok, nil
}

// Upsert matches on the exact slug like the unique constraint in Postgres
func (r *CategoryRepository) Upsert(ctx context.Context, category *models.Category) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for id, c := range r.store.categories {
		if c.Slug == category.Slug {
			category.ID = id
			undoFromContext(ctx).touchCategory(r.store, id)
			r.store.categories[id] = *category
			return nil
		}
	}

	category.ID = r.store.nextCategoryID
	r.store.nextCategoryID++
	undoFromContext(ctx).touchCategory(r.store, category.ID)
	r.store.categories[category.ID] = *category
	return nil
}
