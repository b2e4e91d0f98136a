package catalog

import (
	"context"
	"log/slog"

	"catalog/internal/domain/models"
	"catalog/internal/domain/repositories"
	"catalog/internal/domain/services"
)

// categoryService implements the CategoryService interface
type categoryService struct {
	categoryRepo repositories.CategoryRepository
	logger       *slog.Logger
}

// NewCategoryService creates a new category service
func NewCategoryService(categoryRepo repositories.CategoryRepository, logger *slog.Logger) services.CategoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
		logger:       logger,
	}
}

func (s *categoryService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.categoryRepo.List(ctx)
}

func (s *categoryService) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return s.categoryRepo.GetBySlug(ctx, slug)
}
