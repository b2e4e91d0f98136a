package handler

import (
	"log/slog"
	"net/http"

	"catalog/internal/domain/models"
	"catalog/internal/domain/services"
	"catalog/internal/httputil"
)

// CategoryHandler handles category HTTP requests
type CategoryHandler struct {
	categoryService services.CategoryService
	logger          *slog.Logger
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(categoryService services.CategoryService, logger *slog.Logger) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		logger:          logger,
	}
}

type categoriesResponse struct {
	Categories []models.Category `json:"categories"`
}

// ListCategories returns every category
// GET /categories/all
func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryService.ListCategories(r.Context())
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, categoriesResponse{Categories: categories})
}

// GetCategory returns one category by slug, ignoring case
// GET /categories/{slug}
func (h *CategoryHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	category, err := h.categoryService.GetCategoryBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, category)
}
