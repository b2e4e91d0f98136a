package services

import (
	"context"

	"catalog/internal/domain/models"
)

// CategoryService exposes read access to categories
type CategoryService interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error)
}

// InstrumentInput is the request body of POST and PUT /instruments.
// Fields are pointers so that missing fields can be told apart from zero values.
// ID and UserID are tolerated only when they do not try to override anything.
type InstrumentInput struct {
	ID          *int64  `json:"id"`
	CategoryID  *int64  `json:"categoryId"`
	UserID      *string `json:"userId"`
	Name        *string `json:"name"`
	Summary     *string `json:"summary"`
	Description *string `json:"description"`
	ImageURL    *string `json:"imageUrl"`
}

// InstrumentService implements instrument reads and owner-scoped mutations
type InstrumentService interface {
	ListInstruments(ctx context.Context) ([]models.Instrument, error)

	// ListInstrumentsByCategory returns domain.ErrNotFound when the category is missing
	// and an empty slice when it exists but has no instruments
	ListInstrumentsByCategory(ctx context.Context, categoryID int64) ([]models.Instrument, error)

	GetInstrument(ctx context.Context, id int64) (*models.Instrument, error)

	// CreateInstrument makes identity the owner, creating its user row if needed
	CreateInstrument(ctx context.Context, identity models.Identity, input *InstrumentInput) (*models.Instrument, error)

	// GetModifiableInstrument fetches the instrument and checks that identity may change it
	GetModifiableInstrument(ctx context.Context, identity models.Identity, id int64) (*models.Instrument, error)

	// UpdateInstrument validates input and overwrites the editable fields of an
	// instrument previously returned by GetModifiableInstrument
	UpdateInstrument(ctx context.Context, existing *models.Instrument, input *InstrumentInput) (*models.Instrument, error)

	// DeleteInstrument is idempotent: a missing instrument is not an error
	DeleteInstrument(ctx context.Context, identity models.Identity, id int64) error
}
