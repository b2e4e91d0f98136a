package repositories

import (
	"context"

	"catalog/internal/domain/models"
)

// InstrumentRepository defines data access operations for instruments
type InstrumentRepository interface {
	// List retrieves all instruments ordered by name
	List(ctx context.Context) ([]models.Instrument, error)

	// ListByCategory retrieves the instruments of one category ordered by name
	ListByCategory(ctx context.Context, categoryID int64) ([]models.Instrument, error)

	// GetByID retrieves an instrument by ID
	GetByID(ctx context.Context, id int64) (*models.Instrument, error)

	// FindByOwnerAndName is used by seeding, which has no natural unique key
	FindByOwnerAndName(ctx context.Context, userID, name string) (*models.Instrument, error)

	// Create inserts an instrument and writes the generated ID back
	Create(ctx context.Context, instrument *models.Instrument) error

	// Update overwrites the editable columns; id and user_id are never changed
	Update(ctx context.Context, instrument *models.Instrument) error

	// Delete removes an instrument. Deleting a missing row is not an error.
	Delete(ctx context.Context, id int64) error
}
