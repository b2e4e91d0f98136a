package postgres

import (
	"context"
	"fmt"

	"catalog/internal/domain"
	"catalog/internal/domain/models"
	"catalog/internal/domain/repositories"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresInstrumentRepository implements the InstrumentRepository interface
type PostgresInstrumentRepository struct {
	pool *pgxpool.Pool
}

// NewInstrumentRepository creates a new instrument repository
func NewInstrumentRepository(config *RepositoryConfig) repositories.InstrumentRepository {
	return &PostgresInstrumentRepository{pool: config.Pool}
}

const instrumentColumns = `id, category_id, user_id, name, summary, description, image_url`

func scanInstrument(row pgx.Row, inst *models.Instrument) error {
	return row.Scan(
		&inst.ID,
		&inst.CategoryID,
		&inst.UserID,
		&inst.Name,
		&inst.Summary,
		&inst.Description,
		&inst.ImageURL,
	)
}

func (r *PostgresInstrumentRepository) list(ctx context.Context, query string, args ...any) ([]models.Instrument, error) {
	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list instruments: %w", err)
	}
	defer rows.Close()

	instruments := []models.Instrument{}
	for rows.Next() {
		var inst models.Instrument
		if err := scanInstrument(rows, &inst); err != nil {
			return nil, fmt.Errorf("scan instrument: %w", err)
		}
		instruments = append(instruments, inst)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate instruments: %w", err)
	}

	return instruments, nil
}

// List retrieves all instruments ordered by name
func (r *PostgresInstrumentRepository) List(ctx context.Context) ([]models.Instrument, error) {
	return r.list(ctx, `SELECT `+instrumentColumns+` FROM instruments ORDER BY name, id`)
}

// ListByCategory retrieves the instruments of a category ordered by name
func (r *PostgresInstrumentRepository) ListByCategory(ctx context.Context, categoryID int64) ([]models.Instrument, error) {
	return r.list(ctx,
		`SELECT `+instrumentColumns+` FROM instruments WHERE category_id = $1 ORDER BY name, id`,
		categoryID,
	)
}

// GetByID retrieves an instrument by ID
func (r *PostgresInstrumentRepository) GetByID(ctx context.Context, id int64) (*models.Instrument, error) {
	query := `SELECT ` + instrumentColumns + ` FROM instruments WHERE id = $1`

	var inst models.Instrument
	executor := GetExecutor(ctx, r.pool)
	if err := scanInstrument(executor.QueryRow(ctx, query, id), &inst); err != nil {
		if IsPgNoRowsError(err) {
			return nil, domain.NotFoundf("no instrument found with id: %d", id)
		}
		return nil, fmt.Errorf("get instrument: %w", err)
	}

	return &inst, nil
}

// FindByOwnerAndName returns the first instrument with this owner and name
func (r *PostgresInstrumentRepository) FindByOwnerAndName(ctx context.Context, userID, name string) (*models.Instrument, error) {
	query := `
		SELECT ` + instrumentColumns + `
		FROM instruments
		WHERE user_id = $1 AND name = $2
		ORDER BY id
		LIMIT 1
	`

	var inst models.Instrument
	executor := GetExecutor(ctx, r.pool)
	if err := scanInstrument(executor.QueryRow(ctx, query, userID, name), &inst); err != nil {
		if IsPgNoRowsError(err) {
			return nil, domain.NotFoundf("no instrument %q owned by %s", name, userID)
		}
		return nil, fmt.Errorf("find instrument: %w", err)
	}

	return &inst, nil
}

// Create inserts an instrument
func (r *PostgresInstrumentRepository) Create(ctx context.Context, inst *models.Instrument) error {
	query := `
		INSERT INTO instruments (category_id, user_id, name, summary, description, image_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		inst.CategoryID,
		inst.UserID,
		inst.Name,
		inst.Summary,
		inst.Description,
		inst.ImageURL,
	).Scan(&inst.ID)
	if err != nil {
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("create instrument: unknown categoryId or userId: %w", domain.ErrValidation)
		}
		return fmt.Errorf("create instrument: %w", err)
	}

	return nil
}

// Update overwrites the editable columns and reloads the stored row
func (r *PostgresInstrumentRepository) Update(ctx context.Context, inst *models.Instrument) error {
	query := `
		UPDATE instruments
		SET category_id = $2, name = $3, summary = $4, description = $5, image_url = $6
		WHERE id = $1
		RETURNING ` + instrumentColumns

	executor := GetExecutor(ctx, r.pool)
	err := scanInstrument(executor.QueryRow(ctx, query,
		inst.ID,
		inst.CategoryID,
		inst.Name,
		inst.Summary,
		inst.Description,
		inst.ImageURL,
	), inst)
	if err != nil {
		if IsPgNoRowsError(err) {
			return domain.NotFoundf("no instrument found with id: %d", inst.ID)
		}
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("update instrument: unknown categoryId: %w", domain.ErrValidation)
		}
		return fmt.Errorf("update instrument: %w", err)
	}

	return nil
}

// Delete removes an instrument; a missing row is not an error
func (r *PostgresInstrumentRepository) Delete(ctx context.Context, id int64) error {
	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, `DELETE FROM instruments WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete instrument: %w", err)
	}
	return nil
}
