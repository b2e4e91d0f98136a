package postgres

import (
	"context"
	"fmt"

	"catalog/internal/domain/repositories"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresUserRepository implements the UserRepository interface
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new user repository
func NewUserRepository(config *RepositoryConfig) repositories.UserRepository {
	return &PostgresUserRepository{pool: config.Pool}
}

// EnsureExists inserts the user row unless it is already present
func (r *PostgresUserRepository) EnsureExists(ctx context.Context, id string) error {
	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, `INSERT INTO users (id) VALUES ($1) ON CONFLICT (id) DO NOTHING`, id); err != nil {
		return fmt.Errorf("ensure user %s: %w", id, err)
	}
	return nil
}

// PostgresMaintenanceRepository implements the MaintenanceRepository interface
type PostgresMaintenanceRepository struct {
	pool *pgxpool.Pool
}

// NewMaintenanceRepository creates a new maintenance repository
func NewMaintenanceRepository(config *RepositoryConfig) repositories.MaintenanceRepository {
	return &PostgresMaintenanceRepository{pool: config.Pool}
}

// TruncateAll empties every table and restarts identity sequences
func (r *PostgresMaintenanceRepository) TruncateAll(ctx context.Context) error {
	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, `TRUNCATE categories, users, instruments RESTART IDENTITY`); err != nil {
		return fmt.Errorf("truncate tables: %w", err)
	}
	return nil
}
