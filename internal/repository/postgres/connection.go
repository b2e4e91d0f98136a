package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"catalog/internal/domain/repositories"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryConfig holds configuration for repository implementations
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Logger *slog.Logger
}

// CreateConnectionPool creates a pgx connection pool and pings it.
//
// Port 6543 is treated as a transaction-mode PgBouncer, which cannot hold
// prepared statements, so the pool falls back to QueryExecModeCacheDescribe
// unless default_query_exec_mode was set explicitly in the URL.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 1

	if config.ConnConfig.Port == 6543 && config.ConnConfig.DefaultQueryExecMode == pgx.QueryExecModeCacheStatement {
		config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheDescribe
		slog.Debug("auto-configured cache_describe mode for PgBouncer compatibility", "port", 6543)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// GetExecutor returns the transaction stored in ctx, or the pool when there is none.
// Repositories use it so they join an enclosing ExecTx automatically.
func GetExecutor(ctx context.Context, pool *pgxpool.Pool) repositories.DBTX {
	if tx := repositories.TxFromContext(ctx); tx != nil {
		return tx
	}
	return pool
}

// NewRepositories wires all repositories onto one pool
func NewRepositories(config *RepositoryConfig) repositories.Set {
	return repositories.Set{
		Categories:  NewCategoryRepository(config),
		Instruments: NewInstrumentRepository(config),
		Users:       NewUserRepository(config),
		Maintenance: NewMaintenanceRepository(config),
		TxManager:   NewTransactionManager(config.Pool, config.Logger),
	}
}
