package repositories

import "context"

// UserRepository manages placeholder user rows
type UserRepository interface {
	// EnsureExists inserts the user if absent and never overwrites an existing row
	EnsureExists(ctx context.Context, id string) error
}

// MaintenanceRepository holds destructive whole-store operations used by seeding
type MaintenanceRepository interface {
	// TruncateAll empties every table and restarts identity sequences
	TruncateAll(ctx context.Context) error
}
