package db

import (
	"context"
	"database/sql"
)

// Manager owns the process-wide database handle. Conn returns a live
// handle, re-establishing it after a failed liveness check; callers never
// hold the handle across requests themselves.
type Manager interface {
	Conn(ctx context.Context) (*sql.DB, error)
	RunMigrations(ctx context.Context) error
	Close() error
}
