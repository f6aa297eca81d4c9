// Package db manages the shared Postgres connection: lazily opened, cached
// per process, revalidated with a bounded ping, and reopened once after a
// failed liveness check.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/panvault/internal/server/migrations"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

const (
	pingTimeout     = 5 * time.Second
	maxOpenConns    = 10
	connMaxIdleTime = time.Minute
)

type PostgresManager struct {
	dsn string

	mu sync.Mutex
	db *sql.DB
}

func NewPostgresManager(dsn string) *PostgresManager {
	return &PostgresManager{dsn: dsn}
}

// Conn returns the cached handle if it still answers a ping, otherwise
// discards it and opens a fresh one. A single mutex guards the cycle so
// concurrent callers observe one in-flight connection attempt instead of
// racing to open duplicates.
func (m *PostgresManager) Conn(ctx context.Context) (*sql.DB, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.db != nil {
		if err := m.ping(ctx, m.db); err == nil {
			return m.db, nil
		}
		_ = m.db.Close()
		m.db = nil
	}

	db, err := m.open(ctx)
	if err != nil {
		return nil, err
	}
	m.db = db
	return db, nil
}

// RunMigrations applies the embedded goose migrations.
func (m *PostgresManager) RunMigrations(ctx context.Context) error {
	db, err := m.Conn(ctx)
	if err != nil {
		return err
	}

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose dialect error: %w", err)
	}
	return goose.UpContext(ctx, db, ".")
}

func (m *PostgresManager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.db == nil {
		return nil
	}
	err := m.db.Close()
	m.db = nil
	return err
}

func (m *PostgresManager) open(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open("pgx", m.dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetConnMaxIdleTime(connMaxIdleTime)

	if err := m.ping(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db connect error: %w", err)
	}
	return db, nil
}

func (m *PostgresManager) ping(ctx context.Context, db *sql.DB) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return db.PingContext(ctx)
}
