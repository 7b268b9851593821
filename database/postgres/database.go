// Package postgres implements tinyweb.Storage on a PostgreSQL table, one row per file.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sagarc03/tinyweb/database/internal"
)

// Store keeps files as bytea rows in a PostgreSQL table.
type Store struct {
	pool     *pgxpool.Pool
	table    string
	capacity int64
}

// Connect establishes a connection to PostgreSQL.
// The table name is validated here; call Migrate to create it.
func Connect(ctx context.Context, dsn, table string, capacity int64) (*Store, error) {
	if err := internal.ValidateTableName(table); err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	return &Store{
		pool:     pool,
		table:    table,
		capacity: capacity,
	}, nil
}

// Ping verifies the database connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate creates the files table.
func (s *Store) Migrate(ctx context.Context) error {
	if err := createFilesTable(ctx, s.pool, s.table); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Validate checks that the files table matches the expected structure.
func (s *Store) Validate(ctx context.Context) error {
	if err := validateTableSchema(ctx, s.pool, s.table, filesTableSchema); err != nil {
		return fmt.Errorf("validate schema %s: %w", s.table, err)
	}
	return nil
}

// Drop removes the files table.
func (s *Store) Drop(ctx context.Context) error {
	return dropTable(ctx, s.pool, s.table)
}

// Close closes the database connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}
