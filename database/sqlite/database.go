// Package sqlite implements tinyweb.Storage on a SQLite table, one row per file.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sagarc03/tinyweb/database/internal"

	_ "modernc.org/sqlite" // SQLite driver
)

// Store keeps files as blobs in a SQLite table.
type Store struct {
	db       *sql.DB
	table    string
	capacity int64
}

// Connect opens the SQLite database at dsn. The table name is validated here;
// call Migrate to create it.
func Connect(ctx context.Context, dsn, table string, capacity int64) (*Store, error) {
	if err := internal.ValidateTableName(table); err != nil {
		return nil, fmt.Errorf("connect sqlite: %w", err)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect sqlite: %w", err)
	}

	// An in-memory database exists per connection.
	db.SetMaxOpenConns(1)

	return &Store{db: db, table: table, capacity: capacity}, nil
}

// Ping verifies the database connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Migrate creates the files table.
func (s *Store) Migrate(ctx context.Context) error {
	if err := createFilesTable(ctx, s.db, s.table); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Validate checks that the files table matches the expected structure.
func (s *Store) Validate(ctx context.Context) error {
	if err := validateTableSchema(ctx, s.db, s.table, filesTableSchema); err != nil {
		return fmt.Errorf("validate schema %s: %w", s.table, err)
	}
	return nil
}

// Drop removes the files table.
func (s *Store) Drop(ctx context.Context) error {
	return dropTable(ctx, s.db, s.table)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
