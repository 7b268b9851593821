package database

import (
	"context"
	"fmt"
	"os"

	"github.com/sagarc03/tinyweb"
	"github.com/sagarc03/tinyweb/database/postgres"
	"github.com/sagarc03/tinyweb/database/sqlite"
	"github.com/sagarc03/tinyweb/filesystem"
)

// Config holds the configuration for opening a storage backend.
type Config struct {
	// Type specifies the backend: "filesystem", "sqlite" or "postgres"
	Type string
	// Path is the directory served by the filesystem backend
	Path string
	// DSN is the data source name (connection string) for SQL backends
	DSN string
	// Table is the name of the files table for SQL backends
	Table string
	// Capacity is the total number of bytes reported by Usage
	Capacity int64
}

// Open connects to the configured storage backend, runs migrations,
// validates the schema, and returns a ready Storage.
// The returned cleanup function should be called to release the backend.
func Open(ctx context.Context, cfg Config) (tinyweb.Storage, func(), error) {
	switch cfg.Type {
	case "filesystem":
		return openFilesystem(cfg.Path, cfg.Capacity)
	case "sqlite":
		return openSQLite(ctx, cfg.DSN, cfg.Table, cfg.Capacity)
	case "postgres":
		return openPostgres(ctx, cfg.DSN, cfg.Table, cfg.Capacity)
	default:
		return nil, nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}

func openFilesystem(path string, capacity int64) (tinyweb.Storage, func(), error) {
	if err := os.MkdirAll(path, 0o750); err != nil {
		return nil, nil, fmt.Errorf("create storage dir: %w", err)
	}

	root, err := os.OpenRoot(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open storage dir: %w", err)
	}

	cleanup := func() {
		_ = root.Close()
	}

	return filesystem.NewFileStorage(root, capacity), cleanup, nil
}

func openSQLite(ctx context.Context, dsn, table string, capacity int64) (tinyweb.Storage, func(), error) {
	store, err := sqlite.Connect(ctx, dsn, table, capacity)
	if err != nil {
		return nil, nil, err
	}

	if err = store.Ping(ctx); err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("ping sqlite: %w", err)
	}

	if err = store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("migrate sqlite: %w", err)
	}

	if err = store.Validate(ctx); err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("validate sqlite schema: %w", err)
	}

	cleanup := func() {
		_ = store.Close()
	}

	return store, cleanup, nil
}

func openPostgres(ctx context.Context, dsn, table string, capacity int64) (tinyweb.Storage, func(), error) {
	store, err := postgres.Connect(ctx, dsn, table, capacity)
	if err != nil {
		return nil, nil, err
	}

	if err = store.Ping(ctx); err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("ping postgres: %w", err)
	}

	if err = store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("migrate postgres: %w", err)
	}

	if err = store.Validate(ctx); err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("validate postgres schema: %w", err)
	}

	cleanup := func() {
		_ = store.Close()
	}

	return store, cleanup, nil
}
