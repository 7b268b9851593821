package sqlite

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sagarc03/tinyweb"
)

var _ tinyweb.Storage = (*Store)(nil)

func (s *Store) Exists(ctx context.Context, name string) (bool, error) {
	query := fmt.Sprintf(`SELECT 1 FROM %s WHERE name = ?`, quoteIdentifier(s.table)) //nolint:gosec // G201: table name is validated

	var one int
	err := s.db.QueryRowContext(ctx, query, name).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("exists: %w", err)
	}
	return true, nil
}

func (s *Store) Open(ctx context.Context, name string) (tinyweb.File, error) {
	query := fmt.Sprintf(`SELECT data FROM %s WHERE name = ?`, quoteIdentifier(s.table)) //nolint:gosec // G201: table name is validated

	var data []byte
	err := s.db.QueryRowContext(ctx, query, name).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, tinyweb.ErrNotFound
		}
		return nil, fmt.Errorf("open: %w", err)
	}

	return &blobFile{Reader: bytes.NewReader(data), size: int64(len(data))}, nil
}

type blobFile struct {
	*bytes.Reader
	size int64
}

func (f *blobFile) Size() int64  { return f.size }
func (f *blobFile) Close() error { return nil }

// Create buffers the write in memory; Commit upserts the row.
func (s *Store) Create(ctx context.Context, name string) (tinyweb.WritableFile, error) {
	query := fmt.Sprintf(`SELECT size FROM %s WHERE name = ?`, quoteIdentifier(s.table)) //nolint:gosec // G201: table name is validated

	var existing int64
	err := s.db.QueryRowContext(ctx, query, name).Scan(&existing)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("create: %w", err)
	}

	return &blobWriter{ctx: ctx, store: s, name: name, existing: existing}, nil
}

type blobWriter struct {
	ctx      context.Context
	store    *Store
	name     string
	existing int64
	buf      bytes.Buffer
	done     bool
}

func (w *blobWriter) Write(p []byte) (int, error) {
	if w.done {
		return 0, io.ErrClosedPipe
	}
	return w.buf.Write(p)
}

func (w *blobWriter) Size() int64 {
	return w.existing
}

func (w *blobWriter) Commit() error {
	if w.done {
		return errors.New("commit: file already closed")
	}
	w.done = true

	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`INSERT INTO %s (name, data, size, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			data = excluded.data,
			size = excluded.size,
			updated_at = excluded.updated_at`, quoteIdentifier(w.store.table))

	now := time.Now().UTC().Format(time.RFC3339Nano)
	if _, err := w.store.db.ExecContext(w.ctx, query, w.name, w.buf.Bytes(), w.buf.Len(), now); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (w *blobWriter) Close() error {
	w.done = true
	w.buf.Reset()
	return nil
}

func (s *Store) Remove(ctx context.Context, name string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE name = ?`, quoteIdentifier(s.table)) //nolint:gosec // G201: table name is validated

	result, err := s.db.ExecContext(ctx, query, name)
	if err != nil {
		return fmt.Errorf("remove: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("remove: rows affected: %w", err)
	}
	if rows == 0 {
		return tinyweb.ErrNotFound
	}
	return nil
}

func (s *Store) List(ctx context.Context) ([]tinyweb.FileEntry, error) {
	query := fmt.Sprintf(`SELECT name, size FROM %s ORDER BY name`, quoteIdentifier(s.table)) //nolint:gosec // G201: table name is validated

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	defer func() { _ = rows.Close() }()

	entries := []tinyweb.FileEntry{}
	for rows.Next() {
		var e tinyweb.FileEntry
		if err := rows.Scan(&e.Name, &e.Size); err != nil {
			return nil, fmt.Errorf("list: scan: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list: rows error: %w", err)
	}

	return entries, nil
}

func (s *Store) Usage(ctx context.Context) (tinyweb.Usage, error) {
	query := fmt.Sprintf(`SELECT COALESCE(SUM(size), 0) FROM %s`, quoteIdentifier(s.table)) //nolint:gosec // G201: table name is validated

	var used int64
	if err := s.db.QueryRowContext(ctx, query).Scan(&used); err != nil {
		return tinyweb.Usage{}, fmt.Errorf("usage: %w", err)
	}
	return tinyweb.Usage{Total: s.capacity, Used: used}, nil
}
