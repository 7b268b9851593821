package postgres

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/jackc/pgx/v5"

	"github.com/sagarc03/tinyweb"
)

var _ tinyweb.Storage = (*Store)(nil)

func (s *Store) quotedTable() string {
	return pgx.Identifier{s.table}.Sanitize()
}

func (s *Store) Exists(ctx context.Context, name string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE name = $1)`, s.quotedTable())

	var exists bool
	if err := s.pool.QueryRow(ctx, query, name).Scan(&exists); err != nil {
		return false, fmt.Errorf("exists: %w", err)
	}
	return exists, nil
}

func (s *Store) Open(ctx context.Context, name string) (tinyweb.File, error) {
	query := fmt.Sprintf(`SELECT data FROM %s WHERE name = $1`, s.quotedTable())

	var data []byte
	err := s.pool.QueryRow(ctx, query, name).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, tinyweb.ErrNotFound
		}
		return nil, fmt.Errorf("open: %w", err)
	}

	return &rowFile{Reader: bytes.NewReader(data), size: int64(len(data))}, nil
}

type rowFile struct {
	*bytes.Reader
	size int64
}

func (f *rowFile) Size() int64  { return f.size }
func (f *rowFile) Close() error { return nil }

// Create buffers the upload; Commit writes the row in a single statement.
func (s *Store) Create(ctx context.Context, name string) (tinyweb.WritableFile, error) {
	query := fmt.Sprintf(`SELECT size FROM %s WHERE name = $1`, s.quotedTable())

	var existing int64
	err := s.pool.QueryRow(ctx, query, name).Scan(&existing)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("create: %w", err)
	}

	return &rowWriter{ctx: ctx, store: s, name: name, existing: existing}, nil
}

type rowWriter struct {
	ctx      context.Context
	store    *Store
	name     string
	existing int64
	buf      bytes.Buffer
	closed   bool
}

func (w *rowWriter) Write(p []byte) (int, error) {
	if w.closed {
		return 0, io.ErrClosedPipe
	}
	return w.buf.Write(p)
}

func (w *rowWriter) Size() int64 {
	return w.existing
}

func (w *rowWriter) Commit() error {
	if w.closed {
		return errors.New("commit: file already closed")
	}
	w.closed = true

	query := fmt.Sprintf(`
		INSERT INTO %s (name, data, size)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE
		SET data = EXCLUDED.data,
			size = EXCLUDED.size,
			updated_at = NOW()
	`, w.store.quotedTable())

	if _, err := w.store.pool.Exec(w.ctx, query, w.name, w.buf.Bytes(), int64(w.buf.Len())); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (w *rowWriter) Close() error {
	w.closed = true
	w.buf.Reset()
	return nil
}

func (s *Store) Remove(ctx context.Context, name string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE name = $1`, s.quotedTable())

	tag, err := s.pool.Exec(ctx, query, name)
	if err != nil {
		return fmt.Errorf("remove: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return tinyweb.ErrNotFound
	}
	return nil
}

func (s *Store) List(ctx context.Context) ([]tinyweb.FileEntry, error) {
	query := fmt.Sprintf(`SELECT name, size FROM %s ORDER BY name`, s.quotedTable())

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	defer rows.Close()

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
	query := fmt.Sprintf(`SELECT COALESCE(SUM(size), 0)::BIGINT FROM %s`, s.quotedTable())

	var used int64
	if err := s.pool.QueryRow(ctx, query).Scan(&used); err != nil {
		return tinyweb.Usage{}, fmt.Errorf("usage: %w", err)
	}
	return tinyweb.Usage{Total: s.capacity, Used: used}, nil
}
