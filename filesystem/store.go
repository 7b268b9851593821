// Package filesystem provides a file system storage backend for tinyweb.
// It writes atomically through temp files and reports usage against a fixed
// capacity, the way a flash partition would.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/sagarc03/tinyweb"
)

const tmpPrefix = ".t"

// Store provides file system storage operations.
type Store struct {
	root     *os.Root
	capacity int64
}

var _ tinyweb.Storage = (*Store)(nil)

// NewFileStorage creates a new Store with the given root directory and
// capacity in bytes. The root provides sandboxed file operations preventing
// path traversal.
func NewFileStorage(root *os.Root, capacity int64) *Store {
	return &Store{root: root, capacity: capacity}
}

// Exists reports whether name is a regular file under the root. The empty
// name never exists.
func (s *Store) Exists(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if name == "" {
		return false, nil
	}

	info, err := s.root.Stat(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("stat file: %w", err)
	}
	return info.Mode().IsRegular(), nil
}

// Open opens a file for reading. Returns tinyweb.ErrNotFound if the file does not exist.
func (s *Store) Open(ctx context.Context, name string) (tinyweb.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := s.root.Open(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, tinyweb.ErrNotFound
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	return &readFile{File: f, size: info.Size()}, nil
}

type readFile struct {
	*os.File
	size int64
}

func (f *readFile) Size() int64 {
	return f.size
}

// Create opens a temp file that replaces name on Commit.
func (s *Store) Create(ctx context.Context, name string) (tinyweb.WritableFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var existing int64
	info, err := s.root.Stat(name)
	switch {
	case err == nil:
		existing = info.Size()
	case !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	tmpFile := tmpFileName()
	t, err := s.root.Create(tmpFile)
	if err != nil {
		return nil, fmt.Errorf("could not open temp file: %w", err)
	}

	return &writeFile{root: s.root, tmp: t, tmpName: tmpFile, name: name, existing: existing}, nil
}

type writeFile struct {
	root     *os.Root
	tmp      *os.File
	tmpName  string
	name     string
	existing int64
	done     bool
}

func (w *writeFile) Write(p []byte) (int, error) {
	return w.tmp.Write(p)
}

func (w *writeFile) Size() int64 {
	return w.existing
}

// Commit syncs the temp file and renames it over the target.
func (w *writeFile) Commit() error {
	if w.done {
		return errors.New("commit: file already closed")
	}
	w.done = true

	success := false
	defer func() {
		if !success {
			if rmErr := w.root.Remove(w.tmpName); rmErr != nil {
				slog.Warn("failed to remove tmp file", "err", rmErr)
			}
		}
	}()

	if err := w.tmp.Sync(); err != nil {
		_ = w.tmp.Close()
		return fmt.Errorf("could not sync written file: %w", err)
	}
	if err := w.tmp.Close(); err != nil {
		return fmt.Errorf("could not close written file: %w", err)
	}
	if err := w.root.Rename(w.tmpName, w.name); err != nil {
		return fmt.Errorf("failed to rename file: %w", err)
	}

	success = true
	return nil
}

// Close discards the written bytes unless Commit already ran.
func (w *writeFile) Close() error {
	if w.done {
		return nil
	}
	w.done = true

	closeErr := w.tmp.Close()
	if rmErr := w.root.Remove(w.tmpName); rmErr != nil {
		slog.Warn("failed to remove tmp file", "err", rmErr)
	}
	return closeErr
}

// Remove deletes a file. Returns tinyweb.ErrNotFound if the file does not exist.
func (s *Store) Remove(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.root.Remove(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return tinyweb.ErrNotFound
		}
		return fmt.Errorf("could not delete file: %w", err)
	}
	return nil
}

// List returns the regular files directly under the root, skipping
// directories and in-flight temp files.
func (s *Store) List(ctx context.Context) ([]tinyweb.FileEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dirEntries, err := fs.ReadDir(s.root.FS(), ".")
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	entries := make([]tinyweb.FileEntry, 0, len(dirEntries))
	for _, entry := range dirEntries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), tmpPrefix) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("failed to list files: %w", err)
		}
		if !info.Mode().IsRegular() {
			continue
		}

		entries = append(entries, tinyweb.FileEntry{Name: entry.Name(), Size: info.Size()})
	}

	return entries, nil
}

// Usage sums the listed file sizes against the configured capacity.
func (s *Store) Usage(ctx context.Context) (tinyweb.Usage, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return tinyweb.Usage{}, fmt.Errorf("usage: %w", err)
	}

	var used int64
	for _, e := range entries {
		used += e.Size
	}
	return tinyweb.Usage{Total: s.capacity, Used: used}, nil
}

func tmpFileName() string {
	return fmt.Sprintf("%s%s", tmpPrefix, uuid.New().String())
}
