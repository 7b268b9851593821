package tinyweb

import (
	"context"
	"io"
)

// Storage is the flat, path-keyed byte store behind the built-in /file routes.
//
// All methods accept a context for cancellation. Implementations return
// ErrNotFound (possibly wrapped) for missing files.
type Storage interface {
	// Exists reports whether a file is stored under name.
	Exists(ctx context.Context, name string) (bool, error)

	// Open opens name for reading. The caller closes the returned File.
	Open(ctx context.Context, name string) (File, error)

	// Create opens name for writing. It never truncates existing content:
	// Size on the returned WritableFile reports what is already stored under
	// name (zero when the file is new), so callers can refuse to overwrite.
	// Written bytes become visible only after Commit. Close without Commit
	// discards them.
	Create(ctx context.Context, name string) (WritableFile, error)

	// Remove deletes name. Returns ErrNotFound when it does not exist.
	Remove(ctx context.Context, name string) error

	// List returns every stored file. An empty store yields an empty slice.
	List(ctx context.Context) ([]FileEntry, error)

	// Usage reports total capacity and bytes in use.
	Usage(ctx context.Context) (Usage, error)
}

// File is a stored file opened for reading.
type File interface {
	io.ReadCloser
	// Size returns the file length in bytes at open time.
	Size() int64
}

// WritableFile is a pending write created by Storage.Create.
type WritableFile interface {
	io.WriteCloser
	// Size returns the length of the content already stored under the name.
	Size() int64
	// Commit flushes the written bytes and makes them visible. It closes the file.
	Commit() error
}
