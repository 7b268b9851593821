package filesystem_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/tinyweb"
	"github.com/sagarc03/tinyweb/filesystem"
)

func newStore(t *testing.T) (*filesystem.Store, string) {
	t.Helper()
	tempDir := t.TempDir()
	root, err := os.OpenRoot(tempDir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = root.Close() })
	return filesystem.NewFileStorage(root, 1024), tempDir
}

func TestStore_Open_Success(t *testing.T) {
	store, dir := newStore(t)

	content := []byte("test content")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "test.txt"), content, 0o644))

	f, err := store.Open(context.Background(), "test.txt")
	require.NoError(t, err)

	assert.Equal(t, int64(len(content)), f.Size())
	readContent, err := io.ReadAll(f)
	assert.NoError(t, err)
	assert.Equal(t, content, readContent)
	assert.NoError(t, f.Close())
}

func TestStore_Open_NotFound(t *testing.T) {
	store, _ := newStore(t)

	f, err := store.Open(context.Background(), "nonexistent.txt")

	assert.Nil(t, f)
	assert.ErrorIs(t, err, tinyweb.ErrNotFound)
}

func TestStore_Open_ContextCanceled(t *testing.T) {
	store, _ := newStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f, err := store.Open(ctx, "test.txt")

	assert.Nil(t, f)
	assert.Equal(t, context.Canceled, err)
}

func TestStore_Exists(t *testing.T) {
	store, dir := newStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	tt := []struct {
		Name string
		Path string
		Want bool
	}{
		{Name: "regular file", Path: "a.txt", Want: true},
		{Name: "missing file", Path: "b.txt", Want: false},
		{Name: "directory", Path: "sub", Want: false},
		{Name: "empty name", Path: "", Want: false},
	}

	for _, tc := range tt {
		t.Run(tc.Name, func(t *testing.T) {
			got, err := store.Exists(context.Background(), tc.Path)
			assert.NoError(t, err)
			assert.Equal(t, tc.Want, got)
		})
	}
}

func TestStore_Create_CommitWritesFile(t *testing.T) {
	store, dir := newStore(t)

	w, err := store.Create(context.Background(), "new.txt")
	require.NoError(t, err)
	assert.Equal(t, int64(0), w.Size())

	_, err = w.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, w.Commit())

	data, err := os.ReadFile(filepath.Join(dir, "new.txt"))
	assert.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)
	assert.NoError(t, w.Close(), "close after commit is a no-op")
}

func TestStore_Create_ReportsExistingSize(t *testing.T) {
	store, dir := newStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "old.txt"), []byte("abc"), 0o644))

	w, err := store.Create(context.Background(), "old.txt")
	require.NoError(t, err)
	assert.Equal(t, int64(3), w.Size())
	require.NoError(t, w.Close())

	data, err := os.ReadFile(filepath.Join(dir, "old.txt"))
	assert.NoError(t, err)
	assert.Equal(t, []byte("abc"), data, "discarded write leaves content untouched")
}

func TestStore_Create_CloseDiscardsTempFile(t *testing.T) {
	store, dir := newStore(t)

	w, err := store.Create(context.Background(), "gone.txt")
	require.NoError(t, err)
	_, err = w.Write([]byte("partial"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStore_Remove(t *testing.T) {
	store, dir := newStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0o644))

	assert.NoError(t, store.Remove(context.Background(), "a.txt"))
	assert.ErrorIs(t, store.Remove(context.Background(), "a.txt"), tinyweb.ErrNotFound)
}

func TestStore_ListAndUsage(t *testing.T) {
	store, dir := newStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("aaaa"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.png"), []byte("bb"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".tpending"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	entries, err := store.List(context.Background())
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	assert.ElementsMatch(t, []string{"a.txt", "b.png"}, names)

	usage, err := store.Usage(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1024), usage.Total)
	assert.Equal(t, int64(6), usage.Used)
	assert.Equal(t, int64(1018), usage.Free())
}

func TestStore_List_Empty(t *testing.T) {
	store, _ := newStore(t)

	entries, err := store.List(context.Background())
	assert.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestStore_Open_RejectsEscape(t *testing.T) {
	store, _ := newStore(t)

	_, err := store.Open(context.Background(), "../outside.txt")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, tinyweb.ErrNotFound)
}
