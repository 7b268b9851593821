package tinyweb_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/tinyweb"
	"github.com/sagarc03/tinyweb/filesystem"
	"github.com/sagarc03/tinyweb/transport/dummy"
)

// maxAdvances bounds every driven request so a stuck engine fails the test.
const maxAdvances = 64

type testServer struct {
	engine   *tinyweb.Engine
	listener *dummy.Listener
	clock    *dummy.Clock
	storage  tinyweb.Storage
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newFileStorage(t *testing.T) *filesystem.Store {
	t.Helper()
	root, err := os.OpenRoot(t.TempDir())
	require.NoError(t, err, "open root")
	t.Cleanup(func() { _ = root.Close() })
	return filesystem.NewFileStorage(root, 1<<20)
}

// newTestServer builds an engine over a dummy listener and a fake clock that
// moves 10ms on every yield. A nil storage selects a temp-dir file store.
func newTestServer(t *testing.T, storage tinyweb.Storage, opts ...func(*tinyweb.Config)) *testServer {
	t.Helper()

	if storage == nil {
		storage = newFileStorage(t)
	}

	clock := dummy.NewClock()
	listener := dummy.NewListener()
	cfg := tinyweb.Config{
		Logger: discardLogger(),
		Clock:  clock.Now,
		Yield:  clock.Ticker(10 * time.Millisecond),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	engine, err := tinyweb.NewEngine(listener, storage, cfg)
	require.NoError(t, err, "new engine")

	return &testServer{engine: engine, listener: listener, clock: clock, storage: storage}
}

// do queues conn and advances the engine until the connection is released.
// It returns the number of Advance calls made.
func (s *testServer) do(t *testing.T, conn *dummy.Conn) int {
	t.Helper()
	s.listener.Push(conn)

	ctx := context.Background()
	require.True(t, s.engine.Advance(ctx), "connection should be accepted")
	for i := 2; i <= maxAdvances; i++ {
		if !s.engine.Advance(ctx) {
			return i
		}
	}
	t.Fatalf("engine still busy after %d advances", maxAdvances)
	return 0
}

func (s *testServer) request(t *testing.T, raw string) *dummy.Conn {
	t.Helper()
	conn := dummy.NewConn(raw).HangUp()
	s.do(t, conn)
	return conn
}

func (s *testServer) putFile(t *testing.T, name, content string) {
	t.Helper()
	w, err := s.storage.Create(context.Background(), name)
	require.NoError(t, err)
	_, err = io.WriteString(w, content)
	require.NoError(t, err)
	require.NoError(t, w.Commit())
}

func statusLine(written string) string {
	line, _, _ := strings.Cut(written, "\r\n")
	return line
}

func splitResponse(written string) (head, body string) {
	head, body, _ = strings.Cut(written, "\r\n\r\n")
	return head, body
}

type SpyStorage struct {
	mock.Mock
}

func (s *SpyStorage) Exists(ctx context.Context, name string) (bool, error) {
	args := s.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (s *SpyStorage) Open(ctx context.Context, name string) (tinyweb.File, error) {
	args := s.Called(ctx, name)
	f, _ := args.Get(0).(tinyweb.File)
	return f, args.Error(1)
}

func (s *SpyStorage) Create(ctx context.Context, name string) (tinyweb.WritableFile, error) {
	args := s.Called(ctx, name)
	f, _ := args.Get(0).(tinyweb.WritableFile)
	return f, args.Error(1)
}

func (s *SpyStorage) Remove(ctx context.Context, name string) error {
	args := s.Called(ctx, name)
	return args.Error(0)
}

func (s *SpyStorage) List(ctx context.Context) ([]tinyweb.FileEntry, error) {
	args := s.Called(ctx)
	entries, _ := args.Get(0).([]tinyweb.FileEntry)
	return entries, args.Error(1)
}

func (s *SpyStorage) Usage(ctx context.Context) (tinyweb.Usage, error) {
	args := s.Called(ctx)
	return args.Get(0).(tinyweb.Usage), args.Error(1)
}

// shortFile reports a larger size than it can deliver.
type shortFile struct {
	io.Reader
	size int64
}

func (f *shortFile) Size() int64  { return f.size }
func (f *shortFile) Close() error { return nil }
