package e2e_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sagarc03/tinyweb"
	"github.com/sagarc03/tinyweb/clientcli"
	"github.com/sagarc03/tinyweb/database"
	"github.com/sagarc03/tinyweb/transport/tcp"
)

// deviceCapacity is the storage size every test device reports.
const deviceCapacity = 4096

// device is an engine serving a real TCP socket from a background loop.
type device struct {
	addr   string
	client *clientcli.Client
}

// openStorage opens a storage backend through the same path the server uses.
func openStorage(t *testing.T, cfg database.Config) tinyweb.Storage {
	t.Helper()

	cfg.Capacity = deviceCapacity
	storage, cleanup, err := database.Open(context.Background(), cfg)
	require.NoError(t, err, "open %s storage", cfg.Type)
	t.Cleanup(cleanup)

	return storage
}

// startDevice serves storage on a loopback port until the test ends.
func startDevice(t *testing.T, storage tinyweb.Storage) *device {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if os.Getenv("TINYWEB_E2E_VERBOSE") != "" {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	listener, err := tcp.Listen("127.0.0.1:0",
		tcp.WithPollWait(10*time.Millisecond),
		tcp.WithLogger(logger),
	)
	require.NoError(t, err, "listen")

	engine, err := tinyweb.NewEngine(listener, storage, tinyweb.Config{
		ReadTimeout: 2 * time.Second,
		Logger:      logger,
	})
	require.NoError(t, err, "new engine")
	registerDeviceRoutes(t, engine)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- engine.Serve(ctx, nil)
	}()

	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			if !errors.Is(err, context.Canceled) {
				t.Errorf("serve returned %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Error("engine did not stop")
		}
		_ = listener.Close()
	})

	addr := listener.Addr().String()
	client, err := clientcli.New(&clientcli.Config{Endpoint: "http://" + addr})
	require.NoError(t, err, "new client")

	return &device{addr: addr, client: client}
}

// registerDeviceRoutes installs the API routes the suites call.
func registerDeviceRoutes(t *testing.T, engine *tinyweb.Engine) {
	t.Helper()

	var led bool

	require.NoError(t, engine.SetGetHandlers(
		tinyweb.Route{Path: "status", Handler: func(context.Context, []byte) tinyweb.Response {
			if led {
				return tinyweb.JSON([]byte(`{"led":true}`))
			}
			return tinyweb.JSON([]byte(`{"led":false}`))
		}},
		tinyweb.Route{Path: "panic", Handler: func(context.Context, []byte) tinyweb.Response {
			panic("handler bug")
		}},
	))
	require.NoError(t, engine.SetPostHandlers(
		tinyweb.Route{Path: "echo", Handler: func(_ context.Context, body []byte) tinyweb.Response {
			return tinyweb.Text(string(body))
		}},
	))
	require.NoError(t, engine.SetPutHandlers(
		tinyweb.Route{Path: "led", Handler: func(_ context.Context, body []byte) tinyweb.Response {
			switch string(body) {
			case "on":
				led = true
			case "off":
				led = false
			default:
				return tinyweb.Fail(tinyweb.StateNotAcceptable)
			}
			return tinyweb.Empty()
		}},
	))
	require.NoError(t, engine.SetDeleteHandlers(
		tinyweb.Route{Path: "led", Handler: func(context.Context, []byte) tinyweb.Response {
			led = false
			return tinyweb.Empty()
		}},
	))
}

// rawRequest writes raw bytes to the device and returns everything it sends
// back before closing the connection.
func rawRequest(t *testing.T, addr, raw string) string {
	t.Helper()

	conn, err := net.DialTimeout("tcp", addr, 2*time.Second)
	require.NoError(t, err, "dial device")
	defer func() { _ = conn.Close() }()

	require.NoError(t, conn.SetDeadline(time.Now().Add(5*time.Second)))
	_, err = io.WriteString(conn, raw)
	require.NoError(t, err, "write request")

	resp, err := io.ReadAll(conn)
	require.NoError(t, err, "read response")
	return string(resp)
}

// statusLine returns the first line of a raw response.
func statusLine(resp string) string {
	line, _, _ := strings.Cut(resp, "\r\n")
	return line
}
