package tinyweb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"
)

const (
	// DefaultReadTimeout bounds the request header read.
	DefaultReadTimeout = 500 * time.Millisecond
	// DefaultFileChunkSize is the buffer used to stream files.
	DefaultFileChunkSize = 128
	// DefaultMaxRequestLine caps the retained request line.
	DefaultMaxRequestLine = 512
	// DefaultMaxBodySize caps the body handed to API callbacks.
	DefaultMaxBodySize = 4096
)

// Config holds the engine settings. Zero values select the defaults.
type Config struct {
	ReadTimeout    time.Duration
	FileChunkSize  int
	MaxRequestLine int
	MaxBodySize    int

	// Logger receives the engine diagnostics (default: slog.Default()).
	Logger *slog.Logger
	// Clock returns the current time (default: time.Now).
	Clock func() time.Time
	// Yield hands control back to the scheduler while the header read waits
	// for bytes (default: runtime.Gosched).
	Yield func()
}

// WithDefaults returns a copy of c with zero fields set to their defaults.
func (c Config) WithDefaults() Config {
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = DefaultReadTimeout
	}
	if c.FileChunkSize <= 0 {
		c.FileChunkSize = DefaultFileChunkSize
	}
	if c.MaxRequestLine <= 0 {
		c.MaxRequestLine = DefaultMaxRequestLine
	}
	if c.MaxBodySize <= 0 {
		c.MaxBodySize = DefaultMaxBodySize
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.Clock == nil {
		c.Clock = time.Now
	}
	if c.Yield == nil {
		c.Yield = runtime.Gosched
	}
	return c
}

// request is the per-connection state. It is reset after every close.
type request struct {
	header      []byte
	line        RequestLine
	method      Method
	errState    ErrorState
	errReported bool
}

// Engine services one HTTP connection at a time, one step per Advance call.
// It is not safe for concurrent use; a single loop owns it.
type Engine struct {
	listener Listener
	storage  Storage
	routes   RouteTable
	cfg      Config
	log      *slog.Logger
	serving  bool

	conn  Conn
	step  processStep
	req   request
	chunk []byte
	body  []byte
}

// NewEngine creates an Engine reading connections from listener and serving
// the /file routes from storage.
func NewEngine(listener Listener, storage Storage, cfg Config) (*Engine, error) {
	if listener == nil {
		return nil, errors.New("new engine: listener is required")
	}
	if storage == nil {
		return nil, errors.New("new engine: storage is required")
	}

	cfg = cfg.WithDefaults()
	e := &Engine{
		listener: listener,
		storage:  storage,
		cfg:      cfg,
		log:      cfg.Logger,
		step:     awaitClient{},
		chunk:    make([]byte, cfg.FileChunkSize),
		body:     make([]byte, 0, cfg.MaxBodySize),
	}
	e.req.header = make([]byte, 0, cfg.MaxRequestLine)
	return e, nil
}

// SetGetHandlers registers the GET API routes.
func (e *Engine) SetGetHandlers(routes ...Route) error {
	return e.setHandlers(MethodGet, routes)
}

// SetPutHandlers registers the PUT API routes.
func (e *Engine) SetPutHandlers(routes ...Route) error {
	return e.setHandlers(MethodPut, routes)
}

// SetPostHandlers registers the POST API routes.
func (e *Engine) SetPostHandlers(routes ...Route) error {
	return e.setHandlers(MethodPost, routes)
}

// SetDeleteHandlers registers the DELETE API routes.
func (e *Engine) SetDeleteHandlers(routes ...Route) error {
	return e.setHandlers(MethodDelete, routes)
}

func (e *Engine) setHandlers(method Method, routes []Route) error {
	if e.serving {
		return fmt.Errorf("set %s handlers: %w", method, ErrRoutesLocked)
	}
	e.routes.Set(method, routes...)
	return nil
}

// Routes returns the registered route table.
func (e *Engine) Routes() *RouteTable {
	return &e.routes
}

// Busy reports whether a connection is attached.
func (e *Engine) Busy() bool {
	return e.conn != nil
}

// Advance performs one unit of work:
//   - idle: try to accept a connection without blocking
//   - error pending: run the error handler
//   - otherwise: move the cursor one step and run that step's action
//
// It returns whether a connection is still attached afterwards. The first
// call locks the route table.
func (e *Engine) Advance(ctx context.Context) bool {
	e.serving = true

	switch {
	case e.req.errState != StateNone:
		e.handleError()
	case e.conn == nil:
		e.accept()
	default:
		e.step = transition(e.step, &e.req)
		e.execute(ctx)
	}

	return e.conn != nil
}

// Serve calls Advance until ctx is done. idle, when non-nil, runs after every
// call that leaves no connection attached. A connection still attached on
// cancellation is closed before Serve returns ctx.Err().
func (e *Engine) Serve(ctx context.Context, idle func()) error {
	for ctx.Err() == nil {
		if !e.Advance(ctx) && idle != nil {
			idle()
		}
	}

	if e.conn != nil {
		e.log.Info("shutting down with client attached", "remote", e.conn.RemoteAddr())
		e.closeConn()
		e.reset()
	}
	return ctx.Err()
}

func (e *Engine) accept() {
	conn, ok := e.listener.Accept()
	if !ok {
		return
	}
	e.conn = conn
	e.step = awaitClient{}
}

func (e *Engine) execute(ctx context.Context) {
	switch s := e.step.(type) {
	case readHeader:
		e.log.Info("client connected", "remote", e.conn.RemoteAddr())
		e.readRequestHeader(ctx)

	case parseHeader:
		e.log.Debug("got request", "line", string(e.req.header))
		e.parseRequestHeader()

	case selectMethod:
		e.log.Debug("request parameters",
			"method", e.req.line.Method,
			"path", e.req.line.Path,
			"proto", e.req.line.Proto,
		)
		e.selectRequestMethod()

	case processRequest:
		e.route(ctx, s.method)

	case endRequest:
		e.log.Info("graceful disconnect", "method", s.method, "path", e.req.line.Path)
		e.closeConn()
		e.reset()

	default:
		e.log.Error("process step out of bounds, disconnecting client", "step", fmt.Sprintf("%v", s))
		e.closeConn()
		e.reset()
	}
}

func (e *Engine) parseRequestHeader() {
	line, err := ParseRequestLine(string(e.req.header))
	if err != nil {
		e.log.Debug("rejecting request", "err", err)
		e.req.errState = StateBadRequest
		return
	}
	e.req.line = line
}

func (e *Engine) closeConn() {
	if e.conn == nil {
		return
	}
	if err := e.conn.Close(); err != nil {
		e.log.Warn("failed to close connection", "err", err)
	}
	e.conn = nil
}

// reset clears every per-request field and rewinds the cursor.
func (e *Engine) reset() {
	e.req = request{header: e.req.header[:0]}
	e.body = e.body[:0]
	e.step = awaitClient{}
}
