// Package tcp adapts net.TCPListener to the non-blocking tinyweb transport.
//
// Accept and Available poll the socket with a short deadline instead of
// blocking, so an Engine driven from a single loop never stalls on the network.
package tcp

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"time"

	"github.com/sagarc03/tinyweb"
)

const (
	// DefaultPollWait is how long Accept and Available wait for the socket.
	DefaultPollWait = time.Millisecond
	// DefaultWriteTimeout bounds a single response write.
	DefaultWriteTimeout = 5 * time.Second
	// DefaultBufferSize is the per-connection read buffer.
	DefaultBufferSize = 1024
)

// Option configures a Listener.
type Option func(*Listener)

// WithPollWait sets how long Accept and Available wait for the socket.
func WithPollWait(d time.Duration) Option {
	return func(l *Listener) {
		l.pollWait = d
	}
}

// WithWriteTimeout sets the deadline applied to each write.
func WithWriteTimeout(d time.Duration) Option {
	return func(l *Listener) {
		l.writeTimeout = d
	}
}

// WithLogger sets the logger used for accept failures.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Listener) {
		l.log = logger
	}
}

// Listener accepts TCP connections without blocking.
type Listener struct {
	ln           *net.TCPListener
	pollWait     time.Duration
	writeTimeout time.Duration
	log          *slog.Logger
}

var _ tinyweb.Listener = (*Listener)(nil)

// Listen opens a TCP listener on addr.
func Listen(addr string, opts ...Option) (*Listener, error) {
	tcpAddr, err := net.ResolveTCPAddr("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen: resolve %s: %w", addr, err)
	}

	ln, err := net.ListenTCP("tcp", tcpAddr)
	if err != nil {
		return nil, fmt.Errorf("listen: %w", err)
	}

	l := &Listener{
		ln:           ln,
		pollWait:     DefaultPollWait,
		writeTimeout: DefaultWriteTimeout,
		log:          slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Addr returns the bound address.
func (l *Listener) Addr() net.Addr {
	return l.ln.Addr()
}

// Close stops listening.
func (l *Listener) Close() error {
	return l.ln.Close()
}

// Accept returns a pending connection, waiting at most the poll interval.
func (l *Listener) Accept() (tinyweb.Conn, bool) {
	if err := l.ln.SetDeadline(time.Now().Add(l.pollWait)); err != nil {
		l.log.Warn("failed to set accept deadline", "err", err)
		return nil, false
	}

	conn, err := l.ln.AcceptTCP()
	if err != nil {
		if !errors.Is(err, os.ErrDeadlineExceeded) {
			l.log.Warn("accept failed", "err", err)
		}
		return nil, false
	}

	return &Conn{
		c:            conn,
		r:            bufio.NewReaderSize(conn, DefaultBufferSize),
		pollWait:     l.pollWait,
		writeTimeout: l.writeTimeout,
	}, true
}

// Conn is an accepted TCP connection.
type Conn struct {
	c            *net.TCPConn
	r            *bufio.Reader
	eof          bool
	pollWait     time.Duration
	writeTimeout time.Duration
}

var _ tinyweb.Conn = (*Conn)(nil)

// Available returns the buffered byte count, polling the socket briefly when
// the buffer is empty.
func (c *Conn) Available() int {
	if n := c.r.Buffered(); n > 0 || c.eof {
		return n
	}

	if err := c.c.SetReadDeadline(time.Now().Add(c.pollWait)); err != nil {
		c.eof = true
		return 0
	}
	if _, err := c.r.Peek(1); err != nil && !errors.Is(err, os.ErrDeadlineExceeded) {
		c.eof = true
	}
	return c.r.Buffered()
}

// Connected reports whether the peer is attached or buffered bytes remain.
func (c *Conn) Connected() bool {
	return c.r.Buffered() > 0 || !c.eof
}

// ReadByte reads one byte. Call it only after Available reported data.
func (c *Conn) ReadByte() (byte, error) {
	if c.r.Buffered() == 0 && c.Available() == 0 {
		return 0, errors.New("tcp: no data available")
	}
	return c.r.ReadByte()
}

// ReadString returns buffered bytes up to and including delim, or all
// buffered bytes when delim is not among them. It never touches the socket.
func (c *Conn) ReadString(delim byte) (string, error) {
	n := c.r.Buffered()
	if n == 0 {
		return "", errors.New("tcp: no data available")
	}

	buf, err := c.r.Peek(n)
	if err != nil {
		return "", err
	}
	if i := bytes.IndexByte(buf, delim); i >= 0 {
		n = i + 1
	}

	s := string(buf[:n])
	if _, err := c.r.Discard(n); err != nil {
		return "", err
	}
	return s, nil
}

func (c *Conn) Write(p []byte) (int, error) {
	if err := c.c.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
		return 0, err
	}
	return c.c.Write(p)
}

// Close closes the socket.
func (c *Conn) Close() error {
	return c.c.Close()
}

func (c *Conn) RemoteAddr() string {
	return c.c.RemoteAddr().String()
}
