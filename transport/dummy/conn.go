// Package dummy provides scripted transport implementations and a manual
// clock for driving a tinyweb.Engine in tests.
package dummy

import (
	"bytes"
	"errors"
	"io"
	"net"
	"time"

	"github.com/sagarc03/tinyweb"
)

var _ tinyweb.Conn = (*Conn)(nil)

// Conn replays scripted request bytes and records everything written to it.
type Conn struct {
	in        []byte
	pos       int
	out       bytes.Buffer
	hungUp    bool
	closed    bool
	closes    int
	remote    string
	discarded bool
}

// NewConn returns a connection whose peer has sent request.
func NewConn(request string) *Conn {
	return &Conn{in: []byte(request), remote: "192.0.2.1:40000"}
}

// Feed appends bytes as if the peer had sent more data.
func (c *Conn) Feed(data string) *Conn {
	c.in = append(c.in, data...)
	return c
}

// WithoutJournal makes Write drop bytes instead of recording them.
func (c *Conn) WithoutJournal() *Conn {
	c.discarded = true
	return c
}

// HangUp simulates the peer disconnecting. Unread bytes stay readable.
func (c *Conn) HangUp() *Conn {
	c.hungUp = true
	return c
}

// Written returns everything the engine wrote.
func (c *Conn) Written() string {
	return c.out.String()
}

// Closed reports whether Close was called.
func (c *Conn) Closed() bool {
	return c.closed
}

// CloseCount returns how many times Close was called.
func (c *Conn) CloseCount() int {
	return c.closes
}

// Unread returns the number of scripted bytes the engine has not consumed.
func (c *Conn) Unread() int {
	return len(c.in) - c.pos
}

func (c *Conn) Available() int {
	if c.closed {
		return 0
	}
	return len(c.in) - c.pos
}

func (c *Conn) Connected() bool {
	if c.closed {
		return false
	}
	return !c.hungUp || c.pos < len(c.in)
}

func (c *Conn) ReadByte() (byte, error) {
	if c.closed {
		return 0, net.ErrClosed
	}
	if c.pos >= len(c.in) {
		return 0, io.EOF
	}
	b := c.in[c.pos]
	c.pos++
	return b, nil
}

func (c *Conn) ReadString(delim byte) (string, error) {
	if c.closed {
		return "", net.ErrClosed
	}
	if c.pos >= len(c.in) {
		return "", io.EOF
	}
	rest := c.in[c.pos:]
	n := len(rest)
	if i := bytes.IndexByte(rest, delim); i >= 0 {
		n = i + 1
	}
	c.pos += n
	return string(rest[:n]), nil
}

func (c *Conn) Write(p []byte) (int, error) {
	if c.closed {
		return 0, errors.New("dummy: write on closed connection")
	}
	if !c.discarded {
		c.out.Write(p)
	}
	return len(p), nil
}

func (c *Conn) Close() error {
	c.closed = true
	c.closes++
	return nil
}

func (c *Conn) RemoteAddr() string {
	return c.remote
}

// Listener hands out queued connections in order.
type Listener struct {
	pending []*Conn
}

var _ tinyweb.Listener = (*Listener)(nil)

// NewListener returns a listener with conns waiting to be accepted.
func NewListener(conns ...*Conn) *Listener {
	return &Listener{pending: conns}
}

// Push queues another connection.
func (l *Listener) Push(c *Conn) {
	l.pending = append(l.pending, c)
}

// Pending returns the number of connections not yet accepted.
func (l *Listener) Pending() int {
	return len(l.pending)
}

func (l *Listener) Accept() (tinyweb.Conn, bool) {
	if len(l.pending) == 0 {
		return nil, false
	}
	c := l.pending[0]
	l.pending = l.pending[1:]
	return c, true
}

// Clock is a manually advanced clock.
type Clock struct {
	now time.Time
}

// NewClock returns a clock starting at a fixed instant.
func NewClock() *Clock {
	return &Clock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

// Now returns the current fake time.
func (c *Clock) Now() time.Time {
	return c.now
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

// Ticker returns a yield function that advances the clock by d on every call.
func (c *Clock) Ticker(d time.Duration) func() {
	return func() { c.Advance(d) }
}
