package tinyweb

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubConn is a connection that never has data.
type stubConn struct {
	closes int
}

func (c *stubConn) Write(p []byte) (int, error)     { return len(p), nil }
func (c *stubConn) ReadByte() (byte, error)         { return 0, os.ErrDeadlineExceeded }
func (c *stubConn) ReadString(byte) (string, error) { return "", os.ErrDeadlineExceeded }
func (c *stubConn) Available() int                  { return 0 }
func (c *stubConn) Connected() bool                 { return c.closes == 0 }
func (c *stubConn) RemoteAddr() string              { return "stub" }

func (c *stubConn) Close() error {
	c.closes++
	return nil
}

type stubListener struct {
	conns []Conn
}

func (l *stubListener) Accept() (Conn, bool) {
	if len(l.conns) == 0 {
		return nil, false
	}
	c := l.conns[0]
	l.conns = l.conns[1:]
	return c, true
}

type noStorage struct{ Storage }

// corruptStep is a step value the engine does not know.
type corruptStep struct{}

func (corruptStep) String() string { return "corrupt" }
func (corruptStep) isProcessStep() {}

func TestTransition(t *testing.T) {
	req := &request{method: MethodPut}

	var steps []processStep
	for s := processStep(awaitClient{}); s != nil; s = transition(s, req) {
		steps = append(steps, s)
	}

	assert.Equal(t, []processStep{
		awaitClient{},
		readHeader{},
		parseHeader{},
		selectMethod{},
		processRequest{method: MethodPut},
		endRequest{method: MethodPut},
	}, steps)

	assert.Nil(t, transition(corruptStep{}, req))
	assert.Nil(t, transition(nil, req))
}

func newInternalEngine(t *testing.T, logs *bytes.Buffer) (*Engine, *stubConn) {
	t.Helper()
	conn := &stubConn{}
	e, err := NewEngine(&stubListener{conns: []Conn{conn}}, noStorage{}, Config{
		Logger: slog.New(slog.NewTextHandler(logs, nil)),
	})
	require.NoError(t, err)
	return e, conn
}

func TestEngine_UnreachableStep(t *testing.T) {
	tests := []struct {
		Name string
		Step processStep
	}{
		{Name: "past terminal step", Step: endRequest{method: MethodGet}},
		{Name: "unknown step", Step: corruptStep{}},
		{Name: "nil step", Step: nil},
	}

	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			var logs bytes.Buffer
			e, conn := newInternalEngine(t, &logs)
			ctx := context.Background()

			require.True(t, e.Advance(ctx))
			e.req.errState = StateNone
			e.req.line = RequestLine{Method: "GET", Path: "/x", Proto: "HTTP/1.1"}
			e.req.header = append(e.req.header, "GET /x HTTP/1.1"...)
			e.step = tt.Step

			assert.False(t, e.Advance(ctx), "connection is dropped")
			assert.Equal(t, 1, conn.closes)
			assert.Contains(t, logs.String(), "process step out of bounds")

			assert.Equal(t, awaitClient{}, e.step)
			assert.Empty(t, e.req.header)
			assert.Equal(t, RequestLine{}, e.req.line)
			assert.False(t, e.Busy())

			assert.False(t, e.Advance(ctx), "engine stays serviceable while idle")
		})
	}
}

func TestEngine_ResetKeepsBuffers(t *testing.T) {
	var logs bytes.Buffer
	e, _ := newInternalEngine(t, &logs)

	e.req.header = append(e.req.header, "GET / HTTP/1.1"...)
	e.req.errState = StateNotFound
	e.req.errReported = true
	e.body = append(e.body, "abc"...)

	e.reset()

	assert.Equal(t, request{header: e.req.header}, e.req)
	assert.Empty(t, e.req.header)
	assert.Equal(t, DefaultMaxRequestLine, cap(e.req.header))
	assert.Empty(t, e.body)
	assert.Equal(t, DefaultMaxBodySize, cap(e.body))
}
