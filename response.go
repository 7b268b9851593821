package tinyweb

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// responseWriter writes a response onto the connection and keeps the first
// write error so callers can frame a response without checking every call.
type responseWriter struct {
	w   io.Writer
	log *slog.Logger
	err error
}

func (e *Engine) newResponseWriter() *responseWriter {
	return &responseWriter{w: e.conn, log: e.log}
}

func (rw *responseWriter) printf(format string, args ...any) {
	if rw.err != nil {
		return
	}
	_, rw.err = fmt.Fprintf(rw.w, format, args...)
}

func (rw *responseWriter) writeString(s string) {
	if rw.err != nil {
		return
	}
	_, rw.err = io.WriteString(rw.w, s)
}

func (rw *responseWriter) write(p []byte) {
	if rw.err != nil || len(p) == 0 {
		return
	}
	_, rw.err = rw.w.Write(p)
}

// done logs a write failure. The client has most likely gone away, so the
// request still ends normally.
func (rw *responseWriter) done() {
	if rw.err != nil {
		rw.log.Warn("failed to write response", "err", rw.err)
	}
}

// drainClient discards unread request bytes.
func (e *Engine) drainClient() {
	for e.conn.Connected() && e.conn.Available() > 0 {
		if _, err := e.conn.ReadByte(); err != nil {
			return
		}
	}
}

// readAvailable fills buf with bytes that can be read without blocking and
// returns how many were read.
func (e *Engine) readAvailable(buf []byte) int {
	n := 0
	for n < len(buf) && e.conn.Available() > 0 {
		b, err := e.conn.ReadByte()
		if err != nil {
			break
		}
		buf[n] = b
		n++
	}
	return n
}

// readBody collects the pending request bytes up to MaxBodySize. Anything
// beyond the limit is dropped.
func (e *Engine) readBody() []byte {
	body := e.body[:0]
	dropped := 0
	for e.conn.Available() > 0 {
		b, err := e.conn.ReadByte()
		if err != nil {
			break
		}
		if len(body) == cap(body) {
			dropped++
			continue
		}
		body = append(body, b)
	}
	if dropped > 0 {
		e.log.Warn("request body truncated", "limit", cap(body), "dropped", dropped)
	}
	e.body = body
	return body
}

// serveAPI hands the pending body to h and writes its response. An error in
// the response is handed to the error handler instead.
func (e *Engine) serveAPI(ctx context.Context, h HandlerFunc) {
	if h == nil {
		e.req.errState = StateNotFound
		return
	}

	body := e.readBody()
	e.log.Debug("call handler", "path", e.req.line.Path, "body_bytes", len(body))

	resp, ok := e.callHandler(ctx, h, body)
	if !ok {
		e.req.errState = StateInternalServerError
		return
	}

	if resp.Error != StateNone {
		e.req.errState = resp.Error
		return
	}

	switch resp.Type {
	case ResponseEmpty, ResponseJSON, ResponseText:
	default:
		e.log.Error("response type out of bounds", "type", uint8(resp.Type))
		e.req.errState = StateInternalServerError
		return
	}

	e.drainClient()
	rw := e.newResponseWriter()
	rw.writeString("HTTP/1.1 200 OK\r\n")
	if resp.Type == ResponseEmpty {
		rw.writeString("Connection: Closed\r\n\r\n")
		rw.done()
		return
	}
	rw.printf("Content-Type: %s\r\nContent-Length: %d\r\n\r\n", resp.Type.ContentType(), len(resp.Body))
	rw.write(resp.Body)
	rw.done()
}

// callHandler runs h and reports a panic as a failed call.
func (e *Engine) callHandler(ctx context.Context, h HandlerFunc, body []byte) (resp Response, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("handler panicked", "path", e.req.line.Path, "panic", r)
			ok = false
		}
	}()
	return h(ctx, body), true
}

// handleError runs while an error is pending. The first call writes the
// mapped status line once; the next call closes the connection and resets.
func (e *Engine) handleError() {
	if e.req.errReported {
		if e.conn != nil {
			e.log.Info("disconnecting client", "error", e.req.errState.String())
		}
		e.closeConn()
		e.reset()
		return
	}

	state := e.req.errState
	switch status := state.StatusLine(); {
	case state == StateReadTimeout:
		e.log.Info("read timeout", "remote", e.remoteAddr())
	case status != "":
		e.writeError(status)
		e.log.Info("returned error", "status", status, "path", e.req.line.Path)
	default:
		e.log.Error("error state out of bounds", "state", uint8(state))
	}
	e.req.errReported = true
}

func (e *Engine) writeError(status string) {
	if e.conn == nil {
		return
	}
	e.drainClient()
	rw := e.newResponseWriter()
	rw.printf("HTTP/1.1 %s\r\nConnection: Closed\r\n\r\n", status)
	rw.done()
}

func (e *Engine) remoteAddr() string {
	if e.conn == nil {
		return ""
	}
	return e.conn.RemoteAddr()
}
