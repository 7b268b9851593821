package tinyweb

import (
	"context"
	"strings"
)

// readRequestHeader consumes the header block up to the blank line that ends
// it. The first line is kept in req.header; the rest is discarded. While no
// bytes are pending it yields to the scheduler. Running past ReadTimeout or
// losing the peer sets StateReadTimeout; an oversized request line sets
// StateBadRequest.
func (e *Engine) readRequestHeader(ctx context.Context) {
	deadline := e.cfg.Clock().Add(e.cfg.ReadTimeout)

	haveRequestLine := false
	heldCR := false // a '\r' kept back until we know it does not end the line
	pending := 0    // bytes seen on the current discarded header line

	for e.conn.Connected() {
		if ctx.Err() != nil || e.cfg.Clock().After(deadline) {
			e.req.errState = StateReadTimeout
			return
		}

		if e.conn.Available() == 0 {
			e.cfg.Yield()
			continue
		}

		if !haveRequestLine {
			b, err := e.conn.ReadByte()
			if err != nil {
				e.log.Debug("header read failed", "err", err)
				break
			}

			if b == '\n' {
				// Leading empty lines before the request line are skipped.
				heldCR = false
				haveRequestLine = len(e.req.header) > 0
				continue
			}
			if heldCR && !e.appendRequestLine('\r') {
				return
			}
			heldCR = b == '\r'
			if !heldCR && !e.appendRequestLine(b) {
				return
			}
			continue
		}

		chunk, err := e.conn.ReadString('\n')
		pending += len(strings.TrimRight(chunk, "\r\n"))
		if err != nil {
			e.log.Debug("header read failed", "err", err)
			break
		}
		if !strings.HasSuffix(chunk, "\n") {
			continue
		}
		if pending == 0 {
			return
		}
		pending = 0
	}

	e.req.errState = StateReadTimeout
}

// appendRequestLine adds b to the request line, setting StateBadRequest when
// the line is already at MaxRequestLine.
func (e *Engine) appendRequestLine(b byte) bool {
	if len(e.req.header) == cap(e.req.header) {
		e.log.Warn("request line too long", "limit", cap(e.req.header))
		e.req.errState = StateBadRequest
		return false
	}
	e.req.header = append(e.req.header, b)
	return true
}
