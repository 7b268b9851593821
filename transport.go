package tinyweb

import "io"

// Listener hands out client connections without blocking.
type Listener interface {
	// Accept returns the next pending connection, or false when none is
	// waiting. It must never block.
	Accept() (Conn, bool)
}

// Conn is the byte-level connection the engine drives. Implementations must
// keep Available and Connected non-blocking; ReadByte and ReadString are only
// called after Available reported pending bytes.
type Conn interface {
	io.Writer
	io.ByteReader
	io.Closer

	// Available returns the number of bytes that can be read without blocking.
	Available() int
	// Connected reports whether the peer is still attached or unread bytes remain.
	Connected() bool
	// ReadString reads until delim is found, the buffered bytes run out or
	// the implementation's own short timeout elapses. The result includes delim
	// when it was found.
	ReadString(delim byte) (string, error)
	// RemoteAddr returns the peer address for logging.
	RemoteAddr() string
}
