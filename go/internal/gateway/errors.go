package gateway

import "errors"

var (
	// ErrNotReady is returned by Send before the handshake completed or after
	// the socket went away.
	ErrNotReady = errors.New("connection not ready")
	// ErrClosed is returned when the connection has no live socket.
	ErrClosed = errors.New("connection closed")
	// ErrSendBufferFull is returned when the write pump cannot keep up.
	ErrSendBufferFull = errors.New("send buffer full")
)
