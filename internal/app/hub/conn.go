/*
Package hub contains the core logic of the real-time broadcast hub: connection
tracking, inbound frame routing, and message fan-out.

This file defines the Conn interface, the hub's view of one live duplex connection.
The registry and broadcast engine depend only on this contract, never on the
underlying transport.
*/
package hub

import "errors"

var (
	// ErrConnClosed is returned by Send when the connection has been closed.
	// Writing to a closed connection is a no-op, never a fatal condition.
	ErrConnClosed = errors.New("connection is closed")

	// ErrSendBufferFull is returned by Send when the outbound queue is full.
	// The payload is dropped for this connection rather than stalling the hub.
	ErrSendBufferFull = errors.New("send buffer is full")
)

// Conn is one live duplex connection as seen by the hub.
type Conn interface {
	// ID returns the opaque identifier assigned to the connection,
	// stable for the connection's lifetime.
	ID() string

	// Send queues one payload for delivery. It never blocks: a closed
	// connection yields ErrConnClosed and a full outbound queue yields
	// ErrSendBufferFull.
	Send(payload []byte) error

	// IsOpen reports whether the connection is still usable.
	IsOpen() bool

	// Close tears down the connection. It is idempotent.
	Close()
}
