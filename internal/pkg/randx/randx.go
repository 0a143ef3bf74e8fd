/*
Package randx provides functions for generating unique identifiers.

It is primarily used to generate the opaque session identifiers handed to WebSocket
connections and the UUID primary keys for persisted messages.
*/
package randx

import (
	"github.com/google/uuid"
)

// SessionID generates the opaque identifier assigned to a WebSocket connection.
// The identifier is stable for the lifetime of the connection and is what peers
// use to address private messages ("toSession").
func SessionID() string {
	return uuid.New().String()
}

// MessageID generates a standard UUID v4 string to serve as a unique identifier for a stored message.
func MessageID() string {
	return uuid.New().String()
}
