/*
Package store provides the durable message log backing the broadcast hub.

This file defines the MessageStore interface, the thin persistence contract the hub
depends on. The hub calls Save synchronously per message; failures are reported back
as errors and never terminate the calling connection.
*/
package store

import (
	"context"
	"encoding/json"
	"time"
)

// StoredMessage is the persisted record of one chat frame.
type StoredMessage struct {
	// ID is the UUID primary key assigned at save time.
	ID string `json:"id"`

	// Body is the raw JSON frame exactly as it arrived on the wire.
	Body json.RawMessage `json:"body"`

	// CreatedAt is the server-side persistence timestamp.
	CreatedAt time.Time `json:"createdAt"`
}

// MessageStore defines the persistence contract for chat frames.
type MessageStore interface {
	// Save persists one raw frame and returns the stored record.
	Save(ctx context.Context, body []byte) (StoredMessage, error)

	// ListSince returns all messages stored strictly after the given instant,
	// ordered by creation time. Used by the transcript archiver.
	ListSince(ctx context.Context, since time.Time) ([]StoredMessage, error)
}
