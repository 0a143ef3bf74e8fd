/*
Package hub contains the core logic of the real-time broadcast hub: connection
tracking, inbound frame routing, and message fan-out.

This file defines the wire protocol: the frame envelope with its type
discriminator, the decode step, and the server-generated USERS presence event.
*/
package hub

import (
	"encoding/json"
	"errors"
	"fmt"
)

// FrameType is the "type" discriminator carried by every wire frame.
type FrameType string

const (
	// FrameJoin binds a username to the sending connection.
	FrameJoin FrameType = "JOIN"

	// FrameMessage is a public chat message, rebroadcast verbatim to everyone.
	FrameMessage FrameType = "MESSAGE"

	// FramePrivateMessage is a chat message forwarded verbatim to one session.
	FramePrivateMessage FrameType = "PRIVATE_MESSAGE"

	// FrameUsers is the server-generated presence event. Never received.
	FrameUsers FrameType = "USERS"
)

// Frame is the decoded view of one inbound wire frame. Raw preserves the
// original bytes so persisted and forwarded payloads stay byte-for-byte
// identical to what arrived.
type Frame struct {
	Type      FrameType
	Username  string
	ToSession string
	Raw       []byte
}

// DecodeFrame decodes one raw frame into its typed envelope. A malformed frame
// is reported as an error value for the caller to branch on; decoding never
// panics and the connection is never terminated over it.
func DecodeFrame(raw []byte) (Frame, error) {
	var envelope struct {
		Type      FrameType `json:"type"`
		Username  string    `json:"username"`
		ToSession string    `json:"toSession"`
	}

	if err := json.Unmarshal(raw, &envelope); err != nil {
		return Frame{}, fmt.Errorf("malformed frame: %w", err)
	}

	if envelope.Type == "" {
		return Frame{}, errors.New("malformed frame: missing type discriminator")
	}

	return Frame{
		Type:      envelope.Type,
		Username:  envelope.Username,
		ToSession: envelope.ToSession,
		Raw:       raw,
	}, nil
}

// PresenceKind distinguishes the two roster changes a presence event announces.
type PresenceKind string

const (
	PresenceJoined PresenceKind = "joined"
	PresenceLeft   PresenceKind = "left"
)

// PresenceEvent is the USERS frame broadcast on every roster change.
type PresenceEvent struct {
	Type    FrameType     `json:"type"`
	Users   []RosterEntry `json:"users"`
	Message string        `json:"message"`
}

// NewPresenceEvent builds a presence event carrying the full current roster
// and a human-readable description of the change.
func NewPresenceEvent(kind PresenceKind, username string, roster []RosterEntry) PresenceEvent {
	if roster == nil {
		roster = []RosterEntry{}
	}

	return PresenceEvent{
		Type:    FrameUsers,
		Users:   roster,
		Message: fmt.Sprintf("User %s %s the chat.", username, kind),
	}
}
