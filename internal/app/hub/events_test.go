package hub

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeFrameClassifiesByType(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantType FrameType
	}{
		{"join", `{"type":"JOIN","username":"alice"}`, FrameJoin},
		{"message", `{"type":"MESSAGE","content":"hi"}`, FrameMessage},
		{"private", `{"type":"PRIVATE_MESSAGE","toSession":"abc","content":"psst"}`, FramePrivateMessage},
		{"unknown kind survives decode", `{"type":"BOGUS"}`, FrameType("BOGUS")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame, err := DecodeFrame([]byte(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, frame.Type)
			assert.Equal(t, []byte(tt.raw), frame.Raw)
		})
	}
}

func TestDecodeFrameExtractsFields(t *testing.T) {
	frame, err := DecodeFrame([]byte(`{"type":"PRIVATE_MESSAGE","toSession":"s-42","username":"ignored"}`))
	require.NoError(t, err)
	assert.Equal(t, "s-42", frame.ToSession)

	frame, err = DecodeFrame([]byte(`{"type":"JOIN","username":"alice"}`))
	require.NoError(t, err)
	assert.Equal(t, "alice", frame.Username)
}

func TestDecodeFrameRejectsMalformedInput(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"invalid json", `{"type":`},
		{"not an object", `"JOIN"`},
		{"missing type", `{"username":"alice"}`},
		{"empty type", `{"type":""}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeFrame([]byte(tt.raw))
			assert.Error(t, err)
		})
	}
}

func TestNewPresenceEventDescribesChange(t *testing.T) {
	roster := []RosterEntry{{Session: "s-1", Username: "alice"}}

	joined := NewPresenceEvent(PresenceJoined, "alice", roster)
	assert.Equal(t, FrameUsers, joined.Type)
	assert.Equal(t, "User alice joined the chat.", joined.Message)
	assert.Equal(t, roster, joined.Users)

	left := NewPresenceEvent(PresenceLeft, "bob", roster)
	assert.Equal(t, "User bob left the chat.", left.Message)
}

func TestNewPresenceEventEmptyRosterMarshalsAsArray(t *testing.T) {
	event := NewPresenceEvent(PresenceLeft, "bob", nil)

	payload, err := json.Marshal(event)
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"users":[]`)
}
