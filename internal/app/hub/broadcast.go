/*
Package hub contains the core logic of the real-time broadcast hub: connection
tracking, inbound frame routing, and message fan-out.

This file defines the Engine struct, which delivers outbound payloads to one,
many, or all live connections. Targets are snapshotted under the registry lock;
every send happens outside it, so one slow connection never blocks another.
*/
package hub

import (
	"encoding/json"

	"github.com/rs/zerolog"

	"msghub/internal/pkg/logx"
)

// Engine fans payloads out to the registry's live connections.
type Engine struct {
	registry *Registry
	logger   zerolog.Logger
}

// NewEngine constructs an Engine bound to the given registry.
func NewEngine(registry *Registry) *Engine {
	return &Engine{
		registry: registry,
		logger:   logx.Logger().With().Str("component", "broadcast").Logger(),
	}
}

// BroadcastAll delivers the payload to every connection currently known to be
// open. A connection that fails mid-broadcast is skipped for this round; the
// close-detection path removes it from the registry, not the engine.
func (e *Engine) BroadcastAll(payload []byte) {
	for _, conn := range e.registry.Conns() {
		if err := conn.Send(payload); err != nil {
			e.logger.Warn().
				Err(err).
				Str("session_id", conn.ID()).
				Msg("Skipping connection during broadcast.")
		}
	}
}

// DeliverTo delivers the payload to a single connection. An absent or closed
// target makes this a logged no-op.
func (e *Engine) DeliverTo(connID string, payload []byte) {
	conn, ok := e.registry.Resolve(connID)
	if !ok {
		e.logger.Warn().
			Str("session_id", connID).
			Msg("Delivery target not found.")
		return
	}

	if err := conn.Send(payload); err != nil {
		e.logger.Warn().
			Err(err).
			Str("session_id", connID).
			Msg("Failed to deliver payload to target.")
	}
}

// NotifyPresence broadcasts a USERS event announcing that the named user
// joined or left, carrying the full current roster.
func (e *Engine) NotifyPresence(kind PresenceKind, username string) {
	event := NewPresenceEvent(kind, username, e.registry.Snapshot())

	payload, err := json.Marshal(event)
	if err != nil {
		e.logger.Error().
			Err(err).
			Str("username", username).
			Msg("Failed to marshal presence event.")
		return
	}

	e.BroadcastAll(payload)
}
