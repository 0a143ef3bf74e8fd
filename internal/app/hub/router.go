/*
Package hub contains the core logic of the real-time broadcast hub: connection
tracking, inbound frame routing, and message fan-out.

This file defines the Router struct, which classifies inbound frames and drives
persistence and fan-out. Every failure is contained to the frame or connection
that caused it; nothing here ever terminates the hub.
*/
package hub

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"msghub/internal/app/store"
	"msghub/internal/pkg/logx"
)

// saveTimeout bounds one synchronous store call. The registry lock is never
// held while a save is in flight.
const saveTimeout = 5 * time.Second

// Router decodes inbound frames and dispatches them to the store and the
// broadcast engine.
type Router struct {
	registry *Registry
	engine   *Engine
	store    store.MessageStore
	logger   zerolog.Logger
}

// NewRouter constructs a Router over the given registry, engine, and store.
func NewRouter(registry *Registry, engine *Engine, messageStore store.MessageStore) *Router {
	return &Router{
		registry: registry,
		engine:   engine,
		store:    messageStore,
		logger:   logx.Logger().With().Str("component", "router").Logger(),
	}
}

// HandleOpen registers a freshly accepted connection as an unauthenticated session.
func (rt *Router) HandleOpen(conn Conn) {
	rt.registry.Register(conn)

	rt.logger.Info().
		Str("session_id", conn.ID()).
		Int("total_sessions", rt.registry.Len()).
		Msg("Connection registered.")
}

// HandleFrame processes one raw inbound frame from the named connection.
func (rt *Router) HandleFrame(connID string, raw []byte) {
	frame, err := DecodeFrame(raw)
	if err != nil {
		rt.logger.Warn().
			Err(err).
			Str("session_id", connID).
			Bytes("frame_bytes", raw).
			Msg("Dropping malformed frame.")
		return
	}

	switch frame.Type {
	case FrameJoin:
		rt.handleJoin(connID, frame)

	case FrameMessage:
		rt.handleMessage(connID, frame)

	case FramePrivateMessage:
		rt.handlePrivateMessage(connID, frame)

	default:
		rt.logger.Warn().
			Str("session_id", connID).
			Str("frame_type", string(frame.Type)).
			Msg("Dropping frame with unknown type.")
	}
}

// HandleClose removes the connection's session and, if it had joined,
// broadcasts a "left" presence event built from the updated roster.
func (rt *Router) HandleClose(connID string) {
	username, joined := rt.registry.Remove(connID)

	rt.logger.Info().
		Str("session_id", connID).
		Str("username", username).
		Int("total_sessions", rt.registry.Len()).
		Msg("Connection removed.")

	if joined {
		rt.engine.NotifyPresence(PresenceLeft, username)
	}
}

// handleJoin binds the username to the session and announces the join.
// A join without a username is malformed and dropped.
func (rt *Router) handleJoin(connID string, frame Frame) {
	username := strings.TrimSpace(frame.Username)
	if username == "" {
		rt.logger.Warn().
			Str("session_id", connID).
			Msg("Dropping JOIN frame without username.")
		return
	}

	rt.registry.Join(connID, username)
	rt.engine.NotifyPresence(PresenceJoined, username)
}

// handleMessage persists a public chat frame and rebroadcasts the original
// payload to every open connection. Delivery proceeds even when persistence
// fails; live chat availability takes priority over durability.
func (rt *Router) handleMessage(connID string, frame Frame) {
	rt.persist(connID, frame.Raw)
	rt.engine.BroadcastAll(frame.Raw)
}

// handlePrivateMessage resolves the target session, persists the frame, and
// forwards it verbatim to the target only. An unresolved target is a logged
// drop; no error is surfaced to the sender.
func (rt *Router) handlePrivateMessage(connID string, frame Frame) {
	if frame.ToSession == "" {
		rt.logger.Warn().
			Str("session_id", connID).
			Msg("Dropping PRIVATE_MESSAGE frame without toSession.")
		return
	}

	if _, ok := rt.registry.Resolve(frame.ToSession); !ok {
		rt.logger.Warn().
			Str("session_id", connID).
			Str("target_session_id", frame.ToSession).
			Msg("Private message recipient not found.")
		return
	}

	rt.persist(connID, frame.Raw)
	rt.engine.DeliverTo(frame.ToSession, frame.Raw)
}

// persist saves one raw frame synchronously. A storage failure is logged as a
// persistence gap and delivery continues; it never terminates the connection.
func (rt *Router) persist(connID string, raw []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	if _, err := rt.store.Save(ctx, raw); err != nil {
		rt.logger.Error().
			Err(err).
			Str("session_id", connID).
			Msg("Message not persisted; continuing with delivery.")
	}
}
