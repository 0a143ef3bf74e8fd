/*
Package hub contains the core logic of the real-time broadcast hub: connection
tracking, inbound frame routing, and message fan-out.

This file defines the Registry struct, which owns the mapping from connection
identifier to presence state. All mutation and snapshotting is serialized so
presence notifications are never built from a torn intermediate state.
*/
package hub

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"msghub/internal/pkg/logx"
)

// RosterEntry is one (session, username) pair in a presence snapshot.
type RosterEntry struct {
	Session  string `json:"session"`
	Username string `json:"username"`
}

// session is the registry's record for one connection.
type session struct {
	// conn is the live connection, nil when a join arrived before registration.
	conn Conn

	// username is empty until a join frame binds one.
	username string

	joinedAt time.Time
}

// Registry tracks every open connection and its presence state.
type Registry struct {
	// mu serializes all access to sessions and order.
	mu sync.RWMutex

	// sessions maps connection identifier to its session record.
	sessions map[string]*session

	// order records connection identifiers in insertion order for roster snapshots.
	order []string

	logger zerolog.Logger
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*session),
		logger:   logx.Logger().With().Str("component", "registry").Logger(),
	}
}

// Register inserts an unauthenticated session for the connection.
// Registering an already-known connection is a no-op.
func (r *Registry) Register(conn Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := conn.ID()
	if existing, ok := r.sessions[id]; ok {
		// A join may have arrived before registration; attach the connection.
		if existing.conn == nil {
			existing.conn = conn
		}
		return
	}

	r.sessions[id] = &session{conn: conn}
	r.order = append(r.order, id)
}

// Join binds a username to the connection's session. If the connection was
// never registered the session is created on the spot; out-of-order events
// must not crash the registry.
func (r *Registry) Join(connID string, username string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[connID]
	if !ok {
		s = &session{}
		r.sessions[connID] = s
		r.order = append(r.order, connID)
	}

	s.username = username
	s.joinedAt = time.Now()
}

// Remove deletes the connection's session and returns the username that was
// bound to it, if any. The boolean result is true only when the session had
// joined, which is what decides whether a "left" notification is warranted.
func (r *Registry) Remove(connID string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[connID]
	if !ok {
		return "", false
	}

	delete(r.sessions, connID)
	for i, id := range r.order {
		if id == connID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	return s.username, s.username != ""
}

// Resolve looks up the live connection for targeted delivery.
func (r *Registry) Resolve(connID string) (Conn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[connID]
	if !ok || s.conn == nil {
		return nil, false
	}
	return s.conn, true
}

// Snapshot returns the current roster in insertion order. Only joined
// sessions appear; unauthenticated connections never show up in presence
// broadcasts.
func (r *Registry) Snapshot() []RosterEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	roster := make([]RosterEntry, 0, len(r.order))
	for _, id := range r.order {
		s := r.sessions[id]
		if s.username == "" {
			continue
		}
		roster = append(roster, RosterEntry{Session: id, Username: s.username})
	}
	return roster
}

// Conns returns every live connection currently registered, joined or not.
// The returned slice is a snapshot; callers fan out without holding the lock.
func (r *Registry) Conns() []Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conns := make([]Conn, 0, len(r.order))
	for _, id := range r.order {
		if s := r.sessions[id]; s.conn != nil {
			conns = append(conns, s.conn)
		}
	}
	return conns
}

// Len returns the number of registered sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.sessions)
}
