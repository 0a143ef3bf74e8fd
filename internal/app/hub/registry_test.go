package hub

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryRegisterIsIdempotent(t *testing.T) {
	registry := NewRegistry()
	conn := newFakeConn()

	registry.Register(conn)
	registry.Register(conn)

	assert.Equal(t, 1, registry.Len())
}

func TestRegistryResolveReturnsRegisteredConn(t *testing.T) {
	registry := NewRegistry()
	conn := newFakeConn()
	registry.Register(conn)

	resolved, ok := registry.Resolve(conn.ID())
	require.True(t, ok)
	assert.Equal(t, conn.ID(), resolved.ID())

	_, ok = registry.Resolve("no-such-session")
	assert.False(t, ok)
}

func TestRegistryUnauthenticatedSessionsStayOutOfRoster(t *testing.T) {
	registry := NewRegistry()
	joined := newFakeConn()
	anonymous := newFakeConn()

	registry.Register(joined)
	registry.Register(anonymous)
	registry.Join(joined.ID(), "alice")

	roster := registry.Snapshot()
	require.Len(t, roster, 1)
	assert.Equal(t, "alice", roster[0].Username)
	assert.Equal(t, joined.ID(), roster[0].Session)
}

func TestRegistrySnapshotKeepsInsertionOrder(t *testing.T) {
	registry := NewRegistry()

	conns := []*fakeConn{newFakeConn(), newFakeConn(), newFakeConn()}
	names := []string{"alice", "bob", "carol"}

	for i, conn := range conns {
		registry.Register(conn)
		registry.Join(conn.ID(), names[i])
	}

	roster := registry.Snapshot()
	require.Len(t, roster, 3)
	for i, entry := range roster {
		assert.Equal(t, names[i], entry.Username)
	}
}

func TestRegistryJoinAppearsOnceRegardlessOfActivity(t *testing.T) {
	registry := NewRegistry()
	conn := newFakeConn()
	registry.Register(conn)
	registry.Join(conn.ID(), "alice")

	// Re-joining or chatting must not duplicate the roster entry.
	registry.Join(conn.ID(), "alice")

	roster := registry.Snapshot()
	require.Len(t, roster, 1)
	assert.Equal(t, "alice", roster[0].Username)
}

func TestRegistryJoinBeforeRegisterDoesNotCrash(t *testing.T) {
	registry := NewRegistry()

	registry.Join("early-session", "eve")

	roster := registry.Snapshot()
	require.Len(t, roster, 1)
	assert.Equal(t, "eve", roster[0].Username)

	// No live connection was ever attached, so resolution must fail.
	_, ok := registry.Resolve("early-session")
	assert.False(t, ok)
}

func TestRegistryRegisterAttachesConnToEarlyJoin(t *testing.T) {
	registry := NewRegistry()
	conn := newFakeConn()

	registry.Join(conn.ID(), "eve")
	registry.Register(conn)

	resolved, ok := registry.Resolve(conn.ID())
	require.True(t, ok)
	assert.Equal(t, conn.ID(), resolved.ID())
	assert.Equal(t, 1, registry.Len())
}

func TestRegistryRemoveReportsJoinedState(t *testing.T) {
	registry := NewRegistry()
	joined := newFakeConn()
	anonymous := newFakeConn()

	registry.Register(joined)
	registry.Register(anonymous)
	registry.Join(joined.ID(), "bob")

	username, wasJoined := registry.Remove(joined.ID())
	assert.True(t, wasJoined)
	assert.Equal(t, "bob", username)

	_, wasJoined = registry.Remove(anonymous.ID())
	assert.False(t, wasJoined)

	_, wasJoined = registry.Remove("no-such-session")
	assert.False(t, wasJoined)

	assert.Equal(t, 0, registry.Len())
	assert.Empty(t, registry.Snapshot())
}

func TestRegistryRemoveDropsFromRosterAndFanOut(t *testing.T) {
	registry := NewRegistry()
	staying := newFakeConn()
	leaving := newFakeConn()

	registry.Register(staying)
	registry.Register(leaving)
	registry.Join(staying.ID(), "alice")
	registry.Join(leaving.ID(), "bob")

	registry.Remove(leaving.ID())

	roster := registry.Snapshot()
	require.Len(t, roster, 1)
	assert.Equal(t, "alice", roster[0].Username)

	conns := registry.Conns()
	require.Len(t, conns, 1)
	assert.Equal(t, staying.ID(), conns[0].ID())
}
