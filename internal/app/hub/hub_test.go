package hub

import (
	"context"
	"sync"
	"time"

	"msghub/internal/app/store"
	"msghub/internal/pkg/randx"
)

// fakeConn is an in-memory Conn recording every delivered payload.
type fakeConn struct {
	id string

	mu       sync.Mutex
	payloads [][]byte
	open     bool
	failSend bool
}

func newFakeConn() *fakeConn {
	return &fakeConn{id: randx.SessionID(), open: true}
}

func (c *fakeConn) ID() string { return c.id }

func (c *fakeConn) Send(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.open {
		return ErrConnClosed
	}
	if c.failSend {
		return ErrSendBufferFull
	}

	buf := make([]byte, len(payload))
	copy(buf, payload)
	c.payloads = append(c.payloads, buf)
	return nil
}

func (c *fakeConn) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

func (c *fakeConn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open = false
}

func (c *fakeConn) received() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([][]byte, len(c.payloads))
	copy(out, c.payloads)
	return out
}

// fakeStore is an in-memory MessageStore counting saves.
type fakeStore struct {
	mu       sync.Mutex
	saved    [][]byte
	failSave error
}

func (s *fakeStore) Save(ctx context.Context, body []byte) (store.StoredMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failSave != nil {
		return store.StoredMessage{}, s.failSave
	}

	buf := make([]byte, len(body))
	copy(buf, body)
	s.saved = append(s.saved, buf)

	return store.StoredMessage{
		ID:        randx.MessageID(),
		Body:      buf,
		CreatedAt: time.Now(),
	}, nil
}

func (s *fakeStore) ListSince(ctx context.Context, since time.Time) ([]store.StoredMessage, error) {
	return nil, nil
}

func (s *fakeStore) saveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.saved)
}

// newTestHub wires a registry, engine, router, and fake store for hub tests.
func newTestHub() (*Registry, *Engine, *Router, *fakeStore) {
	registry := NewRegistry()
	engine := NewEngine(registry)
	st := &fakeStore{}
	router := NewRouter(registry, engine, st)
	return registry, engine, router, st
}
