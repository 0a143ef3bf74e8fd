package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"msghub/internal/app/hub"
	"msghub/internal/app/store"
	"msghub/internal/configs"
	"msghub/internal/pkg/errs"
	"msghub/internal/pkg/randx"
	"msghub/internal/pkg/resp"
)

// memStore is an in-memory MessageStore for handler tests.
type memStore struct {
	mu      sync.Mutex
	saved   []store.StoredMessage
	failure error
}

func (s *memStore) Save(ctx context.Context, body []byte) (store.StoredMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failure != nil {
		return store.StoredMessage{}, s.failure
	}

	buf := make([]byte, len(body))
	copy(buf, body)

	msg := store.StoredMessage{
		ID:        randx.MessageID(),
		Body:      buf,
		CreatedAt: time.Now(),
	}
	s.saved = append(s.saved, msg)
	return msg, nil
}

func (s *memStore) ListSince(ctx context.Context, since time.Time) ([]store.StoredMessage, error) {
	return nil, nil
}

func (s *memStore) saveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.saved)
}

func newTestDeps(st store.MessageStore) *AppDeps {
	registry := hub.NewRegistry()
	engine := hub.NewEngine(registry)

	return &AppDeps{
		Router: hub.NewRouter(registry, engine, st),
		Store:  st,
		Config: &configs.AppConfig{
			Environment:    "development",
			Port:           8080,
			AllowedOrigins: []string{},
		},
	}
}

func postSend(t *testing.T, handlerFunc http.HandlerFunc, contentType string, body string) (*httptest.ResponseRecorder, resp.JSONResponse) {
	t.Helper()

	r := httptest.NewRequest(http.MethodPost, "/api/send", strings.NewReader(body))
	r.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	handlerFunc(w, r)

	var decoded resp.JSONResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))
	return w, decoded
}

func TestHandleSendMessagePersistsAndReturnsRecord(t *testing.T) {
	st := &memStore{}
	deps := newTestDeps(st)

	w, decoded := postSend(t, HandleSendMessage(deps), "application/json", `{"content":"hello there"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, decoded.Code)

	data, ok := decoded.Data.(map[string]any)
	require.True(t, ok)
	assert.NotEmpty(t, data["id"])
	assert.Equal(t, "hello there", data["content"])

	require.Equal(t, 1, st.saveCount())
	assert.Contains(t, string(st.saved[0].Body), `"type":"MESSAGE"`)
}

func TestHandleSendMessageRejectsEmptyContent(t *testing.T) {
	deps := newTestDeps(&memStore{})

	_, decoded := postSend(t, HandleSendMessage(deps), "application/json", `{"content":"   "}`)

	assert.Equal(t, errs.ErrMessageEmpty, decoded.Code)
}

func TestHandleSendMessageRejectsOversizedContent(t *testing.T) {
	st := &memStore{}
	deps := newTestDeps(st)

	body := `{"content":"` + strings.Repeat("a", MaxContentBytes+1) + `"}`
	_, decoded := postSend(t, HandleSendMessage(deps), "application/json", body)

	assert.Equal(t, errs.ErrMessageContentTooLong, decoded.Code)
	assert.Equal(t, 0, st.saveCount())
}

func TestHandleSendMessageRejectsWrongContentType(t *testing.T) {
	deps := newTestDeps(&memStore{})

	_, decoded := postSend(t, HandleSendMessage(deps), "text/plain", `{"content":"hi"}`)

	assert.Equal(t, errs.ErrUnsupportedMediaType, decoded.Code)
}

func TestHandleSendMessageReportsStoreFailure(t *testing.T) {
	st := &memStore{failure: errors.New("database unavailable")}
	deps := newTestDeps(st)

	w, decoded := postSend(t, HandleSendMessage(deps), "application/json", `{"content":"hi"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, errs.ErrMessageStoreFailed, decoded.Code)
}
