/*
Package archive exports the durable message log to object storage.

This file defines the Archiver, a background loop that periodically collects
messages stored since the previous cycle and uploads them as one NDJSON
transcript object. A failed upload leaves the window in place so the same
messages are retried on the next cycle.
*/
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"msghub/internal/app/store"
	"msghub/internal/pkg/logx"
)

// Uploader abstracts the object storage write used by the Archiver.
type Uploader interface {
	// Upload writes one object under the given key.
	Upload(ctx context.Context, key string, body []byte) error
}

// Archiver drains newly stored messages into transcript objects.
type Archiver struct {
	store    store.MessageStore
	uploader Uploader
	interval time.Duration

	// lastArchived is the creation time of the newest message already exported.
	lastArchived time.Time

	logger zerolog.Logger
}

// NewArchiver constructs an Archiver. Messages stored before construction are
// not exported; the archive starts from now.
func NewArchiver(messageStore store.MessageStore, uploader Uploader, interval time.Duration) *Archiver {
	return &Archiver{
		store:        messageStore,
		uploader:     uploader,
		interval:     interval,
		lastArchived: time.Now(),
		logger:       logx.Logger().With().Str("component", "archiver").Logger(),
	}
}

// Run executes the archive loop until the context is canceled.
func (a *Archiver) Run(ctx context.Context) {
	a.logger.Info().Dur("interval", a.interval).Msg("Transcript archiver started.")

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.logger.Info().Msg("Transcript archiver stopped.")
			return

		case <-ticker.C:
			a.archiveOnce(ctx)
		}
	}
}

// archiveOnce exports one batch of messages stored since the last cycle.
func (a *Archiver) archiveOnce(ctx context.Context) {
	now := time.Now()

	messages, err := a.store.ListSince(ctx, a.lastArchived)
	if err != nil {
		a.logger.Error().Err(err).Msg("Failed to list messages for archiving.")
		return
	}

	if len(messages) == 0 {
		a.lastArchived = now
		return
	}

	body, err := encodeTranscript(messages)
	if err != nil {
		a.logger.Error().Err(err).Msg("Failed to encode transcript batch.")
		return
	}

	key := transcriptKey(now)

	if err := a.uploader.Upload(ctx, key, body); err != nil {
		a.logger.Error().
			Err(err).
			Str("key", key).
			Int("message_count", len(messages)).
			Msg("Transcript upload failed; batch will be retried next cycle.")
		return
	}

	a.lastArchived = messages[len(messages)-1].CreatedAt

	a.logger.Info().
		Str("key", key).
		Int("message_count", len(messages)).
		Msg("Transcript batch archived.")
}

// encodeTranscript serializes a batch of stored messages as NDJSON.
func encodeTranscript(messages []store.StoredMessage) ([]byte, error) {
	var buf bytes.Buffer

	encoder := json.NewEncoder(&buf)
	for _, msg := range messages {
		if err := encoder.Encode(msg); err != nil {
			return nil, fmt.Errorf("failed to encode message %s: %w", msg.ID, err)
		}
	}

	return buf.Bytes(), nil
}

// transcriptKey builds the object key for a batch uploaded at the given time.
func transcriptKey(t time.Time) string {
	return fmt.Sprintf("transcripts/%s/messages-%s.ndjson",
		t.UTC().Format("2006/01/02"),
		t.UTC().Format("150405"),
	)
}
