/*
Package store provides the durable message log backing the broadcast hub.

This file contains the PostgreSQL implementation of MessageStore, built on a pgx
connection pool. Messages are stored as raw JSONB so the byte-for-byte frame survives
a round trip through the database.
*/
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"msghub/internal/pkg/randx"
)

// PostgresStore implements MessageStore on top of a pgx connection pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore constructs a PostgresStore using the given pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Save inserts one raw frame into the messages table and returns the stored record.
func (s *PostgresStore) Save(ctx context.Context, body []byte) (StoredMessage, error) {
	msg := StoredMessage{
		ID:   randx.MessageID(),
		Body: json.RawMessage(body),
	}

	row := s.pool.QueryRow(ctx,
		`INSERT INTO messages (id, body) VALUES ($1, $2) RETURNING created_at`,
		msg.ID, msg.Body,
	)

	if err := row.Scan(&msg.CreatedAt); err != nil {
		return StoredMessage{}, fmt.Errorf("failed to insert message: %w", err)
	}

	return msg, nil
}

// ListSince returns all messages stored strictly after the given instant, oldest first.
func (s *PostgresStore) ListSince(ctx context.Context, since time.Time) ([]StoredMessage, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, body, created_at FROM messages WHERE created_at > $1 ORDER BY created_at`,
		since,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var messages []StoredMessage
	for rows.Next() {
		var msg StoredMessage
		if err := rows.Scan(&msg.ID, &msg.Body, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message row: %w", err)
		}
		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read message rows: %w", err)
	}

	return messages, nil
}
