// Package postgres implements the conversation store against PostgreSQL.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	chatbot "github.com/comerzia/chatbot"
)

// Store persists conversation turns in PostgreSQL.
type Store struct {
	pool      *pgxpool.Pool
	tableName string
}

// Option configures the store.
type Option func(*Store)

// WithTableName sets a custom table name.
func WithTableName(name string) Option {
	return func(s *Store) {
		s.tableName = name
	}
}

// New creates a new PostgreSQL conversation store.
func New(pool *pgxpool.Pool, opts ...Option) *Store {
	s := &Store{
		pool:      pool,
		tableName: "conversation_turns",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Schema returns the DDL for the backing table.
func (s *Store) Schema() string {
	return fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id UUID PRIMARY KEY,
			user_id TEXT,
			session_token TEXT,
			user_message TEXT NOT NULL,
			bot_response TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			CHECK ((user_id IS NULL) <> (session_token IS NULL))
		)
	`, s.tableName)
}

// Append stores one exchange.
func (s *Store) Append(ctx context.Context, turn chatbot.ConversationTurn) error {
	if turn.Speaker.IsZero() {
		return chatbot.ErrInvalidSpeaker
	}

	var userID, sessionToken *string
	if id, ok := turn.Speaker.UserID(); ok {
		userID = &id
	} else if token, ok := turn.Speaker.SessionToken(); ok {
		sessionToken = &token
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, user_id, session_token, user_message, bot_response, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, s.tableName)

	_, err := s.pool.Exec(ctx, query,
		turn.ID, userID, sessionToken, turn.UserMessage, turn.BotResponse, turn.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("appending conversation turn: %w", err)
	}
	return nil
}

// History returns up to limit turns for the speaker, oldest first. The inner
// query selects the most recent turns; the outer one restores chronological
// order.
func (s *Store) History(ctx context.Context, speaker chatbot.Speaker, limit int) ([]chatbot.ConversationTurn, error) {
	if speaker.IsZero() {
		return nil, chatbot.ErrInvalidSpeaker
	}

	column := "session_token"
	key, isUser := speaker.UserID()
	if isUser {
		column = "user_id"
	} else {
		key, _ = speaker.SessionToken()
	}

	query := fmt.Sprintf(`
		SELECT id, user_message, bot_response, created_at FROM (
			SELECT id, user_message, bot_response, created_at
			FROM %s
			WHERE %s = $1
			ORDER BY created_at DESC
			LIMIT $2
		) recent
		ORDER BY created_at ASC
	`, s.tableName, column)

	rows, err := s.pool.Query(ctx, query, key, limit)
	if err != nil {
		return nil, fmt.Errorf("querying conversation history: %w", err)
	}
	defer rows.Close()

	var out []chatbot.ConversationTurn
	for rows.Next() {
		turn := chatbot.ConversationTurn{Speaker: speaker}
		if err := rows.Scan(&turn.ID, &turn.UserMessage, &turn.BotResponse, &turn.Timestamp); err != nil {
			return nil, fmt.Errorf("scanning conversation turn: %w", err)
		}
		out = append(out, turn)
	}
	return out, rows.Err()
}
