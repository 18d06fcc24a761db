// Package conversation provides an in-memory conversation store, used in
// tests and single-binary demos.
package conversation

import (
	"context"
	"sync"

	chatbot "github.com/comerzia/chatbot"
)

// MemoryStore is an in-memory conversation store.
type MemoryStore struct {
	mu    sync.RWMutex
	turns map[string][]chatbot.ConversationTurn
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		turns: make(map[string][]chatbot.ConversationTurn),
	}
}

// Append stores one exchange.
func (s *MemoryStore) Append(ctx context.Context, turn chatbot.ConversationTurn) error {
	if turn.Speaker.IsZero() {
		return chatbot.ErrInvalidSpeaker
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := turn.Speaker.Key()
	s.turns[key] = append(s.turns[key], turn)
	return nil
}

// History returns up to limit turns for the speaker, oldest first. Turns are
// appended in chronological order, so no re-sorting is needed.
func (s *MemoryStore) History(ctx context.Context, speaker chatbot.Speaker, limit int) ([]chatbot.ConversationTurn, error) {
	if speaker.IsZero() {
		return nil, chatbot.ErrInvalidSpeaker
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	turns := s.turns[speaker.Key()]
	if limit > 0 && len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}

	return append([]chatbot.ConversationTurn(nil), turns...), nil
}
