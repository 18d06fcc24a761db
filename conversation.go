package chatbot

import "context"

// ConversationStore persists chat exchanges. The log is append-only: turns
// are never updated or deleted.
type ConversationStore interface {
	// Append stores one exchange. The turn's speaker must carry exactly one
	// identity (user XOR session).
	Append(ctx context.Context, turn ConversationTurn) error

	// History returns up to limit turns for the speaker, oldest first.
	History(ctx context.Context, speaker Speaker, limit int) ([]ConversationTurn, error)
}
