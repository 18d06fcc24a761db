package conversation

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	chatbot "github.com/comerzia/chatbot"
)

func TestMemoryStoreAppendAndHistory(t *testing.T) {
	ctx := context.Background()

	t.Run("history comes back oldest first", func(t *testing.T) {
		store := NewMemoryStore()
		speaker := chatbot.UserSpeaker("42")

		for i := 0; i < 3; i++ {
			err := store.Append(ctx, chatbot.ConversationTurn{
				ID:          fmt.Sprintf("t%d", i),
				Speaker:     speaker,
				UserMessage: fmt.Sprintf("mensaje %d", i),
				Timestamp:   time.Now(),
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}

		turns, err := store.History(ctx, speaker, 10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(turns) != 3 {
			t.Fatalf("expected 3 turns, got %d", len(turns))
		}
		for i, turn := range turns {
			if turn.ID != fmt.Sprintf("t%d", i) {
				t.Errorf("turn %d out of order: %s", i, turn.ID)
			}
		}
	})

	t.Run("limit keeps the most recent turns", func(t *testing.T) {
		store := NewMemoryStore()
		speaker := chatbot.SessionSpeaker("abc")

		for i := 0; i < 5; i++ {
			store.Append(ctx, chatbot.ConversationTurn{
				ID:      fmt.Sprintf("t%d", i),
				Speaker: speaker,
			})
		}

		turns, err := store.History(ctx, speaker, 2)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(turns) != 2 {
			t.Fatalf("expected 2 turns, got %d", len(turns))
		}
		if turns[0].ID != "t3" || turns[1].ID != "t4" {
			t.Errorf("expected the two most recent turns in order, got: %v", turns)
		}
	})

	t.Run("user and session conversations are separate", func(t *testing.T) {
		store := NewMemoryStore()

		store.Append(ctx, chatbot.ConversationTurn{ID: "u", Speaker: chatbot.UserSpeaker("x")})
		store.Append(ctx, chatbot.ConversationTurn{ID: "s", Speaker: chatbot.SessionSpeaker("x")})

		turns, err := store.History(ctx, chatbot.UserSpeaker("x"), 10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(turns) != 1 || turns[0].ID != "u" {
			t.Errorf("expected only the user's turns, got: %v", turns)
		}
	})

	t.Run("rejects a zero speaker", func(t *testing.T) {
		store := NewMemoryStore()

		err := store.Append(ctx, chatbot.ConversationTurn{ID: "t"})
		if !errors.Is(err, chatbot.ErrInvalidSpeaker) {
			t.Fatalf("expected ErrInvalidSpeaker, got: %v", err)
		}

		if _, err := store.History(ctx, chatbot.Speaker{}, 10); !errors.Is(err, chatbot.ErrInvalidSpeaker) {
			t.Fatalf("expected ErrInvalidSpeaker, got: %v", err)
		}
	})
}
