package chatbot

import (
	"context"
	"errors"
	"testing"
)

// stubStore is a hand-rolled ConversationStore for tests.
type stubStore struct {
	turns      []ConversationTurn
	appendErr  error
	historyErr error
}

func (s *stubStore) Append(ctx context.Context, turn ConversationTurn) error {
	if s.appendErr != nil {
		return s.appendErr
	}
	s.turns = append(s.turns, turn)
	return nil
}

func (s *stubStore) History(ctx context.Context, speaker Speaker, limit int) ([]ConversationTurn, error) {
	if s.historyErr != nil {
		return nil, s.historyErr
	}
	var out []ConversationTurn
	for _, turn := range s.turns {
		if turn.Speaker == speaker {
			out = append(out, turn)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func echoGenerate(ctx context.Context, message string, history []ConversationTurn) string {
	return "respuesta: " + message
}

func TestChatService(t *testing.T) {
	ctx := context.Background()

	t.Run("processes and persists an exchange", func(t *testing.T) {
		store := &stubStore{}
		process := NewChatService(echoGenerate, store, testLogger())

		result, err := process(ctx, ChatRequest{Message: "hola", Speaker: UserSpeaker("42")})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.BotResponse != "respuesta: hola" {
			t.Errorf("unexpected response: %s", result.BotResponse)
		}
		if result.UserMessage != "hola" {
			t.Errorf("unexpected echoed message: %s", result.UserMessage)
		}
		if result.Timestamp.IsZero() {
			t.Error("expected a timestamp")
		}

		if len(store.turns) != 1 {
			t.Fatalf("expected one persisted turn, got %d", len(store.turns))
		}
		turn := store.turns[0]
		if turn.ID == "" {
			t.Error("expected a turn ID")
		}
		if turn.Speaker != UserSpeaker("42") {
			t.Errorf("unexpected speaker: %v", turn.Speaker.Key())
		}
	})

	t.Run("rejects an empty message", func(t *testing.T) {
		process := NewChatService(echoGenerate, &stubStore{}, testLogger())

		_, err := process(ctx, ChatRequest{Speaker: UserSpeaker("42")})
		if !errors.Is(err, ErrEmptyMessage) {
			t.Fatalf("expected ErrEmptyMessage, got: %v", err)
		}
	})

	t.Run("rejects a zero speaker", func(t *testing.T) {
		process := NewChatService(echoGenerate, &stubStore{}, testLogger())

		_, err := process(ctx, ChatRequest{Message: "hola"})
		if !errors.Is(err, ErrInvalidSpeaker) {
			t.Fatalf("expected ErrInvalidSpeaker, got: %v", err)
		}
	})

	t.Run("feeds recent history to the generator", func(t *testing.T) {
		speaker := SessionSpeaker("abc")
		store := &stubStore{turns: []ConversationTurn{
			{ID: "t1", Speaker: speaker, UserMessage: "hola", BotResponse: "¡Hola!"},
			{ID: "t2", Speaker: UserSpeaker("other"), UserMessage: "x", BotResponse: "y"},
		}}

		var seen []ConversationTurn
		generate := func(ctx context.Context, message string, history []ConversationTurn) string {
			seen = history
			return "ok"
		}
		process := NewChatService(generate, store, testLogger())

		if _, err := process(ctx, ChatRequest{Message: "sigo aquí", Speaker: speaker}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(seen) != 1 || seen[0].ID != "t1" {
			t.Errorf("expected only the speaker's own history, got: %v", seen)
		}
	})

	t.Run("answers without context when history loading fails", func(t *testing.T) {
		store := &stubStore{historyErr: errors.New("database down")}
		process := NewChatService(echoGenerate, store, testLogger())

		result, err := process(ctx, ChatRequest{Message: "hola", Speaker: UserSpeaker("42")})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.BotResponse == "" {
			t.Error("expected an answer despite history failure")
		}
	})

	t.Run("returns the answer even when persisting fails", func(t *testing.T) {
		store := &stubStore{appendErr: errors.New("database down")}
		process := NewChatService(echoGenerate, store, testLogger())

		result, err := process(ctx, ChatRequest{Message: "hola", Speaker: UserSpeaker("42")})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.BotResponse != "respuesta: hola" {
			t.Errorf("unexpected response: %s", result.BotResponse)
		}
	})
}

func TestSpeaker(t *testing.T) {
	t.Run("keys are disjoint between users and sessions", func(t *testing.T) {
		if UserSpeaker("x").Key() == SessionSpeaker("x").Key() {
			t.Error("user and session speakers with the same value must not collide")
		}
	})

	t.Run("zero speaker", func(t *testing.T) {
		var s Speaker
		if !s.IsZero() {
			t.Error("expected zero speaker")
		}
		if UserSpeaker("42").IsZero() {
			t.Error("user speaker must not be zero")
		}
	})

	t.Run("identity accessors", func(t *testing.T) {
		id, ok := UserSpeaker("42").UserID()
		if !ok || id != "42" {
			t.Errorf("unexpected user id: %q, %v", id, ok)
		}
		if _, ok := UserSpeaker("42").SessionToken(); ok {
			t.Error("user speaker must not carry a session token")
		}
	})
}
