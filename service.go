package chatbot

import (
	"context"
	"log/slog"
	"time"
)

// historyContextLimit is how many recent turns are fed to the AI adapter as
// conversational context.
const historyContextLimit = 10

// NewChatService creates the chat processing function: load recent history,
// generate an answer, persist the exchange, return the result.
func NewChatService(
	generate GenerateFn,
	store ConversationStore,
	logger *slog.Logger,
) ProcessChatFn {
	return func(ctx context.Context, req ChatRequest) (*ChatResult, error) {
		if req.Message == "" {
			return nil, NewValidationError("message cannot be empty", ErrEmptyMessage)
		}
		if req.Speaker.IsZero() {
			return nil, NewValidationError("a user id or session token is required", ErrInvalidSpeaker)
		}

		history, err := store.History(ctx, req.Speaker, historyContextLimit)
		if err != nil {
			logger.Warn("failed to load conversation history",
				slog.String("speaker", req.Speaker.Key()),
				slog.String("error", err.Error()),
			)
			// Answer without context rather than failing the exchange.
			history = nil
		}

		botResponse := generate(ctx, req.Message, history)
		timestamp := time.Now()

		turn := ConversationTurn{
			ID:          NewTurnID(),
			Speaker:     req.Speaker,
			UserMessage: req.Message,
			BotResponse: botResponse,
			Timestamp:   timestamp,
		}
		if err := store.Append(ctx, turn); err != nil {
			logger.Warn("failed to persist conversation turn",
				slog.String("speaker", req.Speaker.Key()),
				slog.String("error", err.Error()),
			)
			// Don't fail: the response is already generated.
		}

		return &ChatResult{
			UserMessage: req.Message,
			BotResponse: botResponse,
			Timestamp:   timestamp,
		}, nil
	}
}
