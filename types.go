package chatbot

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Product is a catalog product. Products are owned by the store's inventory
// system and are read-only from the chat service's perspective.
type Product struct {
	// ID uniquely identifies the product.
	ID int64 `json:"id"`

	// Name is the display name of the product.
	Name string `json:"name"`

	// Price is the product price in guaraníes.
	Price float64 `json:"price"`

	// Stock is the number of units on hand. Never negative.
	Stock int `json:"stock"`

	// CategoryID references the product's category.
	CategoryID int64 `json:"categoryId"`

	// CategoryName is the denormalized category name.
	CategoryName string `json:"category"`

	// Description is the product description.
	Description string `json:"description"`

	// Available reports whether the product can be sold.
	Available bool `json:"available"`

	// ImageURL is an optional product image.
	ImageURL string `json:"imageUrl,omitempty"`
}

// Category is a product category.
type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Speaker identifies who a conversation belongs to: an authenticated user or
// an anonymous session, never both. The zero Speaker is invalid.
type Speaker struct {
	userID       string
	sessionToken string
}

// UserSpeaker returns a Speaker for an authenticated user.
func UserSpeaker(userID string) Speaker {
	return Speaker{userID: userID}
}

// SessionSpeaker returns a Speaker for an anonymous session.
func SessionSpeaker(token string) Speaker {
	return Speaker{sessionToken: token}
}

// UserID returns the user identifier and whether this is a user speaker.
func (s Speaker) UserID() (string, bool) {
	return s.userID, s.userID != ""
}

// SessionToken returns the session token and whether this is a session speaker.
func (s Speaker) SessionToken() (string, bool) {
	return s.sessionToken, s.sessionToken != ""
}

// IsZero reports whether the speaker carries no identity at all.
func (s Speaker) IsZero() bool {
	return s.userID == "" && s.sessionToken == ""
}

// Key returns a stable storage key for the speaker.
func (s Speaker) Key() string {
	if s.userID != "" {
		return "user:" + s.userID
	}
	return "session:" + s.sessionToken
}

// ConversationTurn is one persisted chat exchange. Turns are immutable once
// created and ordered by timestamp for history replay.
type ConversationTurn struct {
	// ID uniquely identifies the turn.
	ID string `json:"id"`

	// Speaker is the user or anonymous session the turn belongs to.
	Speaker Speaker `json:"-"`

	// UserMessage is the raw user text.
	UserMessage string `json:"userMessage"`

	// BotResponse is the assistant's reply.
	BotResponse string `json:"botResponse"`

	// Timestamp is when the exchange happened.
	Timestamp time.Time `json:"timestamp"`
}

// NewTurnID generates a new conversation turn ID.
func NewTurnID() string {
	return uuid.New().String()
}

// ChatRequest is an inbound chat message.
type ChatRequest struct {
	// Message is the user's text.
	Message string

	// Speaker identifies the conversation owner.
	Speaker Speaker
}

// ChatResult is the outcome of processing one chat exchange.
type ChatResult struct {
	// UserMessage echoes the user's text.
	UserMessage string `json:"userMessage"`

	// BotResponse is the generated answer.
	BotResponse string `json:"botResponse"`

	// Timestamp is when the exchange was processed.
	Timestamp time.Time `json:"timestamp"`
}

// StockItem is one row of the stock listing.
type StockItem struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Stock   int     `json:"stock"`
	Price   float64 `json:"price"`
	Display string  `json:"display"`
}

// ProcessChatFn processes one chat exchange end to end.
type ProcessChatFn func(ctx context.Context, req ChatRequest) (*ChatResult, error)

// RespondFn produces a rule-based answer for a message. It never fails and
// never returns an empty string.
type RespondFn func(ctx context.Context, message string) string

// GenerateFn produces an answer for a message given recent conversation
// history, substituting the fallback engine's answer when the external
// text-generation service is unavailable.
type GenerateFn func(ctx context.Context, message string, history []ConversationTurn) string

// CompareFn produces a narrative comparison for a set of product
// identifiers.
type CompareFn func(ctx context.Context, productIDs []int64) (string, error)

// CompletionRequest is a provider-agnostic text completion request.
type CompletionRequest struct {
	// Model is the model identifier.
	Model string

	// Prompt is the full prompt text.
	Prompt string

	// MaxTokens bounds the response length.
	MaxTokens int

	// Temperature controls sampling randomness.
	Temperature float32
}

// TextCompleter is the boundary to an external generative-text service.
type TextCompleter interface {
	// Complete sends a completion request and returns the generated text.
	Complete(ctx context.Context, req CompletionRequest) (string, error)

	// AvailableModels lists the model identifiers the service offers.
	AvailableModels(ctx context.Context) ([]string, error)
}
