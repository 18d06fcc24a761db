// Package anthropic provides a TextCompleter backed by the Anthropic API.
package anthropic

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	chatbot "github.com/comerzia/chatbot"
)

// Client implements chatbot.TextCompleter against the Anthropic API.
type Client struct {
	api anthropic.Client
}

// New creates a client with the given API key.
func New(apiKey string) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("Anthropic API key is required")
	}
	return &Client{api: anthropic.NewClient(option.WithAPIKey(apiKey))}, nil
}

// NewFromEnv creates a client from the ANTHROPIC_API_KEY environment variable.
func NewFromEnv() (*Client, error) {
	return New(os.Getenv("ANTHROPIC_API_KEY"))
}

// Complete sends a completion request and returns the generated text.
func (c *Client) Complete(ctx context.Context, req chatbot.CompletionRequest) (string, error) {
	resp, err := c.api.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(req.Model),
		MaxTokens:   int64(req.MaxTokens),
		Temperature: anthropic.Float(float64(req.Temperature)),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("Anthropic API error: %w", err)
	}

	var b strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	if b.Len() == 0 {
		return "", errors.New("no text content from Anthropic")
	}
	return b.String(), nil
}

// AvailableModels lists the model identifiers the API offers.
func (c *Client) AvailableModels(ctx context.Context) ([]string, error) {
	page, err := c.api.Models.List(ctx, anthropic.ModelListParams{})
	if err != nil {
		return nil, fmt.Errorf("Anthropic API error: %w", err)
	}

	models := make([]string, 0, len(page.Data))
	for _, m := range page.Data {
		models = append(models, string(m.ID))
	}
	return models, nil
}
