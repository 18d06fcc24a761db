// Package openai provides a TextCompleter backed by the OpenAI API.
package openai

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	chatbot "github.com/comerzia/chatbot"
)

// Client implements chatbot.TextCompleter against the OpenAI API.
type Client struct {
	api *openai.Client
}

// New creates a client with the given API key.
func New(apiKey string) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}
	return &Client{api: openai.NewClient(apiKey)}, nil
}

// NewWithClient wraps an already configured OpenAI client, e.g. one pointed
// at an OpenAI-compatible gateway.
func NewWithClient(api *openai.Client) *Client {
	return &Client{api: api}
}

// Complete sends a completion request and returns the generated text.
func (c *Client) Complete(ctx context.Context, req chatbot.CompletionRequest) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: req.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: req.Prompt,
			},
		},
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no response from OpenAI")
	}
	return resp.Choices[0].Message.Content, nil
}

// AvailableModels lists the model identifiers the API offers.
func (c *Client) AvailableModels(ctx context.Context) ([]string, error) {
	list, err := c.api.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	models := make([]string, 0, len(list.Models))
	for _, m := range list.Models {
		models = append(models, m.ID)
	}
	return models, nil
}
