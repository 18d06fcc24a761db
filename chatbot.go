// Package chatbot implements an e-commerce customer-support chat service:
// AI-generated answers with a deterministic keyword fallback, persisted
// conversation turns, and auxiliary catalog endpoints.
package chatbot

import (
	"context"
	"fmt"
	"net/http"
)

// Service is the assembled chat service.
type Service struct {
	config      *Config
	assistant   *Assistant
	fallback    RespondFn
	processChat ProcessChatFn
	httpHandler http.Handler
}

// New creates a chat service from the given configuration. The generative
// model is probed during construction; when none initializes the service
// still comes up, answering from the fallback engine.
func New(ctx context.Context, config Config) (*Service, error) {
	config.applyDefaults()
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	fallback := NewFallbackResponder(config.Catalog, config.Logger)

	assistant := NewAssistant(ctx, config.Completer, config.Catalog, fallback, config.Logger, AssistantOptions{
		ModelCandidates:   config.ModelCandidates,
		MaxOutputTokens:   config.MaxOutputTokens,
		Temperature:       config.Temperature,
		CompletionTimeout: config.CompletionTimeout,
	})

	processChat := NewChatService(assistant.Generate, config.Store, config.Logger)

	httpHandler := newHTTPRouter(&config, routeHandlers{
		health:           newHealthHandler(),
		chat:             newChatHandler(processChat, config.MaxMessageLength, config.Logger),
		categoryProducts: newCategoryProductsHandler(config.Catalog, config.Logger),
		compare:          newCompareHandler(assistant.Compare, config.Logger),
		stockList:        newStockListHandler(config.Catalog, config.Logger),
		stockPDF:         newStockPDFHandler(config.Catalog, config.Logger),
	})

	return &Service{
		config:      &config,
		assistant:   assistant,
		fallback:    fallback,
		processChat: processChat,
		httpHandler: httpHandler,
	}, nil
}

// ProcessChat returns the chat processing function for direct use (without HTTP).
func (s *Service) ProcessChat() ProcessChatFn {
	return s.processChat
}

// Assistant returns the AI response adapter.
func (s *Service) Assistant() *Assistant {
	return s.assistant
}

// Fallback returns the rule-based response engine.
func (s *Service) Fallback() RespondFn {
	return s.fallback
}

// HTTPHandler returns the HTTP handler for the service.
func (s *Service) HTTPHandler() http.Handler {
	return s.httpHandler
}
