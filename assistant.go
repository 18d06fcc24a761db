package chatbot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

const (
	defaultMaxOutputTokens   = 1000
	defaultTemperature       = 0.7
	defaultCompletionTimeout = 30 * time.Second
)

// DefaultModelCandidates is the prioritized list of model identifiers tried
// at construction time.
var DefaultModelCandidates = []string{"gpt-4o", "gpt-4o-mini"}

// AssistantOptions tunes the AI response adapter.
type AssistantOptions struct {
	// ModelCandidates is the prioritized list of model identifiers to probe.
	// Defaults to DefaultModelCandidates.
	ModelCandidates []string

	// MaxOutputTokens bounds the generated answer. Defaults to 1000.
	MaxOutputTokens int

	// Temperature is the sampling temperature. Defaults to 0.7.
	Temperature float32

	// CompletionTimeout bounds each call to the external service.
	// Defaults to 30 seconds.
	CompletionTimeout time.Duration
}

func (o AssistantOptions) withDefaults() AssistantOptions {
	if len(o.ModelCandidates) == 0 {
		o.ModelCandidates = DefaultModelCandidates
	}
	if o.MaxOutputTokens <= 0 {
		o.MaxOutputTokens = defaultMaxOutputTokens
	}
	if o.Temperature == 0 {
		o.Temperature = defaultTemperature
	}
	if o.CompletionTimeout <= 0 {
		o.CompletionTimeout = defaultCompletionTimeout
	}
	return o
}

// Assistant generates answers through the external text-generation service,
// substituting the fallback engine's answer whenever the service fails. The
// model is an optional capability: when none could be initialized the
// assistant operates in fallback-only mode.
type Assistant struct {
	completer TextCompleter
	catalog   Catalog
	fallback  RespondFn
	logger    *slog.Logger
	opts      AssistantOptions

	// model is empty when no candidate initialized successfully.
	model string
}

// NewAssistant creates the AI response adapter. Model candidates are probed
// in priority order against the completer's model listing; the first one
// offered by the service wins. When the listing fails or no candidate is
// offered, the assistant starts without a model and answers from the
// fallback engine only.
func NewAssistant(ctx context.Context, completer TextCompleter, catalog Catalog, fallback RespondFn, logger *slog.Logger, opts AssistantOptions) *Assistant {
	a := &Assistant{
		completer: completer,
		catalog:   catalog,
		fallback:  fallback,
		logger:    logger,
		opts:      opts.withDefaults(),
	}
	a.model = a.selectModel(ctx)
	return a
}

func (a *Assistant) selectModel(ctx context.Context) string {
	if a.completer == nil {
		a.logger.Warn("no completer configured, operating in fallback-only mode")
		return ""
	}

	available, err := a.completer.AvailableModels(ctx)
	if err != nil {
		a.logger.Warn("listing models failed, operating in fallback-only mode",
			slog.String("error", err.Error()),
		)
		return ""
	}

	offered := make(map[string]bool, len(available))
	for _, m := range available {
		offered[m] = true
	}

	for _, candidate := range a.opts.ModelCandidates {
		if offered[candidate] {
			a.logger.Info("generative model selected", slog.String("model", candidate))
			return candidate
		}
	}

	// Last resort: any model the service offers.
	if len(available) > 0 {
		a.logger.Info("no candidate model offered, using first available",
			slog.String("model", available[0]),
		)
		return available[0]
	}

	a.logger.Warn("no models offered, operating in fallback-only mode")
	return ""
}

// HasModel reports whether a generative model was initialized.
func (a *Assistant) HasModel() bool {
	return a.model != ""
}

// Generate answers a user message with catalog context and recent history.
// Any transport, quota or service failure substitutes the fallback engine's
// answer; the caller never sees an error.
func (a *Assistant) Generate(ctx context.Context, message string, history []ConversationTurn) string {
	if !a.HasModel() {
		return a.fallback(ctx, message)
	}

	prompt, err := a.buildChatPrompt(ctx, message, history)
	if err != nil {
		a.logger.Warn("building prompt failed, using fallback",
			slog.String("error", err.Error()),
		)
		return a.fallback(ctx, message)
	}

	answer, err := a.complete(ctx, prompt)
	if err != nil {
		a.logger.Warn("text generation failed, using fallback",
			slog.String("model", a.model),
			slog.String("error", err.Error()),
		)
		return a.fallback(ctx, message)
	}
	return answer
}

// Compare produces a narrative comparison of the given products. Fewer than
// two resolved products short-circuits with ErrInsufficientProducts without
// touching the external service. Service failures degrade to the
// deterministic manual comparison.
func (a *Assistant) Compare(ctx context.Context, productIDs []int64) (string, error) {
	products, err := a.catalog.ProductsByIDs(ctx, productIDs)
	if err != nil {
		return "", NewInternalError("error al comparar productos", err)
	}
	if len(products) < 2 {
		return "", ErrInsufficientProducts
	}

	if !a.HasModel() {
		return ManualComparison(products), nil
	}

	answer, err := a.complete(ctx, buildComparisonPrompt(products))
	if err != nil {
		a.logger.Warn("AI comparison failed, using manual comparison",
			slog.String("model", a.model),
			slog.String("error", err.Error()),
		)
		return ManualComparison(products), nil
	}
	return answer, nil
}

// complete sends one time-bounded completion request.
func (a *Assistant) complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.opts.CompletionTimeout)
	defer cancel()

	text, err := a.completer.Complete(ctx, CompletionRequest{
		Model:       a.model,
		Prompt:      prompt,
		MaxTokens:   a.opts.MaxOutputTokens,
		Temperature: a.opts.Temperature,
	})
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("empty completion")
	}
	return text, nil
}

// buildChatPrompt embeds the assistant persona, a live catalog snapshot and
// the recent conversation into a single prompt.
func (a *Assistant) buildChatPrompt(ctx context.Context, message string, history []ConversationTurn) (string, error) {
	products, err := a.catalog.Products(ctx)
	if err != nil {
		return "", fmt.Errorf("loading products: %w", err)
	}
	categories, err := a.catalog.Categories(ctx)
	if err != nil {
		return "", fmt.Errorf("loading categories: %w", err)
	}

	var b strings.Builder
	b.WriteString("Eres un asistente virtual especializado en e-commerce. Responde ÚNICAMENTE en español.\n\n")

	b.WriteString("INFORMACIÓN ACTUAL DE LA TIENDA:\n")
	fmt.Fprintf(&b, "- Productos disponibles: %d\n", len(products))
	b.WriteString("- Categorías: ")
	names := make([]string, 0, len(categories))
	for _, cat := range categories {
		names = append(names, cat.Name)
	}
	b.WriteString(strings.Join(names, ", "))
	b.WriteString("\n- Datos de productos:\n")
	for _, p := range products {
		fmt.Fprintf(&b, "  - %s | precio: %s | stock: %d | categoría: %s | %s\n",
			p.Name, formatPrice(p.Price), p.Stock, p.CategoryName, p.Description)
	}

	if len(history) > 0 {
		b.WriteString("\nCONVERSACIÓN RECIENTE:\n")
		for _, turn := range history {
			fmt.Fprintf(&b, "Usuario: %s\nAsistente: %s\n", turn.UserMessage, turn.BotResponse)
		}
	}

	b.WriteString("\nCONTEXTO DE USUARIO:\n")
	b.WriteString("- El usuario está en una tienda online real\n")
	b.WriteString("- Puedes acceder a información actualizada de productos, precios y stock\n")
	b.WriteString("- Debes ser útil, preciso y amable\n\n")

	fmt.Fprintf(&b, "PREGUNTA DEL USUARIO: %q\n\n", message)

	b.WriteString("Responde de manera:\n")
	b.WriteString("- Útil y específica basándote en los datos reales de la tienda\n")
	b.WriteString("- En español claro y natural\n")
	b.WriteString("- Incluye información relevante de productos si aplica\n")
	b.WriteString("- Ofrece seguir ayudando\n\n")
	b.WriteString("RESPUESTA:")

	return b.String(), nil
}

// buildComparisonPrompt lays out the selected products for a structured
// comparison.
func buildComparisonPrompt(products []Product) string {
	var b strings.Builder
	b.WriteString("Como experto en e-commerce, compara estos productos de manera útil:\n\n")
	for _, p := range products {
		fmt.Fprintf(&b, "- nombre: %s | precio: %s | categoría: %s | stock: %d | descripción: %s\n",
			p.Name, formatPrice(p.Price), p.CategoryName, p.Stock, p.Description)
	}
	b.WriteString("\nResponde en español con:\n")
	b.WriteString("1. Similitudes clave\n")
	b.WriteString("2. Diferencias principales (precio, características)\n")
	b.WriteString("3. Recomendación según diferentes necesidades\n")
	b.WriteString("4. Mejor opción por categoría (valor, características)\n\n")
	b.WriteString("Sé objetivo y útil para el cliente:")
	return b.String()
}
