// Command chatd runs the e-commerce support chat service.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	chatbot "github.com/comerzia/chatbot"
	"github.com/comerzia/chatbot/catalog"
	catalogpg "github.com/comerzia/chatbot/catalog/postgres"
	"github.com/comerzia/chatbot/conversation"
	conversationpg "github.com/comerzia/chatbot/conversation/postgres"
	"github.com/comerzia/chatbot/llm/anthropic"
	"github.com/comerzia/chatbot/llm/openai"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(*configPath, logger); err != nil {
		logger.Error("service failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(configPath string, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fileCfg := &chatbot.FileConfig{Addr: ":8080"}
	if configPath != "" {
		loaded, err := chatbot.LoadFileConfig(configPath)
		if err != nil {
			return err
		}
		fileCfg = loaded
	}
	if url := os.Getenv("DATABASE_URL"); url != "" {
		fileCfg.DatabaseURL = url
	}

	cfg := chatbot.Config{
		Logger:            logger,
		ModelCandidates:   fileCfg.ModelCandidates,
		AllowedOrigins:    fileCfg.AllowedOrigins,
		RequestTimeout:    time.Duration(fileCfg.RequestTimeoutSeconds) * time.Second,
		CompletionTimeout: time.Duration(fileCfg.CompletionTimeoutSeconds) * time.Second,
		MaxMessageLength:  fileCfg.MaxMessageLength,
	}

	if fileCfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, fileCfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()

		cfg.Catalog = catalogpg.New(pool)
		cfg.Store = conversationpg.New(pool)
		logger.Info("using PostgreSQL stores")
	} else {
		cfg.Catalog = catalog.NewMemoryStore(demoProducts, demoCategories)
		cfg.Store = conversation.NewMemoryStore()
		logger.Info("no DATABASE_URL set, using in-memory stores")
	}

	completer, err := buildCompleter(fileCfg.Provider)
	if err != nil {
		// The service still comes up in fallback-only mode.
		logger.Warn("no completion provider configured", slog.String("error", err.Error()))
	}
	cfg.Completer = completer

	service, err := chatbot.New(ctx, cfg)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:    fileCfg.Addr,
		Handler: service.HTTPHandler(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", slog.String("addr", fileCfg.Addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
	}

	return nil
}

// buildCompleter picks the completion provider from the config and
// environment. Returning an error means fallback-only operation, not a
// startup failure.
func buildCompleter(provider string) (chatbot.TextCompleter, error) {
	switch provider {
	case "anthropic":
		return anthropic.NewFromEnv()
	case "openai", "":
		return openai.New(os.Getenv("OPENAI_API_KEY"))
	default:
		return nil, errors.New("unknown provider: " + provider)
	}
}

// Demo data for running without a database.
var demoCategories = []chatbot.Category{
	{ID: 1, Name: "Computadoras", Description: "Equipos y notebooks"},
	{ID: 2, Name: "Accesorios", Description: "Periféricos y accesorios"},
	{ID: 3, Name: "Muebles", Description: "Muebles de oficina"},
}

var demoProducts = []chatbot.Product{
	{ID: 1, Name: "Notebook Lenovo IdeaPad 3", Price: 3500000, Stock: 5, CategoryID: 1, CategoryName: "Computadoras", Description: "Ryzen 5, 8GB RAM, 256GB SSD", Available: true},
	{ID: 2, Name: "Mouse Logitech M170", Price: 95000, Stock: 40, CategoryID: 2, CategoryName: "Accesorios", Description: "Mouse inalámbrico", Available: true},
	{ID: 3, Name: "Teclado Redragon Kumara", Price: 180000, Stock: 12, CategoryID: 2, CategoryName: "Accesorios", Description: "Teclado mecánico retroiluminado", Available: true},
	{ID: 4, Name: "Silla ergonómica ProDesk", Price: 850000, Stock: 7, CategoryID: 3, CategoryName: "Muebles", Description: "Silla de oficina con soporte lumbar", Available: true},
	{ID: 5, Name: "Monitor Samsung 24\"", Price: 1100000, Stock: 9, CategoryID: 1, CategoryName: "Computadoras", Description: "Monitor FHD 75Hz", Available: true},
}
