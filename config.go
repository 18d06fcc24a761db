package chatbot

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config configures a chat service instance.
type Config struct {
	// Catalog is the read-only product/category accessor. Required.
	Catalog Catalog

	// Completer is the external text-generation client. Optional; without
	// one the service answers from the fallback engine only.
	Completer TextCompleter

	// Store is the conversation store. Required; binaries pick the
	// conversation/memory or conversation/postgres implementation.
	Store ConversationStore

	// Logger is the structured logger. Optional, defaults to slog.Default().
	Logger *slog.Logger

	// ModelCandidates is the prioritized model list probed at startup.
	// Optional, defaults to DefaultModelCandidates.
	ModelCandidates []string

	// MaxOutputTokens bounds generated answers. Defaults to 1000.
	MaxOutputTokens int

	// Temperature is the sampling temperature. Defaults to 0.7.
	Temperature float32

	// CompletionTimeout bounds each external completion call.
	// Defaults to 30 seconds.
	CompletionTimeout time.Duration

	// RequestTimeout is the maximum time for an HTTP request.
	// Defaults to 60 seconds.
	RequestTimeout time.Duration

	// MaxMessageLength is the maximum accepted chat message length.
	// Defaults to 2000 characters.
	MaxMessageLength int

	// MaxRequestBodySize limits HTTP request bodies. Defaults to 1 MiB.
	MaxRequestBodySize int64

	// AllowedOrigins for CORS. Defaults to allowing all origins.
	AllowedOrigins []string
}

// applyDefaults fills in default values for the config.
func (c *Config) applyDefaults() {
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if len(c.ModelCandidates) == 0 {
		c.ModelCandidates = DefaultModelCandidates
	}
	if c.MaxOutputTokens <= 0 {
		c.MaxOutputTokens = defaultMaxOutputTokens
	}
	if c.Temperature == 0 {
		c.Temperature = defaultTemperature
	}
	if c.CompletionTimeout <= 0 {
		c.CompletionTimeout = defaultCompletionTimeout
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 60 * time.Second
	}
	if c.MaxMessageLength <= 0 {
		c.MaxMessageLength = 2000
	}
	if c.MaxRequestBodySize <= 0 {
		c.MaxRequestBodySize = 1 << 20
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
}

// validate checks that required config fields are set.
func (c *Config) validate() error {
	if c.Catalog == nil {
		return errors.New("catalog is required")
	}
	if c.Store == nil {
		return errors.New("conversation store is required")
	}
	return nil
}

// FileConfig is the YAML configuration consumed by the chatd binary.
type FileConfig struct {
	// Addr is the HTTP listen address.
	Addr string `yaml:"addr"`

	// DatabaseURL is the PostgreSQL connection string. Empty means
	// in-memory stores.
	DatabaseURL string `yaml:"databaseUrl"`

	// Provider selects the completion provider: "openai" or "anthropic".
	Provider string `yaml:"provider"`

	// ModelCandidates overrides the prioritized model list.
	ModelCandidates []string `yaml:"modelCandidates"`

	// AllowedOrigins for CORS.
	AllowedOrigins []string `yaml:"allowedOrigins"`

	// RequestTimeoutSeconds bounds HTTP requests.
	RequestTimeoutSeconds int `yaml:"requestTimeoutSeconds"`

	// CompletionTimeoutSeconds bounds external completion calls.
	CompletionTimeoutSeconds int `yaml:"completionTimeoutSeconds"`

	// MaxMessageLength is the maximum accepted chat message length.
	MaxMessageLength int `yaml:"maxMessageLength"`
}

// LoadFileConfig reads a YAML config file.
func LoadFileConfig(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	return &cfg, nil
}
