package llm

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/ajitpratap0/campus-advisor/internal/config"
)

// Default model per provider, used when llm.model is left empty.
const (
	DefaultOpenAIModel    = "gpt-4o-mini"
	DefaultAnthropicModel = "claude-haiku-4-5-20251001"
	DefaultOllamaModel    = "llama3.1"
)

// DefaultModel returns the model used for provider when none is configured.
// Unknown providers get "".
func DefaultModel(provider string) string {
	switch strings.ToLower(provider) {
	case "", "openai":
		return DefaultOpenAIModel
	case "anthropic", "claude":
		return DefaultAnthropicModel
	case "ollama":
		return DefaultOllamaModel
	}
	return ""
}

// NewCompleter builds the Completer selected by cfg.Provider.
func NewCompleter(cfg config.LLMConfig, logger *slog.Logger) (Completer, error) {
	if cfg.Model == "" {
		cfg.Model = DefaultModel(cfg.Provider)
	}
	switch strings.ToLower(cfg.Provider) {
	case "", "openai":
		return NewOpenAICompleter(cfg.OpenAIAPIKey, cfg.Model, cfg.BaseURL, float32(cfg.Temperature), logger), nil

	case "anthropic", "claude":
		return NewAnthropicCompleter(cfg.AnthropicAPIKey, cfg.Model, cfg.MaxTokens, cfg.Temperature, logger), nil

	case "ollama":
		// Ollama speaks the OpenAI wire format under /v1 and ignores the key.
		baseURL := strings.TrimRight(cfg.BaseURL, "/")
		if !strings.HasSuffix(baseURL, "/v1") {
			baseURL += "/v1"
		}
		apiKey := cfg.OpenAIAPIKey
		if apiKey == "" {
			apiKey = "ollama"
		}
		return NewOpenAICompleter(apiKey, cfg.Model, baseURL, float32(cfg.Temperature), logger), nil

	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.Provider)
	}
}
