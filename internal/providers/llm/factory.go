package llm

import (
	"context"
	"fmt"

	"github.com/sandevgo/memybot/internal/config"
	"github.com/sandevgo/memybot/internal/core"
	"github.com/sandevgo/memybot/pkg/log"
)

// Provider is a completion client that can also list the models it serves.
type Provider interface {
	core.AIProvider
	Models(ctx context.Context) ([]core.Model, error)
	Model() string
}

// NewProvider creates the appropriate Provider based on configuration.
func NewProvider(ctx context.Context, cfg *config.ProviderConfig) (Provider, error) {
	log.FromCtx(ctx).Info().
		Str("provider", cfg.Provider).
		Str("model", cfg.Model).
		Msg("starting llm provider")

	switch cfg.Provider {
	case "openai":
		return NewOpenAI(cfg.OpenAIAPIKey, cfg.Model), nil
	case "openrouter":
		return NewOpenRouter(cfg.OpenRouterAPIKey, cfg.Model), nil
	case "ollama":
		return NewOllama(cfg.OllamaBaseURL, cfg.OllamaAPIKey, cfg.Model), nil
	case "custom":
		return NewCustomOpenAI(cfg.CustomOpenAIBaseURL, cfg.CustomOpenAIAPIKey, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}
}
