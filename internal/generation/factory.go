package generation

import (
	"context"
	"fmt"

	"adventure-server/internal/config"

	"go.uber.org/zap"
)

// NewProvider builds the provider selected by cfg.AIProvider. Callers should check
// cfg.CredentialError first; a missing key is reported here as domain.ErrMissingCredential.
func NewProvider(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Provider, error) {
	var counter TokenCounter = EstimateCounter()
	if cfg.TokenEncoding != "" {
		counter = NewTiktokenCounter(cfg.TokenEncoding, logger)
	}

	switch cfg.AIProvider {
	case ProviderGemini:
		p, err := NewGeminiProvider(ctx, GeminiConfig{
			APIKey:     cfg.AIAPIKey,
			TextModel:  cfg.AITextModel,
			ImageModel: cfg.AIImageModel,
			BaseURL:    cfg.AIBaseURL,
			Timeout:    cfg.AITimeout,
			Counter:    counter,
		}, logger)
		if err != nil {
			return nil, err
		}
		return p, nil
	case ProviderOpenAI:
		p, err := NewOpenAIProvider(OpenAIConfig{
			APIKey:     cfg.AIAPIKey,
			BaseURL:    cfg.AIBaseURL,
			TextModel:  cfg.AITextModel,
			ImageModel: cfg.AIImageModel,
			Timeout:    cfg.AITimeout,
			Counter:    counter,
		}, logger)
		if err != nil {
			return nil, err
		}
		return p, nil
	case ProviderOllama:
		p, err := NewOllamaProvider(OllamaConfig{
			BaseURL:   cfg.AIBaseURL,
			TextModel: cfg.AITextModel,
			Timeout:   cfg.AITimeout,
		}, logger)
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.AIProvider)
	}
}
