package generation

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"adventure-server/internal/domain"

	"github.com/ollama/ollama/api"
	"go.uber.org/zap"
)

// DefaultOllamaBaseURL is the address of a local ollama daemon.
const DefaultOllamaBaseURL = "http://localhost:11434"

// OllamaConfig configures OllamaProvider.
type OllamaConfig struct {
	BaseURL   string
	TextModel string
	Timeout   time.Duration
}

// OllamaProvider writes narratives with a local model. It paints no images and cannot search.
type OllamaProvider struct {
	client  *api.Client
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

var _ Provider = (*OllamaProvider)(nil)

// NewOllamaProvider creates a client for the ollama native API.
func NewOllamaProvider(cfg OllamaConfig, logger *zap.Logger) (*OllamaProvider, error) {
	if cfg.TextModel == "" {
		return nil, errors.New("ollama provider requires a text model")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultOllamaBaseURL
	}
	// api.NewClient wants the root URL, not the OpenAI compatible /v1 prefix.
	baseURL = strings.TrimSuffix(strings.TrimSuffix(baseURL, "/"), "/v1")

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ollama base URL %q: %w", baseURL, err)
	}

	logger.Info("Ollama provider created",
		zap.String("baseURL", baseURL),
		zap.String("model", cfg.TextModel),
		zap.Duration("timeout", cfg.Timeout),
	)
	return &OllamaProvider{
		client:  api.NewClient(parsed, &http.Client{Timeout: cfg.Timeout}),
		model:   cfg.TextModel,
		timeout: cfg.Timeout,
		logger:  logger.Named("ollama"),
	}, nil
}

// Name implements Provider.
func (p *OllamaProvider) Name() string { return ProviderOllama }

// GenerateNarrative implements Provider.
func (p *OllamaProvider) GenerateNarrative(ctx context.Context, req NarrativeRequest) (string, error) {
	stream := false
	chatReq := &api.ChatRequest{
		Model:    p.model,
		Messages: []api.Message{{Role: "user", Content: BuildNarrativePrompt(req)}},
		Stream:   &stream,
		Options: map[string]interface{}{
			"temperature": NarrativeTemperature,
			"top_p":       NarrativeTopP,
			"top_k":       NarrativeTopK,
		},
	}

	requestCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	var resp api.ChatResponse
	err := p.client.Chat(requestCtx, chatReq, func(r api.ChatResponse) error {
		resp = r
		return nil
	})
	if err != nil {
		observe(OpNarrative, ProviderOllama, statusError, start)
		if errors.Is(err, context.DeadlineExceeded) {
			p.logger.Error("Narrative request timed out", zap.Duration("timeout", p.timeout), zap.Error(err))
		} else {
			p.logger.Error("Narrative request failed", zap.String("sceneId", req.SceneID), zap.Error(err))
		}
		return "", fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}
	text := strings.TrimSpace(resp.Message.Content)
	if text == "" {
		observe(OpNarrative, ProviderOllama, statusEmpty, start)
		return "", fmt.Errorf("%w: narrative", domain.ErrEmptyResponse)
	}
	observe(OpNarrative, ProviderOllama, statusSuccess, start)
	promptTokens.WithLabelValues(ProviderOllama).Observe(float64(resp.PromptEvalCount))
	p.logger.Info("Narrative generated",
		zap.String("sceneId", req.SceneID),
		zap.Duration("duration", time.Since(start)),
		zap.Int("promptTokens", resp.PromptEvalCount),
		zap.Int("completionTokens", resp.EvalCount),
	)
	return text, nil
}

// GenerateImage implements Provider.
func (p *OllamaProvider) GenerateImage(context.Context, string) (string, error) {
	return "", fmt.Errorf("%w: image generation with %s", domain.ErrUnsupported, ProviderOllama)
}

// GroundedSearch implements Provider.
func (p *OllamaProvider) GroundedSearch(context.Context, string) (SearchResult, error) {
	return SearchResult{}, fmt.Errorf("%w: grounded search with %s", domain.ErrUnsupported, ProviderOllama)
}
