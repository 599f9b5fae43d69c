package generation

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"adventure-server/internal/domain"

	openaigo "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// OpenAI defaults.
const (
	DefaultOpenAITextModel  = openaigo.GPT4oMini
	DefaultOpenAIImageModel = openaigo.CreateImageModelDallE3
)

// OpenAIConfig configures OpenAIProvider. BaseURL allows any OpenAI compatible endpoint.
type OpenAIConfig struct {
	APIKey     string
	BaseURL    string
	TextModel  string
	ImageModel string
	Timeout    time.Duration
	Counter    TokenCounter
}

// OpenAIProvider implements Provider on top of an OpenAI compatible API.
// Grounded search is not available and reports domain.ErrUnsupported.
type OpenAIProvider struct {
	client     *openaigo.Client
	textModel  string
	imageModel string
	counter    TokenCounter
	logger     *zap.Logger
}

var _ Provider = (*OpenAIProvider)(nil)

// NewOpenAIProvider creates an OpenAI client.
func NewOpenAIProvider(cfg OpenAIConfig, logger *zap.Logger) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, domain.ErrMissingCredential
	}
	if cfg.TextModel == "" {
		cfg.TextModel = DefaultOpenAITextModel
	}
	if cfg.ImageModel == "" {
		cfg.ImageModel = DefaultOpenAIImageModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.Counter == nil {
		cfg.Counter = EstimateCounter()
	}

	clientCfg := openaigo.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	logger.Info("OpenAI provider created",
		zap.String("baseURL", clientCfg.BaseURL),
		zap.String("textModel", cfg.TextModel),
		zap.String("imageModel", cfg.ImageModel),
		zap.Duration("timeout", cfg.Timeout),
	)
	return &OpenAIProvider{
		client:     openaigo.NewClientWithConfig(clientCfg),
		textModel:  cfg.TextModel,
		imageModel: cfg.ImageModel,
		counter:    cfg.Counter,
		logger:     logger.Named("openai"),
	}, nil
}

// Name implements Provider.
func (p *OpenAIProvider) Name() string { return ProviderOpenAI }

// GenerateNarrative implements Provider.
func (p *OpenAIProvider) GenerateNarrative(ctx context.Context, req NarrativeRequest) (string, error) {
	prompt := BuildNarrativePrompt(req)
	promptTokens.WithLabelValues(ProviderOpenAI).Observe(float64(p.counter.Count(prompt)))

	start := time.Now()
	resp, err := p.client.CreateChatCompletion(ctx, openaigo.ChatCompletionRequest{
		Model: p.textModel,
		Messages: []openaigo.ChatCompletionMessage{
			{Role: openaigo.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: NarrativeTemperature,
		TopP:        NarrativeTopP,
	})
	if err != nil {
		observe(OpNarrative, ProviderOpenAI, statusError, start)
		p.logger.Error("Narrative request failed", zap.String("sceneId", req.SceneID), zap.Error(err))
		return "", fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		observe(OpNarrative, ProviderOpenAI, statusEmpty, start)
		return "", fmt.Errorf("%w: narrative", domain.ErrEmptyResponse)
	}
	observe(OpNarrative, ProviderOpenAI, statusSuccess, start)
	p.logger.Info("Narrative generated",
		zap.String("sceneId", req.SceneID),
		zap.Duration("duration", time.Since(start)),
		zap.Int("promptTokens", resp.Usage.PromptTokens),
		zap.Int("completionTokens", resp.Usage.CompletionTokens),
	)
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// GenerateImage implements Provider.
func (p *OpenAIProvider) GenerateImage(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	resp, err := p.client.CreateImage(ctx, openaigo.ImageRequest{
		Prompt:         BuildImagePrompt(prompt),
		Model:          p.imageModel,
		N:              1,
		Size:           openaigo.CreateImageSize1024x1024,
		ResponseFormat: openaigo.CreateImageResponseFormatB64JSON,
	})
	if err != nil {
		observe(OpImage, ProviderOpenAI, statusError, start)
		p.logger.Error("Image request failed", zap.Error(err))
		return "", fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		observe(OpImage, ProviderOpenAI, statusEmpty, start)
		return "", fmt.Errorf("%w: image", domain.ErrEmptyResponse)
	}
	observe(OpImage, ProviderOpenAI, statusSuccess, start)
	return EncodedDataURI("image/png", resp.Data[0].B64JSON), nil
}

// GroundedSearch implements Provider.
func (p *OpenAIProvider) GroundedSearch(context.Context, string) (SearchResult, error) {
	return SearchResult{}, fmt.Errorf("%w: grounded search with %s", domain.ErrUnsupported, ProviderOpenAI)
}
