package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"adventure-server/internal/domain"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// Gemini defaults.
const (
	DefaultGeminiTextModel  = "gemini-2.5-flash-preview-04-17"
	DefaultGeminiImageModel = "imagen-3.0-generate-002"
	DefaultGeminiBaseURL    = "https://generativelanguage.googleapis.com/v1beta"
)

// GeminiConfig configures GeminiProvider.
type GeminiConfig struct {
	APIKey     string
	TextModel  string
	ImageModel string
	// BaseURL of the REST API used for image generation and grounded search.
	BaseURL string
	Timeout time.Duration
	Counter TokenCounter
}

// textModel is the subset of *genai.GenerativeModel used for narratives.
type textModel interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// GeminiProvider writes narratives through the Go SDK. Imagen and Google Search grounding
// are not exposed by the SDK and go through the REST API instead.
type GeminiProvider struct {
	client     *genai.Client
	model      textModel
	httpClient *http.Client
	cfg        GeminiConfig
	logger     *zap.Logger
}

var _ Provider = (*GeminiProvider)(nil)

// NewGeminiProvider creates the SDK client and the narrative model.
func NewGeminiProvider(ctx context.Context, cfg GeminiConfig, logger *zap.Logger) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, domain.ErrMissingCredential
	}
	cfg = cfg.withDefaults()
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	model := client.GenerativeModel(cfg.TextModel)
	model.SetTemperature(NarrativeTemperature)
	model.SetTopP(NarrativeTopP)
	model.SetTopK(NarrativeTopK)

	p := newGeminiProvider(model, &http.Client{Timeout: cfg.Timeout}, cfg, logger)
	p.client = client
	return p, nil
}

func newGeminiProvider(model textModel, httpClient *http.Client, cfg GeminiConfig, logger *zap.Logger) *GeminiProvider {
	cfg = cfg.withDefaults()
	logger.Info("Gemini provider created",
		zap.String("textModel", cfg.TextModel),
		zap.String("imageModel", cfg.ImageModel),
		zap.Duration("timeout", cfg.Timeout),
	)
	return &GeminiProvider{
		model:      model,
		httpClient: httpClient,
		cfg:        cfg,
		logger:     logger.Named("gemini"),
	}
}

func (c GeminiConfig) withDefaults() GeminiConfig {
	if c.TextModel == "" {
		c.TextModel = DefaultGeminiTextModel
	}
	if c.ImageModel == "" {
		c.ImageModel = DefaultGeminiImageModel
	}
	if c.BaseURL == "" {
		c.BaseURL = DefaultGeminiBaseURL
	}
	c.BaseURL = strings.TrimSuffix(c.BaseURL, "/")
	if c.Timeout <= 0 {
		c.Timeout = 60 * time.Second
	}
	if c.Counter == nil {
		c.Counter = EstimateCounter()
	}
	return c
}

// Name implements Provider.
func (p *GeminiProvider) Name() string { return ProviderGemini }

// Close releases the SDK client.
func (p *GeminiProvider) Close() error {
	if p.client == nil {
		return nil
	}
	return p.client.Close()
}

// GenerateNarrative implements Provider.
func (p *GeminiProvider) GenerateNarrative(ctx context.Context, req NarrativeRequest) (string, error) {
	prompt := BuildNarrativePrompt(req)
	tokens := p.cfg.Counter.Count(prompt)
	promptTokens.WithLabelValues(ProviderGemini).Observe(float64(tokens))

	requestCtx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	start := time.Now()
	p.logger.Debug("Sending narrative request", zap.String("sceneId", req.SceneID), zap.Int("promptTokens", tokens))
	resp, err := p.model.GenerateContent(requestCtx, genai.Text(prompt))
	if err != nil {
		observe(OpNarrative, ProviderGemini, statusError, start)
		if errors.Is(err, context.DeadlineExceeded) {
			p.logger.Error("Narrative request timed out", zap.Duration("timeout", p.cfg.Timeout), zap.Error(err))
		} else {
			p.logger.Error("Narrative request failed", zap.String("sceneId", req.SceneID), zap.Error(err))
		}
		return "", fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}
	text := strings.TrimSpace(responseText(resp))
	if text == "" {
		observe(OpNarrative, ProviderGemini, statusEmpty, start)
		return "", fmt.Errorf("%w: narrative", domain.ErrEmptyResponse)
	}
	observe(OpNarrative, ProviderGemini, statusSuccess, start)
	p.logger.Info("Narrative generated",
		zap.String("sceneId", req.SceneID),
		zap.Duration("duration", time.Since(start)),
		zap.Int("length", len(text)),
	)
	return text, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	var b strings.Builder
	if resp != nil && len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if txt, ok := part.(genai.Text); ok {
				b.WriteString(string(txt))
			}
		}
	}
	return b.String()
}

// --- REST: Imagen ---

type imagenRequest struct {
	Instances  []imagenInstance `json:"instances"`
	Parameters imagenParameters `json:"parameters"`
}

type imagenInstance struct {
	Prompt string `json:"prompt"`
}

type imagenParameters struct {
	SampleCount    int    `json:"sampleCount"`
	OutputMimeType string `json:"outputMimeType"`
}

type imagenResponse struct {
	Predictions []struct {
		BytesBase64Encoded string `json:"bytesBase64Encoded"`
		MimeType           string `json:"mimeType"`
	} `json:"predictions"`
}

// GenerateImage implements Provider.
func (p *GeminiProvider) GenerateImage(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	body := imagenRequest{
		Instances:  []imagenInstance{{Prompt: BuildImagePrompt(prompt)}},
		Parameters: imagenParameters{SampleCount: 1, OutputMimeType: "image/jpeg"},
	}
	var resp imagenResponse
	if err := p.post(ctx, "/models/"+p.cfg.ImageModel+":predict", body, &resp); err != nil {
		observe(OpImage, ProviderGemini, statusError, start)
		p.logger.Error("Image request failed", zap.Error(err))
		return "", err
	}
	if len(resp.Predictions) == 0 || resp.Predictions[0].BytesBase64Encoded == "" {
		observe(OpImage, ProviderGemini, statusEmpty, start)
		return "", fmt.Errorf("%w: image", domain.ErrEmptyResponse)
	}
	observe(OpImage, ProviderGemini, statusSuccess, start)
	pred := resp.Predictions[0]
	return EncodedDataURI(pred.MimeType, pred.BytesBase64Encoded), nil
}

// --- REST: grounded search ---

type groundedRequest struct {
	Contents []restContent   `json:"contents"`
	Tools    []groundingTool `json:"tools"`
}

type restContent struct {
	Role  string     `json:"role,omitempty"`
	Parts []restPart `json:"parts"`
}

type restPart struct {
	Text string `json:"text,omitempty"`
}

type groundingTool struct {
	GoogleSearch struct{} `json:"google_search"`
}

type groundedResponse struct {
	Candidates []struct {
		Content           restContent `json:"content"`
		GroundingMetadata *struct {
			GroundingChunks []struct {
				Web *struct {
					URI   string `json:"uri"`
					Title string `json:"title"`
				} `json:"web"`
			} `json:"groundingChunks"`
		} `json:"groundingMetadata"`
	} `json:"candidates"`
}

// GroundedSearch implements Provider.
func (p *GeminiProvider) GroundedSearch(ctx context.Context, query string) (SearchResult, error) {
	start := time.Now()
	body := groundedRequest{
		Contents: []restContent{{Role: "user", Parts: []restPart{{Text: query}}}},
		Tools:    []groundingTool{{}},
	}
	var resp groundedResponse
	if err := p.post(ctx, "/models/"+p.cfg.TextModel+":generateContent", body, &resp); err != nil {
		observe(OpSearch, ProviderGemini, statusError, start)
		p.logger.Error("Grounded search failed", zap.String("query", query), zap.Error(err))
		return SearchResult{}, err
	}
	if len(resp.Candidates) == 0 {
		observe(OpSearch, ProviderGemini, statusEmpty, start)
		return SearchResult{}, fmt.Errorf("%w: search", domain.ErrEmptyResponse)
	}

	cand := resp.Candidates[0]
	var text strings.Builder
	for _, part := range cand.Content.Parts {
		text.WriteString(part.Text)
	}
	result := SearchResult{Text: strings.TrimSpace(text.String())}
	if cand.GroundingMetadata != nil {
		for _, chunk := range cand.GroundingMetadata.GroundingChunks {
			if chunk.Web == nil || chunk.Web.URI == "" {
				continue
			}
			result.Citations = append(result.Citations, domain.Citation{URI: chunk.Web.URI, Title: chunk.Web.Title})
		}
	}
	if result.Text == "" && len(result.Citations) == 0 {
		observe(OpSearch, ProviderGemini, statusEmpty, start)
		return SearchResult{}, fmt.Errorf("%w: search", domain.ErrEmptyResponse)
	}
	observe(OpSearch, ProviderGemini, statusSuccess, start)
	p.logger.Info("Grounded search answered", zap.Int("citations", len(result.Citations)), zap.Duration("duration", time.Since(start)))
	return result, nil
}

// post sends a JSON request to the REST API and decodes a JSON response into out.
func (p *GeminiProvider) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal gemini request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create gemini request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", p.cfg.APIKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w: gemini status %d: %s", domain.ErrGenerationFailed, resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode gemini response: %v", domain.ErrGenerationFailed, err)
	}
	return nil
}
