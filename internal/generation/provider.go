// Package generation talks to the model providers that write scene narratives, paint scene
// illustrations and answer grounded search queries.
package generation

import (
	"context"

	"adventure-server/internal/domain"
)

// Provider names accepted by NewProvider.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// Operation labels used in metrics and logs.
const (
	OpNarrative = "narrative"
	OpImage     = "image"
	OpSearch    = "search"
)

// NarrativeRequest carries everything the narrative prompt is built from.
type NarrativeRequest struct {
	SceneID        string
	Seed           string
	Stats          domain.PlayerStats
	LastChoiceText string
}

// SearchResult is the answer of a grounded search query.
type SearchResult struct {
	Text      string            `json:"text"`
	Citations []domain.Citation `json:"citations,omitempty"`
}

// Provider is the boundary between the game and a model vendor.
// Implementations must be safe for concurrent use.
type Provider interface {
	// GenerateNarrative returns the prose for a scene. An empty result is reported as an error.
	GenerateNarrative(ctx context.Context, req NarrativeRequest) (string, error)
	// GenerateImage returns a data URI for the illustration described by prompt.
	GenerateImage(ctx context.Context, prompt string) (string, error)
	// GroundedSearch answers query using web grounding and returns the cited sources.
	GroundedSearch(ctx context.Context, query string) (SearchResult, error)
	// Name identifies the provider in metrics.
	Name() string
}
