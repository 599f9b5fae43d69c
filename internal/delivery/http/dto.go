package http

import "adventure-server/internal/domain"

// Error codes returned in ErrorResponse.Code.
const (
	ErrCodeBadRequest        = "bad_request"
	ErrCodeBusy              = "busy"
	ErrCodeInvalidChoice     = "invalid_choice"
	ErrCodeSceneNotFound     = "scene_not_found"
	ErrCodeEmptyQuery        = "empty_query"
	ErrCodeMissingCredential = "missing_credential"
	ErrCodeRateLimited       = "rate_limited"
	ErrCodeInternal          = "internal"
)

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ChoiceRequest selects a choice of the current scene by index.
type ChoiceRequest struct {
	Index *int `json:"index" binding:"required,min=0"`
}

// SearchRequest runs a grounded web search.
type SearchRequest struct {
	Query string `json:"query" binding:"required,max=500"`
}

// SceneSummary is a scene as listed in the catalogue.
type SceneSummary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	ChoiceCount int    `json:"choiceCount"`
	HasImage    bool   `json:"hasImage"`
	IsStart     bool   `json:"isGameStart"`
	IsTerminal  bool   `json:"isGameOver"`
}

// SceneCatalogue is the response of GET /api/scenes.
type SceneCatalogue struct {
	Version string         `json:"version"`
	Scenes  []SceneSummary `json:"scenes"`
}

// HistoryResponse is the response of GET /api/session/history.
type HistoryResponse struct {
	SessionID string        `json:"sessionId"`
	Turns     []domain.Turn `json:"turns"`
}
