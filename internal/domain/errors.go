package domain

import "errors"

var (
	// Configuration
	ErrMissingCredential = errors.New("generation credential is not configured")

	// Scene graph
	ErrSceneNotFound = errors.New("scene not found")
	ErrInvalidChoice = errors.New("invalid choice")

	// Session
	ErrBusy       = errors.New("scene content is still loading")
	ErrEmptyQuery = errors.New("search query is empty")

	// Generation
	ErrGenerationFailed = errors.New("content generation failed")
	ErrEmptyResponse    = errors.New("provider returned an empty response")
	ErrUnsupported      = errors.New("operation not supported by provider")

	// Storage
	ErrNotFound = errors.New("resource not found")
)

// CredentialErrorMessage is shown instead of the game when no credential is configured.
const CredentialErrorMessage = "API Anahtarı bulunamadı. Lütfen .env dosyasında API_KEY değişkenini ayarlayın."
