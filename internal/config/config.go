package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"adventure-server/internal/domain"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds the process configuration read from the environment.
type Config struct {
	Env        string `envconfig:"ENV" default:"development"`
	ServerPort string `envconfig:"SERVER_PORT" default:"8080"`

	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	LogEncoding string `envconfig:"LOG_ENCODING" default:"json"`
	LogOutput   string `envconfig:"LOG_OUTPUT"`

	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS"`

	// Generation provider
	AIProvider   string        `envconfig:"AI_PROVIDER" default:"gemini"`
	AIAPIKey     string        `envconfig:"AI_API_KEY"`
	AIBaseURL    string        `envconfig:"AI_BASE_URL"`
	AITextModel  string        `envconfig:"AI_TEXT_MODEL"`
	AIImageModel string        `envconfig:"AI_IMAGE_MODEL"`
	AITimeout    time.Duration `envconfig:"AI_TIMEOUT" default:"60s"`
	// TokenEncoding enables tiktoken prompt accounting when set (e.g. cl100k_base).
	TokenEncoding string `envconfig:"AI_TOKEN_ENCODING"`

	// Content
	ScenesFile string `envconfig:"SCENES_FILE"`

	// Optional storage
	DatabaseURL   string        `envconfig:"DATABASE_URL"`
	DBMaxConns    int32         `envconfig:"DB_MAX_CONNECTIONS" default:"5"`
	RedisURL      string        `envconfig:"REDIS_URL"`
	ImageCacheTTL time.Duration `envconfig:"IMAGE_CACHE_TTL" default:"24h"`

	// Optional event stream
	RabbitMQURL      string `envconfig:"RABBITMQ_URL"`
	RabbitMQExchange string `envconfig:"RABBITMQ_EXCHANGE" default:"adventure.events"`

	// Search rate limit: SearchRateLimit requests per SearchRateWindow per client.
	SearchRateLimit  uint          `envconfig:"SEARCH_RATE_LIMIT" default:"5"`
	SearchRateWindow time.Duration `envconfig:"SEARCH_RATE_WINDOW" default:"1m"`
}

// credentialFallbacks are consulted in order when AI_API_KEY is empty.
var credentialFallbacks = []string{"API_KEY", "GEMINI_API_KEY"}

// Load reads .env (if present) and the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	cfg.AIProvider = strings.ToLower(strings.TrimSpace(cfg.AIProvider))
	if cfg.AIAPIKey == "" {
		for _, key := range credentialFallbacks {
			if v := os.Getenv(key); v != "" {
				cfg.AIAPIKey = v
				break
			}
		}
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.AIProvider {
	case "gemini", "openai", "ollama":
	default:
		return fmt.Errorf("unknown AI_PROVIDER %q", c.AIProvider)
	}
	if c.AITimeout <= 0 {
		return errors.New("AI_TIMEOUT must be positive")
	}
	if c.SearchRateLimit == 0 {
		return errors.New("SEARCH_RATE_LIMIT must be positive")
	}
	return nil
}

// CredentialError reports domain.ErrMissingCredential when the selected provider needs an
// API key and none is configured. A missing credential is not a load error: the server still
// starts and reports it on every game route.
func (c *Config) CredentialError() error {
	if c.AIProvider == "ollama" || c.AIAPIKey != "" {
		return nil
	}
	return domain.ErrMissingCredential
}

// IsProduction reports whether the process runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
