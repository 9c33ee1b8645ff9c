package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config is the whole process configuration, loaded from the environment
// with an optional .env file for local runs.
type Config struct {
	GeminiAPIKey string `envconfig:"GEMINI_API_KEY"`
	GeminiModel  string `envconfig:"GEMINI_MODEL" default:"gemini-2.0-flash"`

	CatalogPath string `envconfig:"CATALOG_PATH" default:"data/products.csv"`

	TelegramToken string `envconfig:"TELEGRAM_TOKEN"`
	HTTPAddr      string `envconfig:"HTTP_ADDR" default:":8080"`

	PostgresURL string `envconfig:"POSTGRES_URL"`
	RedisURL    string `envconfig:"REDIS_URL"`

	// ScreenDefault resolves turns that mention reading devices and
	// displays at once: "display" or "reading".
	ScreenDefault string `envconfig:"SCREEN_DEFAULT" default:"display"`
	RewriteTone   bool   `envconfig:"REWRITE_TONE" default:"true"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogPretty bool   `envconfig:"LOG_PRETTY" default:"false"`
}

// Load reads .env (when present) and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is empty")
	}
	if cfg.ScreenDefault != "display" && cfg.ScreenDefault != "reading" {
		return nil, fmt.Errorf("SCREEN_DEFAULT must be \"display\" or \"reading\", got %q", cfg.ScreenDefault)
	}
	return &cfg, nil
}
