package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"onboarding-buddy-be/pkg/llm"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Ai       AIConfig
	Session  SessionConfig
	Otel     OtelConfig
}

type AppConfig struct {
	Port               string `env:"APP_PORT" envDefault:"3000"`
	Environment        string `env:"GO_ENV" envDefault:"development"`
	LogFilePath        string `env:"LOG_FILE_PATH" envDefault:"logs/app.log"`
	HubLogFilePath     string `env:"HUB_LOG_FILE_PATH" envDefault:"logs/hub.log"`
	CorsAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*"`
	NatsURL            string `env:"NATS_URL"`
	RedisURL           string `env:"REDIS_URL"`
	InstanceID         string `env:"INSTANCE_ID"`
	UploadMaxBytes     int64  `env:"UPLOAD_MAX_BYTES" envDefault:"52428800"`
}

type DatabaseConfig struct {
	Connection string `env:"DB_CONNECTION_STRING"`
}

type AIConfig struct {
	ProviderFamily     string        `env:"AI_PROVIDER_FAMILY" envDefault:"chat"`
	APIURL             string        `env:"AI_API_URL"`
	APIKey             string        `env:"AI_API_KEY"`
	APIVersion         string        `env:"AI_API_VERSION"`
	Model              string        `env:"AI_MODEL" envDefault:"gpt-4o-mini"`
	MaxTokens          int           `env:"AI_MAX_TOKENS" envDefault:"1000"`
	Temperature        float64       `env:"AI_TEMPERATURE" envDefault:"0.7"`
	RequestTimeout     time.Duration `env:"AI_REQUEST_TIMEOUT" envDefault:"60s"`
	StatefulMode       bool          `env:"AI_STATEFUL_MODE" envDefault:"false"`
	StoreConversations bool          `env:"AI_STORE_CONVERSATIONS" envDefault:"true"`
	MaxContextTokens   int           `env:"AI_MAX_CONTEXT_TOKENS" envDefault:"0"`

	// Family is resolved from ProviderFamily once, during Load.
	Family llm.Family `env:"-"`
}

type SessionConfig struct {
	Timeout       time.Duration `env:"SESSION_TIMEOUT" envDefault:"60m"`
	SweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" envDefault:"10m"`
}

type OtelConfig struct {
	Enabled  bool   `env:"OTEL_ENABLED" envDefault:"false"`
	Endpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}
	return Parse()
}

// Parse reads the configuration from the current process environment only.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	family, err := llm.ParseFamily(cfg.Ai.ProviderFamily)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.Ai.Family = family

	if cfg.App.InstanceID == "" {
		cfg.App.InstanceID = uuid.NewString()
	}
	return cfg, nil
}

// AIConfigured reports whether a provider endpoint has been supplied.
func (c *AIConfig) AIConfigured() bool {
	return strings.TrimSpace(c.APIURL) != ""
}

func (c *AppConfig) IsProduction() bool {
	return c.Environment == "production"
}
