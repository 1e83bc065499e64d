package config

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port  string `envconfig:"PORT" default:"8080"`
	Debug bool   `envconfig:"DEBUG" default:"false"`

	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	OpenAIAPIKey string `envconfig:"OPENAI_API_KEY"`

	// Embedding pipeline. The model and its dimensionality are pinned here so
	// ingestion and querying always agree.
	EmbeddingModel      string `envconfig:"EMBEDDING_MODEL" default:"text-embedding-ada-002"`
	EmbeddingDimensions int    `envconfig:"EMBEDDING_DIMENSIONS" default:"1536"`
	EmbeddingMaxTokens  int    `envconfig:"EMBEDDING_MAX_TOKENS" default:"8191"`

	// Retrieval.
	MatchThreshold float32 `envconfig:"MATCH_THRESHOLD" default:"0.7"`
	MatchCount     int     `envconfig:"MATCH_COUNT" default:"6"`

	// Answer synthesis.
	ChatModel       string  `envconfig:"CHAT_MODEL" default:"gpt-3.5-turbo"`
	ChatMaxTokens   int     `envconfig:"CHAT_MAX_TOKENS" default:"150"`
	ChatTemperature float32 `envconfig:"CHAT_TEMPERATURE" default:"0.7"`

	// Background ingest worker.
	WorkerPollSeconds int `envconfig:"WORKER_POLL_SECONDS" default:"5"`

	// Optional raw-upload archive (S3-compatible).
	S3Endpoint  string `envconfig:"S3_ENDPOINT"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY_ID"`
	S3SecretKey string `envconfig:"S3_SECRET_ACCESS_KEY"`
	S3Bucket    string `envconfig:"S3_BUCKET" default:"ragline-documents"`
	S3Region    string `envconfig:"S3_REGION" default:"us-east-1"`

	SentryDSN         string  `envconfig:"SENTRY_DSN"`
	SentryEnvironment string  `envconfig:"SENTRY_ENVIRONMENT" default:"development"`
	SentrySampleRate  float64 `envconfig:"SENTRY_SAMPLE_RATE" default:"1.0"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("RAGLINE", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

func (c *Config) HasS3() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

func (c *Config) HasOpenAI() bool {
	return c.OpenAIAPIKey != ""
}
