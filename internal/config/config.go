package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Storage backends. The backend is selected once at startup from the
// environment; no code path branches on it per request.
const (
	BackendSupabase = "supabase"
	BackendMemory   = "memory"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string        `envconfig:"HTTP_ADDR" default:":8080"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat       string        `envconfig:"LOG_FORMAT" default:"json"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`

	// Ingestion limits.
	BatchSize      int   `envconfig:"BATCH_SIZE" default:"500"`
	MaxUploadBytes int64 `envconfig:"MAX_UPLOAD_BYTES" default:"26214400"` // 25 MiB

	// Supabase (PostgREST) storage collaborator. Leaving SUPABASE_URL unset
	// selects the in-memory store.
	SupabaseURL     string        `envconfig:"SUPABASE_URL"`
	SupabaseKey     string        `envconfig:"SUPABASE_SERVICE_KEY"`
	SupabaseTable   string        `envconfig:"SUPABASE_TABLE" default:"sensor_readings"`
	SupabaseTimeout time.Duration `envconfig:"SUPABASE_TIMEOUT" default:"30s"`

	// Accepted-readings Kafka feed (optional).
	KafkaBrokers []string `envconfig:"KAFKA_BROKERS"`
	KafkaTopic   string   `envconfig:"KAFKA_TOPIC" default:"accepted-readings"`
	KafkaEnabled bool     `envconfig:"KAFKA_ENABLED"`
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}

	if cfg.BatchSize <= 0 {
		return nil, errors.New("BATCH_SIZE must be positive")
	}
	if cfg.MaxUploadBytes <= 0 {
		return nil, errors.New("MAX_UPLOAD_BYTES must be positive")
	}
	if cfg.ShutdownTimeout <= 0 {
		return nil, errors.New("invalid SHUTDOWN_TIMEOUT")
	}
	if cfg.SupabaseURL != "" && cfg.SupabaseKey == "" {
		return nil, errors.New("SUPABASE_URL is set but SUPABASE_SERVICE_KEY is not")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}

	return &cfg, nil
}

// StorageBackend reports which collaborator the configuration selects.
func (c *Config) StorageBackend() string {
	if c.SupabaseURL != "" {
		return BackendSupabase
	}
	return BackendMemory
}
