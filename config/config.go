package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// Storage drivers.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config struct to hold the configuration settings
type Config struct {
	Postgres      PostgresConfig      `yaml:"postgres"`
	NATS          NATSConfig          `yaml:"nats"`
	HTTP          HTTPConfig          `yaml:"http"`
	Storage       StorageConfig       `yaml:"storage"`
	Scoring       ScoringConfig       `yaml:"scoring"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// PostgresConfig holds Postgres configuration.
type PostgresConfig struct {
	DSN          string `yaml:"dsn"`
	MaxOpenConns int    `yaml:"max_open_conns" split_words:"true"`
	AutoMigrate  bool   `yaml:"auto_migrate" split_words:"true"`
}

// NATSConfig holds NATS configuration. An empty URL runs the event bus
// in process.
type NATSConfig struct {
	URL        string `yaml:"url"`
	QueueGroup string `yaml:"queue_group" split_words:"true"`
}

// HTTPConfig holds the read API listener settings. An empty Address
// disables the listener.
type HTTPConfig struct {
	Address        string   `yaml:"address"`
	AllowedOrigins []string `yaml:"allowed_origins" split_words:"true"`
	RateLimit      float64  `yaml:"rate_limit" split_words:"true"`
	RateBurst      int      `yaml:"rate_burst" split_words:"true"`
}

// StorageConfig selects the repository implementation.
type StorageConfig struct {
	Driver string `yaml:"driver"`
}

// ScoringConfig tunes the scoring service and the ledger audit.
type ScoringConfig struct {
	StoreTimeout      time.Duration `yaml:"store_timeout" split_words:"true"`
	MaxCategoryLength int           `yaml:"max_category_length" split_words:"true"`
	MaxListLimit      int           `yaml:"max_list_limit" split_words:"true"`
	// AuditSchedule is a cron expression; empty disables the audit job.
	AuditSchedule string        `yaml:"audit_schedule" split_words:"true"`
	AuditLookback time.Duration `yaml:"audit_lookback" split_words:"true"`
}

// ObservabilityConfig holds configuration for observability components
type ObservabilityConfig struct {
	Environment      string `yaml:"environment"`
	ServiceName      string `yaml:"service_name" split_words:"true"`
	LogLevel         string `yaml:"log_level" split_words:"true"`
	MetricsNamespace string `yaml:"metrics_namespace" split_words:"true"`
}

// Defaults returns the configuration used for absent settings.
func Defaults() Config {
	return Config{
		Postgres: PostgresConfig{MaxOpenConns: 10},
		NATS:     NATSConfig{QueueGroup: "score-bot"},
		HTTP: HTTPConfig{
			Address:   ":8080",
			RateLimit: 10,
			RateBurst: 20,
		},
		Storage: StorageConfig{Driver: DriverPostgres},
		Scoring: ScoringConfig{
			StoreTimeout:      5 * time.Second,
			MaxCategoryLength: 64,
			MaxListLimit:      500,
			AuditSchedule:     "@hourly",
			AuditLookback:     time.Hour,
		},
		Observability: ObservabilityConfig{
			Environment:      "development",
			ServiceName:      "score-bot",
			LogLevel:         "info",
			MetricsNamespace: "score_bot",
		},
	}
}

// LoadConfig starts from Defaults, overlays the YAML file when it exists,
// then environment variables (POSTGRES_DSN, NATS_URL, HTTP_ADDRESS,
// STORAGE_DRIVER, SCORING_STORE_TIMEOUT, ...), and validates the result.
func LoadConfig(filename string) (*Config, error) {
	cfg := Defaults()

	if filename != "" {
		data, err := os.ReadFile(filename)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to unmarshal config: %w", err)
			}
		}
	}

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	// --- LEGACY ENV NAMES ---
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("ENV"); v != "" {
		cfg.Observability.Environment = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverPostgres:
		if c.Postgres.DSN == "" {
			return errors.New("postgres.dsn is required for the postgres storage driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Scoring.StoreTimeout <= 0 {
		return fmt.Errorf("scoring.store_timeout must be positive, got %s", c.Scoring.StoreTimeout)
	}
	if c.Scoring.MaxCategoryLength <= 0 {
		return fmt.Errorf("scoring.max_category_length must be positive, got %d", c.Scoring.MaxCategoryLength)
	}
	if c.Scoring.AuditSchedule != "" {
		if _, err := cron.ParseStandard(c.Scoring.AuditSchedule); err != nil {
			return fmt.Errorf("scoring.audit_schedule: %w", err)
		}
		if c.Scoring.AuditLookback <= 0 {
			return fmt.Errorf("scoring.audit_lookback must be positive, got %s", c.Scoring.AuditLookback)
		}
	}
	if c.HTTP.RateLimit < 0 {
		return fmt.Errorf("http.rate_limit must not be negative, got %v", c.HTTP.RateLimit)
	}
	return nil
}

// IsProduction reports whether the environment is production.
func (c *Config) IsProduction() bool {
	return c.Observability.Environment == "production"
}
