package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

type Config struct {
	AppEnv string `env:"APP_ENV" default:"development"`
	Port   string `env:"PORT" default:"8080"`

	StoreBackend string `env:"STORE_BACKEND" default:"memory"`
	DatabaseURL  string `env:"DATABASE_URL"`
	RedisURL     string `env:"REDIS_URL"`

	AlphaVantageAPIKey string `env:"ALPHAVANTAGE_API_KEY"`
	FinnhubAPIKey      string `env:"FINNHUB_API_KEY"`

	ClassifierURL string `env:"CLASSIFIER_URL"`

	Subjects          string        `env:"SUBJECTS"`
	RefreshInterval   time.Duration `env:"REFRESH_INTERVAL" default:"15m"`
	DefaultWindowDays int           `env:"DEFAULT_WINDOW_DAYS" default:"7"`

	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	switch cfg.StoreBackend {
	case StoreMemory:
	case StorePostgres:
		if cfg.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORE_BACKEND=%s", StorePostgres)
		}
	case StoreRedis:
		if cfg.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required when STORE_BACKEND=%s", StoreRedis)
		}
	default:
		return fmt.Errorf("STORE_BACKEND must be one of %s, %s, %s", StoreMemory, StorePostgres, StoreRedis)
	}

	if cfg.RefreshInterval < time.Minute {
		return fmt.Errorf("REFRESH_INTERVAL must be at least 1m, got %s", cfg.RefreshInterval)
	}

	if cfg.DefaultWindowDays < 1 {
		return fmt.Errorf("DEFAULT_WINDOW_DAYS must be at least 1, got %d", cfg.DefaultWindowDays)
	}

	return nil
}

// SubjectList splits the comma-separated SUBJECTS setting into trimmed,
// non-empty entries. An empty setting disables the background collector.
func (c *Config) SubjectList() []string {
	if c.Subjects == "" {
		return nil
	}

	parts := strings.Split(c.Subjects, ",")
	subjects := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			subjects = append(subjects, s)
		}
	}
	return subjects
}
