package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		AppEnv:            "development",
		Port:              "8080",
		StoreBackend:      StoreMemory,
		RefreshInterval:   15 * time.Minute,
		DefaultWindowDays: 7,
	}
}

func TestValidate(t *testing.T) {
	t.Run("memory backend needs no connection URL", func(t *testing.T) {
		require.NoError(t, validate(validConfig()))
	})

	t.Run("postgres backend requires DATABASE_URL", func(t *testing.T) {
		cfg := validConfig()
		cfg.StoreBackend = StorePostgres

		err := validate(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DATABASE_URL")

		cfg.DatabaseURL = "postgres://localhost/stockpulse"
		require.NoError(t, validate(cfg))
	})

	t.Run("redis backend requires REDIS_URL", func(t *testing.T) {
		cfg := validConfig()
		cfg.StoreBackend = StoreRedis

		err := validate(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "REDIS_URL")

		cfg.RedisURL = "redis://localhost:6379"
		require.NoError(t, validate(cfg))
	})

	t.Run("unknown backend rejected", func(t *testing.T) {
		cfg := validConfig()
		cfg.StoreBackend = "cassandra"

		err := validate(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "STORE_BACKEND")
	})

	t.Run("refresh interval lower bound", func(t *testing.T) {
		cfg := validConfig()
		cfg.RefreshInterval = 10 * time.Second

		err := validate(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "REFRESH_INTERVAL")
	})

	t.Run("window days lower bound", func(t *testing.T) {
		cfg := validConfig()
		cfg.DefaultWindowDays = 0

		err := validate(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DEFAULT_WINDOW_DAYS")
	})
}

func TestSubjectList(t *testing.T) {
	tests := []struct {
		name     string
		subjects string
		want     []string
	}{
		{"empty", "", nil},
		{"single", "AAPL", []string{"AAPL"}},
		{"multiple with spaces", "AAPL, TSLA ,MSFT", []string{"AAPL", "TSLA", "MSFT"}},
		{"skips empty entries", "AAPL,,TSLA,", []string{"AAPL", "TSLA"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Subjects = tt.subjects
			assert.Equal(t, tt.want, cfg.SubjectList())
		})
	}
}
