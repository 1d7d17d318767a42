package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CAPTURE_TIMEZONE", "")
	t.Setenv("CAPTURE_CURRENCY", "")
	t.Setenv("CAPTURE_MODEL_ENABLED", "")
	t.Setenv("LOG_LEVEL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Asia/Taipei", cfg.Capture.Location.String())
	assert.Equal(t, "TWD", cfg.Capture.Currency)
	assert.False(t, cfg.Capture.ModelEnabled)
	assert.Equal(t, 4*time.Second, cfg.Capture.ModelTimeout)
	assert.Equal(t, slog.LevelInfo, cfg.Observability.LogLevel)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("CAPTURE_TIMEZONE", "UTC")
	t.Setenv("CAPTURE_CURRENCY", "usd")
	t.Setenv("CAPTURE_MODEL_TIMEOUT_MS", "250")
	t.Setenv("SERVER_PORT", "9999")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, time.UTC, cfg.Capture.Location)
	assert.Equal(t, "USD", cfg.Capture.Currency)
	assert.Equal(t, 250*time.Millisecond, cfg.Capture.ModelTimeout)
	assert.Equal(t, "localhost:9999", cfg.Server.Addr())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, slog.LevelDebug, cfg.Observability.LogLevel)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("unknown timezone", func(t *testing.T) {
		t.Setenv("CAPTURE_TIMEZONE", "Mars/Olympus")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("unknown currency", func(t *testing.T) {
		t.Setenv("CAPTURE_TIMEZONE", "UTC")
		t.Setenv("CAPTURE_CURRENCY", "ZZZ")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("model without api key", func(t *testing.T) {
		t.Setenv("CAPTURE_TIMEZONE", "UTC")
		t.Setenv("CAPTURE_CURRENCY", "TWD")
		t.Setenv("CAPTURE_MODEL_ENABLED", "true")
		t.Setenv("GEMINI_API_KEY", "")
		_, err := Load()
		assert.Error(t, err)
	})
}
