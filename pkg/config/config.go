package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
	// Embedded zone database so CAPTURE_TIMEZONE does not depend on the host.
	_ "time/tzdata"

	"github.com/joho/godotenv"

	"github.com/eric1207cvb/expense-capture/pkg/money"
)

// Config holds all application configuration
type Config struct {
	Server        ServerConfig
	Capture       CaptureConfig
	Observability ObservabilityConfig
	Gemini        GeminiConfig
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type ServerConfig struct {
	Host               string
	Port               int
	RateLimitPerSecond int
	RateLimitBurst     int
	AllowedOrigins     []string
}

type CaptureConfig struct {
	Location     *time.Location
	Currency     string
	ModelEnabled bool
	ModelTimeout time.Duration
}

type ObservabilityConfig struct {
	MetricsEnabled bool
	MetricsPort    int
	LogLevel       slog.Level
}

// Load reads configuration from environment variables, after loading a .env
// file from the working directory when one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	tzName := getEnv("CAPTURE_TIMEZONE", "Asia/Taipei")
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("invalid CAPTURE_TIMEZONE %q: %w", tzName, err)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:               getEnv("SERVER_HOST", "localhost"),
			Port:               getEnvAsInt("SERVER_PORT", 8080),
			RateLimitPerSecond: getEnvAsInt("SERVER_RATE_LIMIT_PER_SECOND", 100),
			RateLimitBurst:     getEnvAsInt("SERVER_RATE_LIMIT_BURST", 200),
			AllowedOrigins:     getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Capture: CaptureConfig{
			Location:     loc,
			Currency:     strings.ToUpper(getEnv("CAPTURE_CURRENCY", money.TWD)),
			ModelEnabled: getEnvAsBool("CAPTURE_MODEL_ENABLED", false),
			ModelTimeout: time.Duration(getEnvAsInt("CAPTURE_MODEL_TIMEOUT_MS", 4000)) * time.Millisecond,
		},
		Observability: ObservabilityConfig{
			MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
			MetricsPort:    getEnvAsInt("METRICS_PORT", 9090),
			LogLevel:       level,
		},
		Gemini: GeminiConfig{
			APIKey: getEnv("GEMINI_API_KEY", ""),
			Model:  getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		},
	}

	if !money.IsKnownCurrency(cfg.Capture.Currency) {
		return nil, fmt.Errorf("unknown CAPTURE_CURRENCY %q", cfg.Capture.Currency)
	}

	if cfg.Capture.ModelEnabled && cfg.Gemini.APIKey == "" {
		return nil, errors.New("GEMINI_API_KEY is required when CAPTURE_MODEL_ENABLED is set")
	}

	return cfg, nil
}

// Addr returns the host:port the API listens on
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
