package common

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	API       APIConfig
	Export    ExportConfig
	Discovery DiscoveryConfig
	Search    SearchConfig
	LogLevel  string
}

// APIConfig points at the extraction service.
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// ExportConfig holds where artifacts are written.
type ExportConfig struct {
	OutputDir string
}

// DiscoveryConfig tunes PDF link discovery on web pages.
type DiscoveryConfig struct {
	Timeout     time.Duration
	Concurrency int
}

// SearchConfig holds Google Custom Search credentials. Both empty disables search.
type SearchConfig struct {
	APIKey     string
	EngineID   string
	Endpoint   string
	NumResults int
}

// LoadConfig loads configuration from environment variables, seeded from a .env file
// in the working directory when one exists. Values already in the environment win.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("config.dotenv.load_failed", "error", err)
	}

	return &Config{
		API: APIConfig{
			BaseURL: getEnv("EXTRACT_API_URL", "http://localhost:8000"),
			Timeout: getEnvAsDuration("EXTRACT_TIMEOUT", 5*time.Minute),
		},
		Export: ExportConfig{
			OutputDir: getEnv("OUTPUT_DIR", "./data/processed"),
		},
		Discovery: DiscoveryConfig{
			Timeout:     getEnvAsDuration("DISCOVERY_TIMEOUT", 15*time.Second),
			Concurrency: getEnvAsInt("DISCOVERY_CONCURRENCY", 4),
		},
		Search: SearchConfig{
			APIKey:     getEnv("GOOGLE_API_KEY", ""),
			EngineID:   getEnv("GOOGLE_CSE_ID", ""),
			Endpoint:   getEnv("GOOGLE_CSE_ENDPOINT", "https://www.googleapis.com/customsearch/v1"),
			NumResults: getEnvAsInt("SEARCH_NUM_RESULTS", 10),
		},
		LogLevel: getEnv("LOG_LEVEL", "INFO"),
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// SlogLevel maps LogLevel onto slog. Unknown names fall back to INFO.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToUpper(strings.TrimSpace(c.LogLevel)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SearchEnabled reports whether both search credentials are present.
func (c *Config) SearchEnabled() bool {
	return c.Search.APIKey != "" && c.Search.EngineID != ""
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	v := NewValidator().
		Field("EXTRACT_API_URL", c.API.BaseURL, Required, HTTPURL).
		Field("EXTRACT_TIMEOUT", c.API.Timeout, Positive).
		Field("OUTPUT_DIR", c.Export.OutputDir, Required).
		Field("DISCOVERY_TIMEOUT", c.Discovery.Timeout, Positive).
		Field("DISCOVERY_CONCURRENCY", c.Discovery.Concurrency, Positive)
	if v.HasErrors() {
		return NewAppError("CONFIG_ERROR", v.ErrorMessage(), ErrInvalidInput)
	}
	return nil
}
