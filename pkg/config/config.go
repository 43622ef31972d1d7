// pkg/config/config.go
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the application configuration
type Config struct {
	// Target store and optional embedding collaborator
	Store     *StoreConfig
	Embedding *EmbeddingConfig

	// Ingest settings
	DataRoot        string
	BatchSize       int
	ClearPageSize   int
	RowDelay        time.Duration
	EmbedRowDelay   time.Duration
	EmbedRetryDelay time.Duration

	// Logging
	LogLevel  string
	LogFormat string
}

// LoadConfig loads configuration from a .env file (when present) and environment variables
func LoadConfig() (*Config, error) {
	if err := loadDotEnv(getEnv("ENV_FILE", ".env")); err != nil {
		return nil, errors.New("failed to load env file: " + err.Error())
	}

	cfg := &Config{
		DataRoot:        getEnv("DATA_ROOT", "."),
		BatchSize:       getEnvAsInt("BATCH_SIZE", 100),
		ClearPageSize:   getEnvAsInt("CLEAR_PAGE_SIZE", 1000),
		RowDelay:        time.Duration(getEnvAsInt("ROW_DELAY_MS", 50)) * time.Millisecond,
		EmbedRowDelay:   time.Duration(getEnvAsInt("EMBED_ROW_DELAY_MS", 500)) * time.Millisecond,
		EmbedRetryDelay: time.Duration(getEnvAsInt("EMBED_RETRY_DELAY_MS", 2000)) * time.Millisecond,
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "console"),
	}

	storeConfig, err := LoadStoreConfig()
	if err != nil {
		return nil, errors.New("failed to load store configuration: " + err.Error())
	}
	cfg.Store = storeConfig
	cfg.Embedding = LoadEmbeddingConfig()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures all required configuration is present and valid
func (c *Config) Validate() error {
	if c.Store == nil {
		return errors.New("store configuration is required")
	}

	if c.BatchSize <= 0 {
		return errors.New("batch size must be positive")
	}

	if c.ClearPageSize <= 0 {
		return errors.New("clear page size must be positive")
	}

	if c.RowDelay < 0 || c.EmbedRowDelay < 0 || c.EmbedRetryDelay < 0 {
		return errors.New("delays cannot be negative")
	}

	switch strings.ToLower(c.LogFormat) {
	case "json", "console":
	default:
		return errors.New("log format must be json or console")
	}

	return c.Store.Validate()
}

// loadDotEnv reads key=value pairs into the process environment without
// overriding variables that are already set. A missing file is not an error.
func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return godotenv.Load(path)
}

// Helper functions for environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
