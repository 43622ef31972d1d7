// pkg/config/embedding.go
package config

import (
	"errors"
	"time"
)

// EmbeddingConfig holds the embedding collaborator settings
type EmbeddingConfig struct {
	Enabled    bool
	APIKey     string
	Model      string
	BaseURL    string
	TaskType   string
	Dimensions int
	Timeout    time.Duration
}

// LoadEmbeddingConfig loads embedding settings from environment variables.
// A missing API key is reported by Validate, not here, because most sources
// never embed.
func LoadEmbeddingConfig() *EmbeddingConfig {
	return &EmbeddingConfig{
		Enabled:    getEnvAsBool("EMBEDDING_ENABLED", true),
		APIKey:     getEnv("GOOGLE_API_KEY", ""),
		Model:      getEnv("EMBEDDING_MODEL", "models/embedding-001"),
		BaseURL:    getEnv("EMBEDDING_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		TaskType:   getEnv("EMBEDDING_TASK_TYPE", "RETRIEVAL_DOCUMENT"),
		Dimensions: getEnvAsInt("EMBEDDING_DIMENSIONS", 768),
		Timeout:    time.Duration(getEnvAsInt("EMBEDDING_TIMEOUT_SECONDS", 30)) * time.Second,
	}
}

// Validate ensures the collaborator can be called
func (c *EmbeddingConfig) Validate() error {
	if c.APIKey == "" {
		return errors.New("GOOGLE_API_KEY environment variable is required for embeddings")
	}
	if c.Model == "" {
		return errors.New("embedding model is required")
	}
	if c.Dimensions <= 0 {
		return errors.New("embedding dimensions must be positive")
	}
	return nil
}
