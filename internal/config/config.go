// ABOUTME: Centralized configuration for the bookrec CLI and MCP server
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/harper/bookrec/internal/recommender"
	"github.com/harper/bookrec/internal/storage/sqlite"
)

// Config holds all configuration for the recommender
type Config struct {
	// Data sources
	DatasetPath string
	DBPath      string

	// Query pipeline
	Neighbors         int
	DropFirst         bool
	EmbedMatchedTitle bool
	MinTokenLen       int

	// Logging
	LogLevel  string
	LogFormat string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		DatasetPath:       getEnv("BOOKREC_DATASET", "books.csv"),
		DBPath:            getEnv("BOOKREC_DB_PATH", sqlite.DefaultDBPath()),
		Neighbors:         getEnvInt("BOOKREC_NEIGHBORS", 6),
		DropFirst:         getEnvBool("BOOKREC_DROP_FIRST", true),
		EmbedMatchedTitle: getEnvBool("BOOKREC_EMBED_MATCHED_TITLE", false),
		MinTokenLen:       getEnvInt("BOOKREC_MIN_TOKEN_LEN", 2),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFormat:         getEnv("LOG_FORMAT", "console"),
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.Neighbors < 2 || c.Neighbors > 50 {
		return fmt.Errorf("BOOKREC_NEIGHBORS must be 2-50, got %d", c.Neighbors)
	}
	if c.MinTokenLen < 1 || c.MinTokenLen > 10 {
		return fmt.Errorf("BOOKREC_MIN_TOKEN_LEN must be 1-10, got %d", c.MinTokenLen)
	}
	switch strings.ToLower(c.LogFormat) {
	case "console", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be console or json, got %q", c.LogFormat)
	}
	return nil
}

// Options converts the pipeline settings for recommender.BuildIndex
func (c *Config) Options() recommender.Options {
	return recommender.Options{
		K:                 c.Neighbors,
		DropFirst:         c.DropFirst,
		EmbedMatchedTitle: c.EmbedMatchedTitle,
		MinTokenLen:       c.MinTokenLen,
	}
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v == "true" || v == "1"
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}
