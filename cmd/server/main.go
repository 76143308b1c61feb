// ABOUTME: Main entry point for the bookrec MCP server with stdio transport
// ABOUTME: Loads config, builds the index once and serves the recommendation tools
package main

import (
	"os"

	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/harper/bookrec/internal/config"
	"github.com/harper/bookrec/internal/dataset"
	"github.com/harper/bookrec/internal/logging"
	"github.com/harper/bookrec/internal/mcp"
	"github.com/harper/bookrec/internal/models"
	"github.com/harper/bookrec/internal/recommender"
	"github.com/harper/bookrec/internal/storage/sqlite"
)

var version = "dev"

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Error().Err(err).Msg("invalid configuration")
		os.Exit(1)
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.LogLevel
	logCfg.Format = cfg.LogFormat
	logging.Init(logCfg)

	var (
		store   *sqlite.Storage
		records []models.Book
	)
	if _, err := os.Stat(cfg.DBPath); err == nil {
		store, err = sqlite.NewStorageWithPath(cfg.DBPath)
		if err != nil {
			logging.Error().Err(err).Str("path", cfg.DBPath).Msg("failed to open catalog")
			os.Exit(1)
		}
		defer func() { _ = store.Close() }()

		if records, err = store.LoadBooks(); err != nil {
			logging.Error().Err(err).Msg("failed to load catalog")
			os.Exit(1)
		}
	}

	if len(records) == 0 {
		result, err := dataset.LoadFile(cfg.DatasetPath)
		if err != nil {
			logging.Error().Err(err).Str("path", cfg.DatasetPath).Msg("failed to load dataset")
			os.Exit(1)
		}
		records = result.Books
	}

	h, err := recommender.BuildIndex(records, cfg.Options())
	if err != nil {
		logging.Error().Err(err).Msg("failed to build index")
		os.Exit(1)
	}

	server := mcp.NewServer(version, recommender.NewService(h), store)

	logging.Info().Str("handle", h.ID).Int("books", h.Len()).Msg("MCP server starting on stdio")
	if err := mcpserver.ServeStdio(server); err != nil {
		logging.Error().Err(err).Msg("server error")
		os.Exit(1)
	}
}
