// ABOUTME: Shared catalog loading and index building for CLI commands
// ABOUTME: Prefers the imported SQLite catalog and falls back to the CSV dataset
package commands

import (
	"fmt"
	"os"

	"github.com/harper/bookrec/internal/config"
	"github.com/harper/bookrec/internal/dataset"
	"github.com/harper/bookrec/internal/logging"
	"github.com/harper/bookrec/internal/models"
	"github.com/harper/bookrec/internal/recommender"
	"github.com/harper/bookrec/internal/storage/sqlite"
)

// currentConfig returns the config resolved by the root command, or the
// environment defaults when a subcommand runs on its own
func currentConfig() (*config.Config, error) {
	if appConfig != nil {
		return appConfig, nil
	}
	return config.Load()
}

// loadRecords returns the catalog and a description of where it came from.
// An explicit --dataset always wins; otherwise a non-empty catalog database
// is used before the CSV default.
func loadRecords(cfg *config.Config) ([]models.Book, string, error) {
	if datasetPath == "" {
		if books, ok := loadFromDB(cfg.DBPath); ok {
			return books, cfg.DBPath, nil
		}
	}

	result, err := dataset.LoadFile(cfg.DatasetPath)
	if err != nil {
		return nil, "", fmt.Errorf("loading dataset: %w", err)
	}
	if result.Skipped > 0 {
		logging.Warn().Int("skipped", result.Skipped).Str("path", cfg.DatasetPath).Msg("skipped malformed rows")
	}
	return result.Books, cfg.DatasetPath, nil
}

func loadFromDB(path string) ([]models.Book, bool) {
	if _, err := os.Stat(path); err != nil {
		return nil, false
	}

	store, err := sqlite.NewStorageWithPath(path)
	if err != nil {
		logging.Warn().Err(err).Str("path", path).Msg("catalog database unavailable")
		return nil, false
	}
	defer func() { _ = store.Close() }()

	books, err := store.LoadBooks()
	if err != nil || len(books) == 0 {
		return nil, false
	}
	return books, true
}

// buildHandle loads the catalog and fits the index over it
func buildHandle(cfg *config.Config) (*recommender.Handle, error) {
	records, source, err := loadRecords(cfg)
	if err != nil {
		return nil, err
	}
	logging.Debug().Str("source", source).Int("books", len(records)).Msg("catalog loaded")

	h, err := recommender.BuildIndex(records, cfg.Options())
	if err != nil {
		return nil, fmt.Errorf("building index: %w", err)
	}
	return h, nil
}
