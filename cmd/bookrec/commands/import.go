// ABOUTME: CLI command to import a books CSV into the catalog database
// ABOUTME: Replaces the stored catalog so later commands skip CSV parsing
package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harper/bookrec/internal/dataset"
	"github.com/harper/bookrec/internal/storage/sqlite"
)

// NewImportCmd creates the import command
func NewImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [csv]",
		Short: "Import a books CSV into the catalog database",
		Long: `Import a books CSV into the catalog database.

Malformed rows are skipped and counted. Importing again replaces the
whole catalog; book ids are the row order of the latest import.

Examples:
  bookrec import books.csv
  bookrec import --db /tmp/catalog.db books.csv`,
		Args: cobra.MaximumNArgs(1),
		RunE: runImport,
	}

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := currentConfig()
	if err != nil {
		return err
	}

	source := cfg.DatasetPath
	if len(args) == 1 {
		source = args[0]
	}

	result, err := dataset.LoadFile(source)
	if err != nil {
		return fmt.Errorf("loading dataset: %w", err)
	}

	store, err := sqlite.NewStorageWithPath(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	rec, err := store.ImportBooks(result.Books, source, result.Skipped)
	if err != nil {
		return err
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(rec, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Imported %d books (%d skipped) into %s\n", rec.BookCount, rec.Skipped, store.Path())
	}
	return nil
}
