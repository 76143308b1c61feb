// ABOUTME: CLI command to export the catalog database
// ABOUTME: Writes YAML or JSON depending on the output file extension
package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harper/bookrec/internal/storage/sqlite"
)

var exportOutput string

// NewExportCmd creates the export command
func NewExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the catalog to YAML or JSON",
		Long: `Export the imported catalog to a file.

A .json output path writes JSON; anything else writes YAML.

Examples:
  bookrec export
  bookrec export --output catalog.json`,
		Args: cobra.NoArgs,
		RunE: runExport,
	}

	cmd.Flags().StringVarP(&exportOutput, "output", "o", "bookrec-export.yaml", "Output file path")

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := currentConfig()
	if err != nil {
		return err
	}

	store, err := sqlite.NewStorageWithPath(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	if isJSONPath(exportOutput) {
		err = store.ExportToJSON(exportOutput)
	} else {
		err = store.ExportToYAML(exportOutput)
	}
	if err != nil {
		return fmt.Errorf("exporting catalog: %w", err)
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported catalog to %s\n", exportOutput)
	}
	return nil
}

func isJSONPath(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}
