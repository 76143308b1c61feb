// ABOUTME: CLI command to describe the catalog and the fitted index
// ABOUTME: Shows book counts, languages, vocabulary size and feature dimension
package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harper/bookrec/internal/recommender"
	"github.com/harper/bookrec/internal/storage/sqlite"
)

// NewStatsCmd creates the stats command
func NewStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show catalog and index statistics",
		Long: `Show catalog and index statistics.

Builds the index from the current catalog and reports its vocabulary
size, languages and feature dimension, plus the last import when a
catalog database exists.

Examples:
  bookrec stats
  bookrec stats --format json`,
		Args: cobra.NoArgs,
		RunE: runStats,
	}

	return cmd
}

type statsOutput struct {
	Index   recommender.Stats    `json:"index"`
	Catalog *sqlite.CatalogStats `json:"catalog,omitempty"`
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := currentConfig()
	if err != nil {
		return err
	}

	h, err := buildHandle(cfg)
	if err != nil {
		return err
	}
	out := statsOutput{Index: h.Stats()}

	if _, err := os.Stat(cfg.DBPath); err == nil {
		store, err := sqlite.NewStorageWithPath(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("initializing storage: %w", err)
		}
		defer func() { _ = store.Close() }()

		if out.Catalog, err = store.Stats(); err != nil {
			return err
		}
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Books:\t%d\n", out.Index.Books)
	fmt.Fprintf(w, "Vocabulary:\t%d terms\n", out.Index.VocabularySize)
	fmt.Fprintf(w, "Languages:\t%d (%s)\n", len(out.Index.Languages), strings.Join(out.Index.Languages, ", "))
	fmt.Fprintf(w, "Dimension:\t%d\n", out.Index.Dimension)
	fmt.Fprintf(w, "Neighbors:\t%d (drop first: %v)\n", out.Index.K, out.Index.DropFirst)
	if c := out.Catalog; c != nil {
		fmt.Fprintf(w, "Database:\t%s (%d books)\n", c.DBPath, c.BookCount)
		if c.LastImport != nil {
			fmt.Fprintf(w, "Last import:\t%s from %s, %d skipped\n",
				formatTime(c.LastImport.ImportedAt), c.LastImport.Source, c.LastImport.Skipped)
		}
		if len(c.Languages) > 0 {
			fmt.Fprintf(w, "Top languages:\t%s\n", topLanguages(c.Languages, 5))
		}
	}
	return w.Flush()
}

// topLanguages renders the n most common language codes, ties by code
func topLanguages(counts map[string]int, n int) string {
	codes := make([]string, 0, len(counts))
	for code := range counts {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool {
		if counts[codes[i]] != counts[codes[j]] {
			return counts[codes[i]] > counts[codes[j]]
		}
		return codes[i] < codes[j]
	})
	if len(codes) > n {
		codes = codes[:n]
	}

	parts := make([]string, len(codes))
	for i, code := range codes {
		parts[i] = fmt.Sprintf("%s=%d", code, counts[code])
	}
	return strings.Join(parts, " ")
}
