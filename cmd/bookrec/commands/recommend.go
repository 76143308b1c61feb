// ABOUTME: CLI command to recommend books for a title or keyword
// ABOUTME: Prints the fuzzy match and its nearest neighbors as a table or JSON
package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harper/bookrec/internal/bookerr"
	"github.com/harper/bookrec/internal/models"
	"github.com/harper/bookrec/internal/recommender"
)

// NewRecommendCmd creates the recommend command
func NewRecommendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recommend <title or keyword>",
		Short: "Recommend books similar to a title",
		Long: `Recommend books similar to a title or keyword.

The query is matched to the closest catalog title (typos are fine), then
the most similar books are ranked by cosine similarity over title terms,
rating and language features.

Examples:
  bookrec recommend harry potter
  bookrec recommend "the hobit"
  bookrec recommend dune --format json`,
		Args: cobra.MinimumNArgs(1),
		RunE: runRecommend,
	}

	return cmd
}

func runRecommend(cmd *cobra.Command, args []string) error {
	cfg, err := currentConfig()
	if err != nil {
		return err
	}

	query := strings.Join(args, " ")
	// rejected before the catalog is loaded
	if err := recommender.ValidateQuery(query); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", err)
		return nil
	}

	h, err := buildHandle(cfg)
	if err != nil {
		return err
	}

	result, err := recommender.Recommend(h, query)
	if err != nil {
		var verr *bookerr.ValidationError
		if errors.As(err, &verr) {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", verr.Error())
			return nil
		}
		return err
	}

	return printRecommendations(cmd, result)
}

func printRecommendations(cmd *cobra.Command, result *models.RecommendResult) error {
	if outputFormat == "json" {
		payload := struct {
			Query           string                        `json:"query"`
			BestMatch       models.TitleMatch             `json:"best_match"`
			Recommendations []models.ScoredRecommendation `json:"recommendations"`
		}{result.Query, result.Match, result.Scored()}

		jsonData, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Best match: %s (score %d)\n\n", result.Match.Title, result.Match.Score)

	if len(result.Recommendations) == 0 {
		if !quiet {
			fmt.Fprintf(out, "No recommendations found\n")
		}
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "#\tID\tTITLE\tSIMILARITY\tDISTANCE\n")
	fmt.Fprintf(w, "-\t--\t-----\t----------\t--------\n")
	for i, rec := range result.Scored() {
		fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%.4f\n", i+1, rec.ID, truncate(rec.Title, 60), formatSimilarity(rec.Similarity), rec.Distance)
	}
	return w.Flush()
}
