// ABOUTME: CLI command to show the full record of one book
// ABOUTME: Looks up a book id returned by recommend
package commands

import (
	"encoding/json"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harper/bookrec/internal/models"
	"github.com/harper/bookrec/internal/recommender"
)

// NewDetailCmd creates the detail command
func NewDetailCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detail <id>",
		Short: "Show details for a book id",
		Long: `Show the full catalog record for a book id.

Ids are the ones printed by "bookrec recommend".

Examples:
  bookrec detail 42
  bookrec detail 42 --format json`,
		Args: cobra.ExactArgs(1),
		RunE: runDetail,
	}

	return cmd
}

func runDetail(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid book id %q: %w", args[0], err)
	}

	cfg, err := currentConfig()
	if err != nil {
		return err
	}

	records, _, err := loadRecords(cfg)
	if err != nil {
		return err
	}

	book, err := recommender.GetDetail(records, id)
	if err != nil {
		return err
	}

	return printBook(cmd, book)
}

func printBook(cmd *cobra.Command, book models.Book) error {
	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(book, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID:\t%d\n", book.ID)
	fmt.Fprintf(w, "Title:\t%s\n", book.Title)
	fmt.Fprintf(w, "Authors:\t%s\n", book.Authors)
	fmt.Fprintf(w, "Rating:\t%.2f (%d ratings, %d reviews)\n", book.AverageRating, book.RatingsCount, book.TextReviewsCount)
	fmt.Fprintf(w, "Language:\t%s\n", book.Language())
	fmt.Fprintf(w, "Pages:\t%d\n", book.NumPages)
	if book.PublicationDate != "" {
		fmt.Fprintf(w, "Published:\t%s\n", book.PublicationDate)
	}
	if book.Publisher != "" {
		fmt.Fprintf(w, "Publisher:\t%s\n", book.Publisher)
	}
	if book.ISBN13 != "" {
		fmt.Fprintf(w, "ISBN13:\t%s\n", book.ISBN13)
	} else if book.ISBN != "" {
		fmt.Fprintf(w, "ISBN:\t%s\n", book.ISBN)
	}
	return w.Flush()
}
