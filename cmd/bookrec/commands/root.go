// ABOUTME: Root command for the bookrec CLI
// ABOUTME: Wires global flags, .env loading, config and logging before any subcommand runs
package commands

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/harper/bookrec/internal/config"
	"github.com/harper/bookrec/internal/logging"
)

var (
	verbose      bool
	quiet        bool
	outputFormat string
	datasetPath  string
	dbPath       string

	// appConfig is resolved in PersistentPreRunE
	appConfig *config.Config
)

const banner = `
██████   ██████   ██████  ██   ██ ██████  ███████  ██████
██   ██ ██    ██ ██    ██ ██  ██  ██   ██ ██      ██
██████  ██    ██ ██    ██ █████   ██████  █████   ██
██   ██ ██    ██ ██    ██ ██  ██  ██   ██ ██      ██
██████   ██████   ██████  ██   ██ ██   ██ ███████  ██████
`

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bookrec",
		Short: "Content-based book recommendations from a Goodreads-style catalog",
		Long: banner + `
Recommend books similar to a title or keyword.

A query is fuzzy-matched to the closest catalog title, embedded with
TF-IDF title features, and compared against every book (title terms,
rating bucket, language, average rating and ratings count) by cosine
distance.

The catalog is read from the SQLite database created by "bookrec import",
or straight from a CSV file with --dataset.`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Only log errors")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "auto", "Output format (auto, table, json)")
	cmd.PersistentFlags().StringVar(&datasetPath, "dataset", "", "Path to the books CSV (default $BOOKREC_DATASET or books.csv)")
	cmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to the catalog database (default $BOOKREC_DB_PATH or XDG data dir)")

	cmd.AddCommand(
		NewRecommendCmd(),
		NewDetailCmd(),
		NewImportCmd(),
		NewExportCmd(),
		NewStatsCmd(),
		NewMCPCmd(),
		NewVersionCmd(),
	)

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

func setup(cmd *cobra.Command, args []string) error {
	if verbose && quiet {
		return fmt.Errorf("--verbose and --quiet are mutually exclusive")
	}

	// .env is optional
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if datasetPath != "" {
		cfg.DatasetPath = datasetPath
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}

	switch outputFormat {
	case "auto", "table", "json":
	default:
		return fmt.Errorf("--format must be auto, table or json, got %q", outputFormat)
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.LogLevel
	logCfg.Format = cfg.LogFormat
	logCfg.Output = cmd.ErrOrStderr()
	if verbose {
		logCfg.Level = "debug"
	}
	if quiet {
		logCfg.Level = "error"
	}
	logging.Init(logCfg)

	appConfig = cfg
	return nil
}
