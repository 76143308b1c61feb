// ABOUTME: MCP command starts Model Context Protocol server
// ABOUTME: Enables LLM agents like Claude to request book recommendations via stdio
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harper/bookrec/internal/logging"
	"github.com/harper/bookrec/internal/mcp"
	"github.com/harper/bookrec/internal/recommender"
	"github.com/harper/bookrec/internal/storage/sqlite"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs bookrec as an MCP (Model Context Protocol) server, exposing the
recommend_books, get_book_details, match_title and index_stats tools
via stdio. The index is built once at startup.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by Claude Desktop)
  bookrec mcp

  # Configure in claude_desktop_config.json:
  # {
  #   "mcpServers": {
  #     "bookrec": {
  #       "command": "bookrec",
  #       "args": ["mcp", "--dataset", "/path/to/books.csv"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, args []string) error {
	cfg, err := currentConfig()
	if err != nil {
		return err
	}

	h, err := buildHandle(cfg)
	if err != nil {
		return err
	}
	svc := recommender.NewService(h)

	// catalog stats are optional for index_stats
	var store *sqlite.Storage
	if _, err := os.Stat(cfg.DBPath); err == nil {
		if store, err = sqlite.NewStorageWithPath(cfg.DBPath); err != nil {
			logging.Warn().Err(err).Msg("catalog database unavailable")
			store = nil
		}
	}

	server := mcp.NewServer(versionInfo.Version, svc, store)

	// Setup graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.Info().Str("handle", h.ID).Int("books", h.Len()).Msg("MCP server starting on stdio")

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-ctx.Done():
		logging.Info().Msg("shutdown signal received")
		if store != nil {
			if err := store.Close(); err != nil {
				logging.Warn().Err(err).Msg("error closing storage")
			}
		}
		logging.Info().Msg("shutdown complete")

	case err := <-serverErr:
		if store != nil {
			_ = store.Close()
		}
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	return nil
}
