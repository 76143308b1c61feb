// ABOUTME: MCP tool definitions and registration for the bookrec server
// ABOUTME: Defines JSON schemas for the recommendation, detail, match and stats tools
package mcp

import (
	"github.com/harper/bookrec/internal/recommender"
	"github.com/harper/bookrec/internal/storage/sqlite"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// ServerName is the name advertised to MCP clients
const ServerName = "Book Recommender"

// NewServer creates an MCP server with every bookrec tool registered
func NewServer(version string, svc *recommender.Service, store *sqlite.Storage) *mcpserver.MCPServer {
	server := mcpserver.NewMCPServer(ServerName, version)
	RegisterTools(server, svc, store)
	return server
}

// RegisterTools registers all MCP tools with the server. store may be nil
// when the index was built straight from a CSV file.
func RegisterTools(server *mcpserver.MCPServer, svc *recommender.Service, store *sqlite.Storage) *Handlers {
	handlers := NewHandlers(svc, store)

	// 1. recommend_books - the full query pipeline
	server.AddTool(mcp.Tool{
		Name:        "recommend_books",
		Description: "Recommend books similar to a title or keyword. The query is fuzzy-matched to the closest known title and its nearest neighbors are returned with similarity scores.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Book title or keyword, e.g. 'harry potter'",
				},
			},
			Required: []string{"query"},
		},
	}, handlers.RecommendBooks)

	// 2. get_book_details - full record for a recommended id
	server.AddTool(mcp.Tool{
		Name:        "get_book_details",
		Description: "Get the full catalog record for a book id returned by recommend_books.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"id": map[string]interface{}{
					"type":        "number",
					"description": "Book id",
				},
			},
			Required: []string{"id"},
		},
	}, handlers.GetBookDetails)

	// 3. match_title - fuzzy title lookup only
	server.AddTool(mcp.Tool{
		Name:        "match_title",
		Description: "Find the catalog title closest to a free-text query, with a 0-100 match score.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Free-text title to match",
				},
			},
			Required: []string{"query"},
		},
	}, handlers.MatchTitle)

	// 4. index_stats - describe the loaded index and catalog
	server.AddTool(mcp.Tool{
		Name:        "index_stats",
		Description: "Describe the loaded recommendation index: book count, vocabulary size, languages and feature dimension.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.IndexStats)

	return handlers
}
