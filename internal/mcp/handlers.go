// ABOUTME: MCP tool handler implementations for the bookrec server
// ABOUTME: Maps recommender results and errors onto MCP tool results
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/harper/bookrec/internal/bookerr"
	"github.com/harper/bookrec/internal/logging"
	"github.com/harper/bookrec/internal/models"
	"github.com/harper/bookrec/internal/recommender"
	"github.com/harper/bookrec/internal/storage/sqlite"
	"github.com/mark3labs/mcp-go/mcp"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	service *recommender.Service
	store   *sqlite.Storage
}

// NewHandlers creates handlers over svc. store is optional.
func NewHandlers(svc *recommender.Service, store *sqlite.Storage) *Handlers {
	return &Handlers{service: svc, store: store}
}

// RecommendationResponse is the recommend_books payload
type RecommendationResponse struct {
	Query           string                        `json:"query"`
	BestMatch       models.TitleMatch             `json:"best_match"`
	Recommendations []models.ScoredRecommendation `json:"recommendations"`
}

// StatsResponse is the index_stats payload
type StatsResponse struct {
	Index   recommender.Stats    `json:"index"`
	Catalog *sqlite.CatalogStats `json:"catalog,omitempty"`
}

// RecommendBooks handles the recommend_books tool
func (h *Handlers) RecommendBooks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query argument is required and must be a string"), nil
	}

	result, err := h.service.Recommend(query)
	if err != nil {
		var verr *bookerr.ValidationError
		if errors.As(err, &verr) {
			return mcp.NewToolResultError(verr.Error()), nil
		}
		logging.Error().Err(err).Str("query", query).Msg("recommend_books failed")
		return mcp.NewToolResultError(fmt.Sprintf("recommendation failed: %v", err)), nil
	}

	return jsonResult(RecommendationResponse{
		Query:           result.Query,
		BestMatch:       result.Match,
		Recommendations: result.Scored(),
	})
}

// GetBookDetails handles the get_book_details tool
func (h *Handlers) GetBookDetails(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireInt("id")
	if err != nil {
		return mcp.NewToolResultError("id argument is required and must be a number"), nil
	}

	book, err := h.service.Detail(id)
	if err != nil {
		if errors.Is(err, bookerr.ErrNotFound) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to get book: %v", err)), nil
	}

	return jsonResult(book)
}

// MatchTitle handles the match_title tool
func (h *Handlers) MatchTitle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query argument is required and must be a string"), nil
	}

	handle := h.service.Current()
	if handle == nil {
		return mcp.NewToolResultError((&bookerr.IndexNotBuiltError{}).Error()), nil
	}

	match, ok := handle.MatchTitle(query)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("no title matches %q", query)), nil
	}

	return jsonResult(match)
}

// IndexStats handles the index_stats tool
func (h *Handlers) IndexStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	handle := h.service.Current()
	if handle == nil {
		return mcp.NewToolResultError((&bookerr.IndexNotBuiltError{}).Error()), nil
	}

	response := StatsResponse{Index: handle.Stats()}
	if h.store != nil {
		catalog, err := h.store.Stats()
		if err != nil {
			logging.Warn().Err(err).Msg("catalog stats unavailable")
		} else {
			response.Catalog = catalog
		}
	}

	return jsonResult(response)
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	responseJSON, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}
