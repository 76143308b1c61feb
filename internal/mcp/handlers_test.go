// ABOUTME: Tests for MCP tool handlers
// ABOUTME: Drives each handler with a CallToolRequest against a small built index
package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/harper/bookrec/internal/models"
	"github.com/harper/bookrec/internal/recommender"
	"github.com/harper/bookrec/internal/storage/sqlite"
	"github.com/mark3labs/mcp-go/mcp"
)

func testBooks() []models.Book {
	return []models.Book{
		{Title: "Harry Potter and the Sorcerer's Stone", AverageRating: 4.47, LanguageCode: "eng", RatingsCount: 5000},
		{Title: "Harry Potter and the Chamber of Secrets", AverageRating: 4.41, LanguageCode: "eng", RatingsCount: 4000},
		{Title: "The Hobbit", AverageRating: 4.27, LanguageCode: "eng", RatingsCount: 3000},
		{Title: "Dune", AverageRating: 4.25, LanguageCode: "eng", RatingsCount: 2000},
		{Title: "Le Petit Prince", AverageRating: 4.3, LanguageCode: "fre", RatingsCount: 1000},
		{Title: "The Fellowship of the Ring", AverageRating: 4.36, LanguageCode: "eng", RatingsCount: 2500},
		{Title: "Pride and Prejudice", AverageRating: 4.26, LanguageCode: "eng", RatingsCount: 2800},
	}
}

func newTestHandlers(t *testing.T, withStore bool) *Handlers {
	t.Helper()
	h, err := recommender.BuildIndex(testBooks(), recommender.DefaultOptions())
	if err != nil {
		t.Fatalf("BuildIndex() error = %v", err)
	}

	var store *sqlite.Storage
	if withStore {
		store, err = sqlite.NewStorageInMemory()
		if err != nil {
			t.Fatalf("NewStorageInMemory() error = %v", err)
		}
		t.Cleanup(func() { _ = store.Close() })
		if _, err := store.ImportBooks(testBooks(), "test", 0); err != nil {
			t.Fatalf("ImportBooks() error = %v", err)
		}
	}
	return NewHandlers(recommender.NewService(h), store)
}

func callRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil || len(result.Content) == 0 {
		t.Fatal("empty tool result")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want mcp.TextContent", result.Content[0])
	}
	return text.Text
}

func TestRecommendBooks(t *testing.T) {
	h := newTestHandlers(t, false)

	result, err := h.RecommendBooks(context.Background(), callRequest("recommend_books", map[string]interface{}{
		"query": "harry potter",
	}))
	if err != nil {
		t.Fatalf("RecommendBooks() error = %v", err)
	}
	if result.IsError {
		t.Fatalf("RecommendBooks() returned tool error: %s", resultText(t, result))
	}

	var resp RecommendationResponse
	if err := json.Unmarshal([]byte(resultText(t, result)), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if !strings.Contains(resp.BestMatch.Title, "Harry Potter") {
		t.Errorf("BestMatch = %+v", resp.BestMatch)
	}
	if len(resp.Recommendations) != 5 {
		t.Fatalf("got %d recommendations, want 5", len(resp.Recommendations))
	}
	for _, rec := range resp.Recommendations {
		if diff := rec.Similarity - (1 - rec.Distance); diff > 1e-12 || diff < -1e-12 {
			t.Errorf("similarity %v does not equal 1 - distance %v", rec.Similarity, rec.Distance)
		}
	}
}

func TestRecommendBooks_Errors(t *testing.T) {
	h := newTestHandlers(t, false)

	tests := []struct {
		name string
		args map[string]interface{}
		want string
	}{
		{"missing query", map[string]interface{}{}, "query argument is required"},
		{"blank query", map[string]interface{}{"query": "   "}, "please enter a keyword or book name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := h.RecommendBooks(context.Background(), callRequest("recommend_books", tt.args))
			if err != nil {
				t.Fatalf("RecommendBooks() error = %v", err)
			}
			if !result.IsError {
				t.Fatal("expected tool error")
			}
			if got := resultText(t, result); !strings.Contains(got, tt.want) {
				t.Errorf("error text = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}

func TestRecommendBooks_NoIndex(t *testing.T) {
	h := NewHandlers(recommender.NewService(nil), nil)

	result, err := h.RecommendBooks(context.Background(), callRequest("recommend_books", map[string]interface{}{
		"query": "dune",
	}))
	if err != nil {
		t.Fatalf("RecommendBooks() error = %v", err)
	}
	if !result.IsError {
		t.Error("expected tool error without an index")
	}
}

func TestGetBookDetails(t *testing.T) {
	h := newTestHandlers(t, false)

	result, err := h.GetBookDetails(context.Background(), callRequest("get_book_details", map[string]interface{}{
		"id": float64(3),
	}))
	if err != nil {
		t.Fatalf("GetBookDetails() error = %v", err)
	}
	if result.IsError {
		t.Fatalf("GetBookDetails() returned tool error: %s", resultText(t, result))
	}

	var book models.Book
	if err := json.Unmarshal([]byte(resultText(t, result)), &book); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if book.ID != 3 || book.Title != "Dune" {
		t.Errorf("book = %+v, want id 3 Dune", book)
	}

	result, err = h.GetBookDetails(context.Background(), callRequest("get_book_details", map[string]interface{}{
		"id": float64(99),
	}))
	if err != nil {
		t.Fatalf("GetBookDetails() error = %v", err)
	}
	if !result.IsError {
		t.Error("expected tool error for unknown id")
	}
}

func TestMatchTitle(t *testing.T) {
	h := newTestHandlers(t, false)

	result, err := h.MatchTitle(context.Background(), callRequest("match_title", map[string]interface{}{
		"query": "the hobit",
	}))
	if err != nil {
		t.Fatalf("MatchTitle() error = %v", err)
	}

	var match models.TitleMatch
	if err := json.Unmarshal([]byte(resultText(t, result)), &match); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if match.Title != "The Hobbit" || match.ID != 2 {
		t.Errorf("match = %+v, want The Hobbit", match)
	}
	if match.Score < 80 || match.Score > 100 {
		t.Errorf("score = %d, want 80-100", match.Score)
	}
}

func TestIndexStats(t *testing.T) {
	h := newTestHandlers(t, true)

	result, err := h.IndexStats(context.Background(), callRequest("index_stats", nil))
	if err != nil {
		t.Fatalf("IndexStats() error = %v", err)
	}

	var resp StatsResponse
	if err := json.Unmarshal([]byte(resultText(t, result)), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.Index.Books != 7 {
		t.Errorf("Index.Books = %d, want 7", resp.Index.Books)
	}
	if len(resp.Index.Languages) != 2 {
		t.Errorf("Index.Languages = %v, want eng and fre", resp.Index.Languages)
	}
	if resp.Catalog == nil || resp.Catalog.BookCount != 7 {
		t.Errorf("Catalog = %+v, want 7 books", resp.Catalog)
	}
}
