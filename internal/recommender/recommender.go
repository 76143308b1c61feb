// ABOUTME: Build-once index handle and the query pipeline for book recommendations
// ABOUTME: Wires encoders, combiner, neighbor index and fuzzy matcher into one immutable Handle
package recommender

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/harper/bookrec/internal/bookerr"
	"github.com/harper/bookrec/internal/features"
	"github.com/harper/bookrec/internal/fuzzy"
	"github.com/harper/bookrec/internal/index"
	"github.com/harper/bookrec/internal/logging"
	"github.com/harper/bookrec/internal/models"
)

// Options control the query pipeline. They are frozen into the Handle.
type Options struct {
	// K is the number of neighbors requested from the index
	K int
	// DropFirst removes the first neighbor before returning results. The
	// first hit is assumed to be the query's own book, which only holds when
	// the query vector coincides with its closest dataset row.
	DropFirst bool
	// EmbedMatchedTitle embeds the fuzzy-matched title instead of the raw query
	EmbedMatchedTitle bool
	// MinTokenLen is the shortest title token kept in the vocabulary
	MinTokenLen int
}

// DefaultOptions returns k=6 with the first hit dropped, raw-text embedding
func DefaultOptions() Options {
	return Options{
		K:           index.DefaultK,
		DropFirst:   true,
		MinTokenLen: features.DefaultMinTokenLen,
	}
}

// Handle holds every structure fitted at build time. It is never mutated
// after BuildIndex returns, so any number of goroutines may query it.
type Handle struct {
	ID      string
	BuiltAt time.Time

	opts    Options
	records []models.Book
	text    *features.TextEncoder
	numeric *features.NumericBlock
	layout  features.Layout
	vectors []features.SparseVector
	index   *index.Index
	matcher *fuzzy.Matcher
}

// Stats describes a built handle
type Stats struct {
	ID             string    `json:"id"`
	BuiltAt        time.Time `json:"built_at"`
	Books          int       `json:"books"`
	VocabularySize int       `json:"vocabulary_size"`
	Languages      []string  `json:"languages"`
	Dimension      int       `json:"dimension"`
	K              int       `json:"k"`
	DropFirst      bool      `json:"drop_first"`
}

// BuildIndex fits the encoders on records and indexes the combined feature
// matrix. Row i of every fitted structure refers to records[i].
func BuildIndex(records []models.Book, opts Options) (*Handle, error) {
	start := time.Now()
	if len(records) == 0 {
		return nil, bookerr.NewInvalidDataError("dataset", "no records")
	}
	if opts.K <= 0 {
		opts.K = index.DefaultK
	}
	if opts.MinTokenLen <= 0 {
		opts.MinTokenLen = features.DefaultMinTokenLen
	}

	owned := make([]models.Book, len(records))
	copy(owned, records)
	titles := make([]string, len(owned))
	for i := range owned {
		owned[i].ID = i
		titles[i] = owned[i].Title
	}

	numeric, err := features.BuildNumeric(owned)
	if err != nil {
		return nil, fmt.Errorf("encoding numeric features: %w", err)
	}
	text, textRows, err := features.FitText(titles, opts.MinTokenLen)
	if err != nil {
		return nil, fmt.Errorf("encoding titles: %w", err)
	}

	layout := features.Layout{TextWidth: text.VocabularySize(), NumericWidth: numeric.Width()}
	vectors, err := features.Combine(textRows, numeric.Matrix, layout)
	if err != nil {
		return nil, fmt.Errorf("combining features: %w", err)
	}

	ix, err := index.Build(vectors)
	if err != nil {
		return nil, fmt.Errorf("building neighbor index: %w", err)
	}

	h := &Handle{
		ID:      uuid.New().String(),
		BuiltAt: time.Now(),
		opts:    opts,
		records: owned,
		text:    text,
		numeric: numeric,
		layout:  layout,
		vectors: vectors,
		index:   ix,
		matcher: fuzzy.NewMatcher(titles),
	}

	logging.Info().
		Str("handle", h.ID).
		Int("books", len(owned)).
		Int("vocabulary", layout.TextWidth).
		Int("languages", len(numeric.Languages)).
		Int("dimension", layout.Dim()).
		Dur("elapsed", time.Since(start)).
		Msg("index built")

	return h, nil
}

// Recommend resolves query to its closest title, embeds it in the combined
// space with a zero numeric segment and returns the ranked neighbors.
// A blank query is rejected with a ValidationError before the index is touched.
func Recommend(h *Handle, query string) (*models.RecommendResult, error) {
	if h == nil {
		return nil, &bookerr.IndexNotBuiltError{}
	}
	if err := ValidateQuery(query); err != nil {
		return nil, err
	}

	match, ok := h.matcher.ExtractOne(query)
	if !ok {
		match = models.TitleMatch{ID: -1}
	}

	embed := query
	if h.opts.EmbedMatchedTitle && ok {
		embed = match.Title
	}

	vec, err := features.CombineQuery(h.text.Transform(embed), h.layout)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	neighbors, err := h.index.Query(vec, h.opts.K)
	if err != nil {
		return nil, fmt.Errorf("querying index: %w", err)
	}
	if h.opts.DropFirst && len(neighbors) > 0 {
		neighbors = neighbors[1:]
	}

	recs := make([]models.Recommendation, len(neighbors))
	for i, n := range neighbors {
		recs[i] = models.Recommendation{
			ID:       n.ID,
			Title:    h.records[n.ID].Title,
			Distance: n.Distance,
		}
	}

	logging.Debug().
		Str("handle", h.ID).
		Str("query", query).
		Str("match", match.Title).
		Int("score", match.Score).
		Int("results", len(recs)).
		Msg("recommend")

	return &models.RecommendResult{
		Query:           query,
		Match:           match,
		Recommendations: recs,
	}, nil
}

// ValidateQuery rejects blank or whitespace-only queries
func ValidateQuery(query string) error {
	if strings.TrimSpace(query) == "" {
		return bookerr.NewValidationError("query", "please enter a keyword or book name")
	}
	return nil
}

// GetDetail returns the record with the given id
func GetDetail(records []models.Book, id int) (models.Book, error) {
	if id < 0 || id >= len(records) {
		return models.Book{}, &bookerr.NotFoundError{ID: id}
	}
	return records[id], nil
}

// Detail looks up a book in the handle's own records
func (h *Handle) Detail(id int) (models.Book, error) {
	return GetDetail(h.records, id)
}

// MatchTitle exposes the fuzzy matcher on its own
func (h *Handle) MatchTitle(query string) (models.TitleMatch, bool) {
	return h.matcher.ExtractOne(query)
}

// Len returns the number of indexed books
func (h *Handle) Len() int {
	return len(h.records)
}

// Stats summarises the handle
func (h *Handle) Stats() Stats {
	langs := make([]string, len(h.numeric.Languages))
	copy(langs, h.numeric.Languages)
	return Stats{
		ID:             h.ID,
		BuiltAt:        h.BuiltAt,
		Books:          len(h.records),
		VocabularySize: h.layout.TextWidth,
		Languages:      langs,
		Dimension:      h.layout.Dim(),
		K:              h.opts.K,
		DropFirst:      h.opts.DropFirst,
	}
}
