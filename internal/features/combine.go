// ABOUTME: Feature combiner concatenating text and numeric blocks into one space
// ABOUTME: Enforces row alignment and the frozen build-time column layout
package features

import "github.com/harper/bookrec/internal/bookerr"

// Layout is the frozen column layout of the combined space: text columns
// first, numeric columns after them.
type Layout struct {
	TextWidth    int
	NumericWidth int
}

// Dim returns the combined width
func (l Layout) Dim() int {
	return l.TextWidth + l.NumericWidth
}

// Combine horizontally concatenates text and numeric rows. Row i of the
// result is row i of both inputs. No weighting is applied between segments.
func Combine(text []SparseVector, numeric [][]float64, layout Layout) ([]SparseVector, error) {
	if len(text) != len(numeric) {
		return nil, bookerr.NewDimensionMismatchError("combined row count", len(text), len(numeric))
	}
	rows := make([]SparseVector, len(text))
	for i := range text {
		if text[i].Dim != layout.TextWidth {
			return nil, bookerr.NewDimensionMismatchError("text block width", layout.TextWidth, text[i].Dim)
		}
		if len(numeric[i]) != layout.NumericWidth {
			return nil, bookerr.NewDimensionMismatchError("numeric block width", layout.NumericWidth, len(numeric[i]))
		}
		rows[i] = text[i].Append(numeric[i])
	}
	return rows, nil
}

// CombineQuery lays out a query row. The numeric segment is always zero:
// a free-text query has no rating or language, so only the title terms
// drive the neighbor search for queries.
func CombineQuery(text SparseVector, layout Layout) (SparseVector, error) {
	if text.Dim != layout.TextWidth {
		return SparseVector{}, bookerr.NewDimensionMismatchError("query text width", layout.TextWidth, text.Dim)
	}
	return text.Append(make([]float64, layout.NumericWidth)), nil
}
