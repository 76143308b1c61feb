// ABOUTME: Cosine k-nearest-neighbor index over the combined feature space
// ABOUTME: Brute-force scan with precomputed norms and ascending-id tie breaking
package index

import (
	"sort"

	"github.com/harper/bookrec/internal/bookerr"
	"github.com/harper/bookrec/internal/features"
)

// DefaultK is the number of neighbors returned per query: one slot for the
// best match plus five recommendations.
const DefaultK = 6

// Neighbor is one query hit. ID is the row index of the book.
type Neighbor struct {
	ID       int     `json:"id"`
	Distance float64 `json:"distance"`
}

// Index answers cosine-distance neighbor queries. The zero value is an
// unbuilt index; Build returns a ready, immutable one.
type Index struct {
	rows  []features.SparseVector
	norms []float64
	dim   int
	built bool
}

// Build indexes rows. Every row must have the same width. Rows are not copied
// and must not be modified afterwards.
func Build(rows []features.SparseVector) (*Index, error) {
	if len(rows) == 0 {
		return nil, bookerr.NewInvalidDataError("feature matrix", "no rows to index")
	}
	dim := rows[0].Dim
	norms := make([]float64, len(rows))
	for i, row := range rows {
		if row.Dim != dim {
			return nil, bookerr.NewDimensionMismatchError("index row width", dim, row.Dim)
		}
		norms[i] = row.Norm()
	}
	return &Index{rows: rows, norms: norms, dim: dim, built: true}, nil
}

// Dim returns the fitted width
func (ix *Index) Dim() int {
	return ix.dim
}

// Len returns the number of indexed rows
func (ix *Index) Len() int {
	return len(ix.rows)
}

// Query returns the k nearest rows to vec ordered by ascending cosine
// distance, ties by ascending row index. A zero vector (or zero row) has
// distance 1 to everything.
func (ix *Index) Query(vec features.SparseVector, k int) ([]Neighbor, error) {
	if ix == nil || !ix.built {
		return nil, &bookerr.IndexNotBuiltError{}
	}
	if vec.Dim != ix.dim {
		return nil, &bookerr.QueryDimensionError{Expected: ix.dim, Got: vec.Dim}
	}
	if k <= 0 {
		return []Neighbor{}, nil
	}
	if k > len(ix.rows) {
		k = len(ix.rows)
	}

	qnorm := vec.Norm()
	all := make([]Neighbor, len(ix.rows))
	for i, row := range ix.rows {
		all[i] = Neighbor{ID: i, Distance: cosineDistance(vec, qnorm, row, ix.norms[i])}
	}
	sort.SliceStable(all, func(a, b int) bool {
		if all[a].Distance != all[b].Distance {
			return all[a].Distance < all[b].Distance
		}
		return all[a].ID < all[b].ID
	})
	return all[:k], nil
}

func cosineDistance(a features.SparseVector, anorm float64, b features.SparseVector, bnorm float64) float64 {
	if anorm == 0 || bnorm == 0 {
		return 1
	}
	d := 1 - a.Dot(b)/(anorm*bnorm)
	// clamp rounding noise so identical vectors report exactly 0
	if d < 0 {
		return 0
	}
	return d
}
