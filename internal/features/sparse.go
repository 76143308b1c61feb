// ABOUTME: Sparse vector type shared by the text encoder, combiner and index
// ABOUTME: Indices are kept strictly ascending so dot products merge in one pass
package features

import (
	"math"
	"sort"
)

// SparseVector is a vector of width Dim with non-zero entries at Indices.
type SparseVector struct {
	Dim     int
	Indices []int
	Values  []float64
}

// NewSparseVector builds a vector from an index->value map, dropping zeros.
func NewSparseVector(dim int, entries map[int]float64) SparseVector {
	v := SparseVector{Dim: dim}
	for idx, val := range entries {
		if val == 0 {
			continue
		}
		v.Indices = append(v.Indices, idx)
	}
	sort.Ints(v.Indices)
	v.Values = make([]float64, len(v.Indices))
	for i, idx := range v.Indices {
		v.Values[i] = entries[idx]
	}
	return v
}

// NNZ returns the number of stored non-zero entries
func (v SparseVector) NNZ() int {
	return len(v.Indices)
}

// At returns the value at position i
func (v SparseVector) At(i int) float64 {
	pos := sort.SearchInts(v.Indices, i)
	if pos < len(v.Indices) && v.Indices[pos] == i {
		return v.Values[pos]
	}
	return 0
}

// Norm returns the Euclidean norm
func (v SparseVector) Norm() float64 {
	var sum float64
	for _, val := range v.Values {
		sum += val * val
	}
	return math.Sqrt(sum)
}

// Dot returns the inner product of two sparse vectors.
func (v SparseVector) Dot(o SparseVector) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(v.Indices) && j < len(o.Indices) {
		switch {
		case v.Indices[i] == o.Indices[j]:
			sum += v.Values[i] * o.Values[j]
			i++
			j++
		case v.Indices[i] < o.Indices[j]:
			i++
		default:
			j++
		}
	}
	return sum
}

// Dense expands the vector into a full slice of width Dim
func (v SparseVector) Dense() []float64 {
	out := make([]float64, v.Dim)
	for i, idx := range v.Indices {
		out[idx] = v.Values[i]
	}
	return out
}

// Append concatenates a dense block after v, shifting its positions by v.Dim.
// Zero entries of the block are not stored.
func (v SparseVector) Append(block []float64) SparseVector {
	out := SparseVector{
		Dim:     v.Dim + len(block),
		Indices: make([]int, len(v.Indices), len(v.Indices)+len(block)),
		Values:  make([]float64, len(v.Values), len(v.Values)+len(block)),
	}
	copy(out.Indices, v.Indices)
	copy(out.Values, v.Values)
	for j, val := range block {
		if val == 0 {
			continue
		}
		out.Indices = append(out.Indices, v.Dim+j)
		out.Values = append(out.Values, val)
	}
	return out
}
