// ABOUTME: Tests for the cosine neighbor index
// ABOUTME: Covers ordering, tie breaking, determinism and misuse errors
package index

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/harper/bookrec/internal/bookerr"
	"github.com/harper/bookrec/internal/features"
)

func dense(values ...float64) features.SparseVector {
	m := make(map[int]float64)
	for i, v := range values {
		m[i] = v
	}
	return features.NewSparseVector(len(values), m)
}

func TestQuery_Ordering(t *testing.T) {
	ix, err := Build([]features.SparseVector{
		dense(1, 0, 0),
		dense(0, 1, 0),
		dense(0.9, 0.1, 0),
	})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	got, err := ix.Query(dense(1, 0, 0), 3)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	ids := []int{got[0].ID, got[1].ID, got[2].ID}
	if !reflect.DeepEqual(ids, []int{0, 2, 1}) {
		t.Errorf("ids = %v, want [0 2 1]", ids)
	}
	if got[0].Distance != 0 {
		t.Errorf("self distance = %f, want 0", got[0].Distance)
	}
	if math.Abs(got[2].Distance-1) > 1e-12 {
		t.Errorf("orthogonal distance = %f, want 1", got[2].Distance)
	}
	for i := 1; i < len(got); i++ {
		if got[i].Distance < got[i-1].Distance {
			t.Errorf("distances not ascending at %d: %v", i, got)
		}
	}
}

func TestQuery_TiesByAscendingID(t *testing.T) {
	ix, err := Build([]features.SparseVector{
		dense(0, 1),
		dense(1, 0),
		dense(0, 2),
		dense(1, 0),
	})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	got, err := ix.Query(dense(1, 0), 4)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	ids := []int{got[0].ID, got[1].ID, got[2].ID, got[3].ID}
	if !reflect.DeepEqual(ids, []int{1, 3, 0, 2}) {
		t.Errorf("ids = %v, want [1 3 0 2]", ids)
	}
}

func TestQuery_Deterministic(t *testing.T) {
	ix, err := Build([]features.SparseVector{
		dense(1, 1), dense(1, 1), dense(2, 2), dense(0, 1), dense(1, 0),
	})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	q := dense(1, 1)

	first, err := ix.Query(q, DefaultK)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	second, err := ix.Query(q, DefaultK)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated query differs: %v vs %v", first, second)
	}
	if len(first) != 5 {
		t.Errorf("k larger than corpus should return all rows, got %d", len(first))
	}
}

func TestQuery_ZeroVector(t *testing.T) {
	ix, err := Build([]features.SparseVector{dense(1, 0), dense(0, 1)})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	got, err := ix.Query(features.SparseVector{Dim: 2}, 2)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if got[0].ID != 0 || got[0].Distance != 1 || got[1].Distance != 1 {
		t.Errorf("zero query = %v, want all distance 1 in id order", got)
	}
}

func TestQuery_Errors(t *testing.T) {
	var unbuilt Index
	if _, err := unbuilt.Query(dense(1), 1); !errors.Is(err, bookerr.ErrIndexNotBuilt) {
		t.Errorf("unbuilt Query() error = %v, want IndexNotBuiltError", err)
	}
	var nilIndex *Index
	if _, err := nilIndex.Query(dense(1), 1); !errors.Is(err, bookerr.ErrIndexNotBuilt) {
		t.Errorf("nil Query() error = %v, want IndexNotBuiltError", err)
	}

	ix, err := Build([]features.SparseVector{dense(1, 0)})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if _, err := ix.Query(dense(1, 0, 0), 1); !errors.Is(err, bookerr.ErrQueryDimension) {
		t.Errorf("wrong width Query() error = %v, want QueryDimensionError", err)
	}
}

func TestBuild_Errors(t *testing.T) {
	if _, err := Build(nil); !errors.Is(err, bookerr.ErrInvalidData) {
		t.Errorf("Build(nil) error = %v, want InvalidDataError", err)
	}
	if _, err := Build([]features.SparseVector{dense(1, 0), dense(1)}); !errors.Is(err, bookerr.ErrDimensionMismatch) {
		t.Errorf("ragged Build() error = %v, want DimensionMismatchError", err)
	}
}
