// ABOUTME: Tests for the numeric encoder, text encoder, tokenizer and combiner
// ABOUTME: Covers bucket rules, min-max scaling, vocabulary freezing and layout checks
package features

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/harper/bookrec/internal/bookerr"
	"github.com/harper/bookrec/internal/models"
)

const eps = 1e-9

func approx(a, b float64) bool {
	return math.Abs(a-b) < eps
}

func TestBucketFor(t *testing.T) {
	tests := []struct {
		rating float64
		want   int
		ok     bool
	}{
		{0.0, 0, true},
		{0.5, 0, true},
		{1.0, 0, true},
		{1.01, 1, true},
		{2.5, 2, true},
		{3.0, 2, true},
		{4.0, 3, true},
		{5.0, 4, true},
		{-1, 0, false},
		{6, 0, false},
		{5.0001, 0, false},
	}

	for _, tt := range tests {
		got, ok := BucketFor(tt.rating)
		if ok != tt.ok {
			t.Errorf("BucketFor(%v) ok = %v, want %v", tt.rating, ok, tt.ok)
			continue
		}
		if ok && got != tt.want {
			t.Errorf("BucketFor(%v) = %s, want %s", tt.rating, RatingBuckets[got], RatingBuckets[tt.want])
		}
	}
}

func TestMinMaxScaler(t *testing.T) {
	matrix := [][]float64{{0, 5}, {10, 5}, {20, 5}}
	s := FitMinMax(matrix)

	want := [][]float64{{0, 0}, {0.5, 0}, {1, 0}}
	for i, row := range matrix {
		got, err := s.Transform(row)
		if err != nil {
			t.Fatalf("Transform() error = %v", err)
		}
		for j := range got {
			if !approx(got[j], want[i][j]) {
				t.Errorf("row %d col %d = %f, want %f", i, j, got[j], want[i][j])
			}
		}
	}

	// frozen statistics: later values are scaled with the fitted range, not refit
	got, err := s.Transform([]float64{40, 5})
	if err != nil {
		t.Fatalf("Transform() error = %v", err)
	}
	if !approx(got[0], 2) {
		t.Errorf("out-of-range value scaled to %f, want 2", got[0])
	}

	if _, err := s.Transform([]float64{1}); !errors.Is(err, bookerr.ErrDimensionMismatch) {
		t.Errorf("Transform() with wrong width error = %v, want DimensionMismatchError", err)
	}
}

func TestBuildNumeric(t *testing.T) {
	records := []models.Book{
		{ID: 0, Title: "A", AverageRating: 1.0, RatingsCount: 0, LanguageCode: "eng"},
		{ID: 1, Title: "B", AverageRating: 2.5, RatingsCount: 10, LanguageCode: ""},
		{ID: 2, Title: "C", AverageRating: 4.5, RatingsCount: 20, LanguageCode: "fre"},
	}

	block, err := BuildNumeric(records)
	if err != nil {
		t.Fatalf("BuildNumeric() error = %v", err)
	}

	wantLangs := []string{"eng", "fre", models.UnknownLanguage}
	if !reflect.DeepEqual(block.Languages, wantLangs) {
		t.Errorf("Languages = %v, want %v", block.Languages, wantLangs)
	}
	if block.Width() != 5+3+2 {
		t.Errorf("Width() = %d, want 10", block.Width())
	}
	if len(block.Matrix) != len(records) {
		t.Fatalf("rows = %d, want %d", len(block.Matrix), len(records))
	}

	want := [][]float64{
		{1, 0, 0, 0, 0, 1, 0, 0, 0, 0},
		{0, 0, 1, 0, 0, 0, 0, 1, 1.5 / 3.5, 0.5},
		{0, 0, 0, 0, 1, 0, 1, 0, 1, 1},
	}
	for i := range want {
		for j := range want[i] {
			if !approx(block.Matrix[i][j], want[i][j]) {
				t.Errorf("Matrix[%d][%d] = %f, want %f", i, j, block.Matrix[i][j], want[i][j])
			}
		}
	}
}

func TestBuildNumeric_OneBucketPerRow(t *testing.T) {
	records := []models.Book{
		{AverageRating: 0}, {AverageRating: 1.5}, {AverageRating: 3.9}, {AverageRating: 7},
	}
	block, err := BuildNumeric(records)
	if err != nil {
		t.Fatalf("BuildNumeric() error = %v", err)
	}
	for i, row := range block.Matrix {
		set := 0
		for b := range RatingBuckets {
			if row[b] > 0 {
				set++
			}
		}
		if set > 1 {
			t.Errorf("row %d has %d buckets set", i, set)
		}
	}
	for b := range RatingBuckets {
		if block.Matrix[3][b] != 0 {
			t.Errorf("rating 7 should have no bucket, column %d = %f", b, block.Matrix[3][b])
		}
	}
}

func TestBuildNumeric_Errors(t *testing.T) {
	if _, err := BuildNumeric(nil); !errors.Is(err, bookerr.ErrInvalidData) {
		t.Errorf("empty dataset error = %v, want InvalidDataError", err)
	}

	records := []models.Book{{Title: "X", AverageRating: math.NaN()}}
	if _, err := BuildNumeric(records); !errors.Is(err, bookerr.ErrInvalidData) {
		t.Errorf("NaN rating error = %v, want InvalidDataError", err)
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"The Hobbit", []string{"the", "hobbit"}},
		{"Éire's Café", []string{"eire", "cafe"}},
		{"Harry Potter 2: a story", []string{"harry", "potter", "story"}},
		{"   ", []string{}},
	}

	for _, tt := range tests {
		got := Tokenize(tt.in, DefaultMinTokenLen)
		if len(got) == 0 && len(tt.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Tokenize(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFitText_Transform(t *testing.T) {
	enc, rows, err := FitText([]string{"The Hobbit", "The Hobbit Returns"}, DefaultMinTokenLen)
	if err != nil {
		t.Fatalf("FitText() error = %v", err)
	}

	if !reflect.DeepEqual(enc.Terms(), []string{"hobbit", "returns"}) {
		t.Errorf("Terms() = %v, want [hobbit returns]", enc.Terms())
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if !approx(rows[0].Norm(), 1) || !approx(rows[1].Norm(), 1) {
		t.Errorf("rows should be L2-normalised, norms = %f, %f", rows[0].Norm(), rows[1].Norm())
	}

	vec := enc.Transform("hobbit dragon")
	if vec.Dim != enc.VocabularySize() {
		t.Errorf("Dim = %d, want %d", vec.Dim, enc.VocabularySize())
	}
	if vec.NNZ() == 0 {
		t.Fatal("transform of a known term should be non-zero")
	}
	if _, ok := enc.TermIndex("dragon"); ok {
		t.Error("dragon should not be in the vocabulary")
	}
	hobbit, _ := enc.TermIndex("hobbit")
	if !approx(vec.At(hobbit), 1) {
		t.Errorf("hobbit weight = %f, want 1", vec.At(hobbit))
	}

	unseen := enc.Transform("dragon")
	if unseen.NNZ() != 0 || unseen.Dim != enc.VocabularySize() {
		t.Errorf("unseen-only query = %+v, want zero vector of width %d", unseen, enc.VocabularySize())
	}
}

func TestFitText_IDF(t *testing.T) {
	enc, _, err := FitText([]string{"The Hobbit", "The Hobbit Returns"}, DefaultMinTokenLen)
	if err != nil {
		t.Fatalf("FitText() error = %v", err)
	}
	hobbit, _ := enc.TermIndex("hobbit")
	returns, _ := enc.TermIndex("returns")
	if !approx(enc.IDF(hobbit), 1) {
		t.Errorf("idf(hobbit) = %f, want 1", enc.IDF(hobbit))
	}
	if !approx(enc.IDF(returns), math.Log(1.5)+1) {
		t.Errorf("idf(returns) = %f, want %f", enc.IDF(returns), math.Log(1.5)+1)
	}
}

func TestFitText_Errors(t *testing.T) {
	tests := []struct {
		name   string
		titles []string
	}{
		{"no titles", nil},
		{"blank titles", []string{"", "   "}},
		{"only stop words", []string{"The", "of the"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := FitText(tt.titles, DefaultMinTokenLen); !errors.Is(err, bookerr.ErrInvalidData) {
				t.Errorf("FitText() error = %v, want InvalidDataError", err)
			}
		})
	}
}

func TestSparseVector(t *testing.T) {
	a := NewSparseVector(5, map[int]float64{3: 2, 0: 1, 4: 0})
	if !reflect.DeepEqual(a.Indices, []int{0, 3}) {
		t.Errorf("Indices = %v, want [0 3]", a.Indices)
	}
	b := NewSparseVector(5, map[int]float64{3: 4, 1: 7})
	if got := a.Dot(b); !approx(got, 8) {
		t.Errorf("Dot() = %f, want 8", got)
	}

	c := a.Append([]float64{0, 9})
	if c.Dim != 7 {
		t.Errorf("Dim = %d, want 7", c.Dim)
	}
	if !reflect.DeepEqual(c.Dense(), []float64{1, 0, 0, 2, 0, 0, 9}) {
		t.Errorf("Dense() = %v", c.Dense())
	}
	if a.Dim != 5 || a.NNZ() != 2 {
		t.Error("Append must not modify the receiver")
	}
}

func TestCombine(t *testing.T) {
	text := []SparseVector{
		NewSparseVector(2, map[int]float64{0: 1}),
		NewSparseVector(2, map[int]float64{1: 1}),
	}
	numeric := [][]float64{{0.5, 0}, {0, 1}}
	layout := Layout{TextWidth: 2, NumericWidth: 2}

	rows, err := Combine(text, numeric, layout)
	if err != nil {
		t.Fatalf("Combine() error = %v", err)
	}
	if !reflect.DeepEqual(rows[0].Dense(), []float64{1, 0, 0.5, 0}) {
		t.Errorf("row 0 = %v", rows[0].Dense())
	}
	if !reflect.DeepEqual(rows[1].Dense(), []float64{0, 1, 0, 1}) {
		t.Errorf("row 1 = %v", rows[1].Dense())
	}

	if _, err := Combine(text, numeric[:1], layout); !errors.Is(err, bookerr.ErrDimensionMismatch) {
		t.Errorf("row count mismatch error = %v, want DimensionMismatchError", err)
	}
	if _, err := Combine(text, [][]float64{{1}, {1}}, layout); !errors.Is(err, bookerr.ErrDimensionMismatch) {
		t.Errorf("numeric width mismatch error = %v, want DimensionMismatchError", err)
	}
	if _, err := Combine(text, numeric, Layout{TextWidth: 3, NumericWidth: 2}); !errors.Is(err, bookerr.ErrDimensionMismatch) {
		t.Errorf("text width mismatch error = %v, want DimensionMismatchError", err)
	}
}

func TestCombineQuery_ZeroNumericSegment(t *testing.T) {
	layout := Layout{TextWidth: 3, NumericWidth: 4}
	q, err := CombineQuery(NewSparseVector(3, map[int]float64{2: 1}), layout)
	if err != nil {
		t.Fatalf("CombineQuery() error = %v", err)
	}
	if q.Dim != layout.Dim() {
		t.Errorf("Dim = %d, want %d", q.Dim, layout.Dim())
	}
	dense := q.Dense()
	for j := layout.TextWidth; j < layout.Dim(); j++ {
		if dense[j] != 0 {
			t.Errorf("numeric column %d = %f, want 0", j, dense[j])
		}
	}

	if _, err := CombineQuery(NewSparseVector(2, nil), layout); !errors.Is(err, bookerr.ErrDimensionMismatch) {
		t.Errorf("CombineQuery() width error = %v, want DimensionMismatchError", err)
	}
}
