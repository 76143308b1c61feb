// ABOUTME: Numeric/categorical feature encoder for rating and language metadata
// ABOUTME: One-hot rating bucket and language, then per-column min-max scaling
package features

import (
	"math"
	"sort"

	"github.com/harper/bookrec/internal/bookerr"
	"github.com/harper/bookrec/internal/models"
)

// RatingBuckets are the rating bucket labels in column order.
// The first bucket is closed, the others are half-open on the left.
var RatingBuckets = []string{"[0,1]", "(1,2]", "(2,3]", "(3,4]", "(4,5]"}

// BucketFor returns the bucket column of a rating. Ratings outside [0,5]
// belong to no bucket and produce an all-zero one-hot row.
func BucketFor(rating float64) (int, bool) {
	switch {
	case rating >= 0 && rating <= 1:
		return 0, true
	case rating > 1 && rating <= 2:
		return 1, true
	case rating > 2 && rating <= 3:
		return 2, true
	case rating > 3 && rating <= 4:
		return 3, true
	case rating > 4 && rating <= 5:
		return 4, true
	default:
		return 0, false
	}
}

// MinMaxScaler rescales each column to [0,1] with statistics frozen at fit time.
type MinMaxScaler struct {
	Min []float64
	Max []float64
}

// FitMinMax computes per-column minimum and maximum of a dense matrix
func FitMinMax(matrix [][]float64) *MinMaxScaler {
	if len(matrix) == 0 {
		return &MinMaxScaler{}
	}
	width := len(matrix[0])
	s := &MinMaxScaler{
		Min: make([]float64, width),
		Max: make([]float64, width),
	}
	for j := 0; j < width; j++ {
		s.Min[j] = math.Inf(1)
		s.Max[j] = math.Inf(-1)
	}
	for _, row := range matrix {
		for j, v := range row {
			s.Min[j] = math.Min(s.Min[j], v)
			s.Max[j] = math.Max(s.Max[j], v)
		}
	}
	return s
}

// Width returns the number of columns the scaler was fitted on
func (s *MinMaxScaler) Width() int {
	return len(s.Min)
}

// Transform scales a row with the frozen statistics. A constant column
// (max == min) maps its fitted value to 0.
func (s *MinMaxScaler) Transform(row []float64) ([]float64, error) {
	if len(row) != s.Width() {
		return nil, bookerr.NewDimensionMismatchError("scaler input", s.Width(), len(row))
	}
	out := make([]float64, len(row))
	for j, v := range row {
		span := s.Max[j] - s.Min[j]
		if span == 0 {
			span = 1
		}
		out[j] = (v - s.Min[j]) / span
	}
	return out, nil
}

// NumericBlock is the output of BuildNumeric
type NumericBlock struct {
	Matrix    [][]float64
	Scaler    *MinMaxScaler
	Languages []string
}

// Width returns 5 + L + 2
func (b *NumericBlock) Width() int {
	return NumericWidth(len(b.Languages))
}

// NumericWidth is the numeric segment width for a given language count
func NumericWidth(languages int) int {
	return len(RatingBuckets) + languages + 2
}

// BuildNumeric encodes the rating bucket, language, average rating and
// ratings count of every record and min-max scales the result.
func BuildNumeric(records []models.Book) (*NumericBlock, error) {
	if len(records) == 0 {
		return nil, bookerr.NewInvalidDataError("dataset", "no records")
	}

	langSet := make(map[string]struct{})
	for _, r := range records {
		if math.IsNaN(r.AverageRating) || math.IsInf(r.AverageRating, 0) {
			return nil, bookerr.NewInvalidDataError("average_rating", "non-numeric value in book "+r.Title)
		}
		langSet[r.Language()] = struct{}{}
	}
	languages := make([]string, 0, len(langSet))
	for code := range langSet {
		languages = append(languages, code)
	}
	sort.Strings(languages)
	langCol := make(map[string]int, len(languages))
	for i, code := range languages {
		langCol[code] = i
	}

	width := NumericWidth(len(languages))
	langOffset := len(RatingBuckets)
	ratingCol := langOffset + len(languages)

	raw := make([][]float64, len(records))
	for i, r := range records {
		row := make([]float64, width)
		if b, ok := BucketFor(r.AverageRating); ok {
			row[b] = 1
		}
		row[langOffset+langCol[r.Language()]] = 1
		row[ratingCol] = r.AverageRating
		row[ratingCol+1] = float64(r.RatingsCount)
		raw[i] = row
	}

	scaler := FitMinMax(raw)
	for i, row := range raw {
		scaled, err := scaler.Transform(row)
		if err != nil {
			return nil, err
		}
		raw[i] = scaled
	}

	return &NumericBlock{Matrix: raw, Scaler: scaler, Languages: languages}, nil
}
