// ABOUTME: Book record model shared by the loader, catalog store and index builder
// ABOUTME: Identity is the 0-based row index assigned at load time
package models

import (
	"fmt"
	"math"
	"strings"
)

// UnknownLanguage replaces a missing language code before encoding
const UnknownLanguage = "unknown"

// Book is one cleaned row of the source dataset. Books are immutable once loaded.
type Book struct {
	ID               int     `json:"id" yaml:"id"`
	SourceID         string  `json:"source_id,omitempty" yaml:"source_id,omitempty"`
	Title            string  `json:"title" yaml:"title"`
	Authors          string  `json:"authors" yaml:"authors"`
	AverageRating    float64 `json:"average_rating" yaml:"average_rating"`
	ISBN             string  `json:"isbn,omitempty" yaml:"isbn,omitempty"`
	ISBN13           string  `json:"isbn13,omitempty" yaml:"isbn13,omitempty"`
	LanguageCode     string  `json:"language_code" yaml:"language_code"`
	NumPages         int     `json:"num_pages" yaml:"num_pages"`
	RatingsCount     int     `json:"ratings_count" yaml:"ratings_count"`
	TextReviewsCount int     `json:"text_reviews_count" yaml:"text_reviews_count"`
	PublicationDate  string  `json:"publication_date" yaml:"publication_date"`
	Publisher        string  `json:"publisher,omitempty" yaml:"publisher,omitempty"`
}

// Language returns the language code used for encoding, substituting
// UnknownLanguage for a blank code.
func (b Book) Language() string {
	code := strings.TrimSpace(b.LanguageCode)
	if code == "" {
		return UnknownLanguage
	}
	return code
}

// Validate checks the fields the feature encoders depend on
func (b Book) Validate() error {
	if b.ID < 0 {
		return fmt.Errorf("book id must be non-negative, got %d", b.ID)
	}
	if math.IsNaN(b.AverageRating) || math.IsInf(b.AverageRating, 0) {
		return fmt.Errorf("book %d: average_rating is not a finite number", b.ID)
	}
	if b.RatingsCount < 0 {
		return fmt.Errorf("book %d: ratings_count must be non-negative, got %d", b.ID, b.RatingsCount)
	}
	return nil
}
