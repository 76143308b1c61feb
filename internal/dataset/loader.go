// ABOUTME: CSV dataset loader producing cleaned Book records in file order
// ABOUTME: Skips malformed rows, trims header names, fills missing title/language
package dataset

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/harper/bookrec/internal/bookerr"
	"github.com/harper/bookrec/internal/models"
)

// Column names recognised in the header. Only the required ones must exist.
const (
	ColBookID           = "bookID"
	ColTitle            = "title"
	ColAuthors          = "authors"
	ColAverageRating    = "average_rating"
	ColISBN             = "isbn"
	ColISBN13           = "isbn13"
	ColLanguageCode     = "language_code"
	ColNumPages         = "num_pages"
	ColRatingsCount     = "ratings_count"
	ColTextReviewsCount = "text_reviews_count"
	ColPublicationDate  = "publication_date"
	ColPublisher        = "publisher"
)

// RequiredColumns must be present in the header
var RequiredColumns = []string{
	ColTitle, ColAuthors, ColAverageRating, ColRatingsCount,
	ColTextReviewsCount, ColNumPages, ColPublicationDate, ColLanguageCode,
}

// Result is the outcome of a load
type Result struct {
	Books   []models.Book
	Skipped int
}

// LoadFile reads a CSV dataset from disk
func LoadFile(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close()

	res, err := Read(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return res, nil
}

// Read parses a CSV dataset with a header row. Rows whose field count differs
// from the header or whose numeric fields do not parse are skipped. Books are
// numbered 0..n-1 in the order they are kept.
func Read(r io.Reader) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, bookerr.NewInvalidDataError("dataset", "missing header row")
		}
		return nil, fmt.Errorf("reading header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	for _, name := range RequiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, bookerr.NewInvalidDataError("dataset", "missing column "+name)
		}
	}

	res := &Result{}
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				res.Skipped++
				continue
			}
			return nil, fmt.Errorf("reading record: %w", err)
		}
		if len(rec) != len(header) {
			res.Skipped++
			continue
		}

		book, ok := parseRow(rec, cols)
		if !ok {
			res.Skipped++
			continue
		}
		book.ID = len(res.Books)
		res.Books = append(res.Books, book)
	}

	return res, nil
}

func parseRow(rec []string, cols map[string]int) (models.Book, bool) {
	get := func(name string) string {
		if i, ok := cols[name]; ok {
			return strings.TrimSpace(rec[i])
		}
		return ""
	}

	rating, err := strconv.ParseFloat(get(ColAverageRating), 64)
	if err != nil {
		return models.Book{}, false
	}
	ratingsCount, ok := parseCount(get(ColRatingsCount))
	if !ok {
		return models.Book{}, false
	}
	reviews, ok := parseCount(get(ColTextReviewsCount))
	if !ok {
		return models.Book{}, false
	}
	pages, ok := parseCount(get(ColNumPages))
	if !ok {
		return models.Book{}, false
	}

	lang := get(ColLanguageCode)
	if lang == "" {
		lang = models.UnknownLanguage
	}

	book := models.Book{
		SourceID:         get(ColBookID),
		Title:            get(ColTitle),
		Authors:          get(ColAuthors),
		AverageRating:    rating,
		ISBN:             get(ColISBN),
		ISBN13:           get(ColISBN13),
		LanguageCode:     lang,
		NumPages:         pages,
		RatingsCount:     ratingsCount,
		TextReviewsCount: reviews,
		PublicationDate:  get(ColPublicationDate),
		Publisher:        get(ColPublisher),
	}
	if err := book.Validate(); err != nil {
		return models.Book{}, false
	}
	return book, true
}

// parseCount accepts a blank value as 0
func parseCount(s string) (int, bool) {
	if s == "" {
		return 0, true
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
