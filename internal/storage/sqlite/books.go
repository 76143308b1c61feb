// ABOUTME: Book catalog storage operations for SQLite
// ABOUTME: Replaces the whole catalog atomically and reads it back in row order
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/harper/bookrec/internal/models"
)

// BookStore handles book persistence
type BookStore struct {
	db *DB
}

// NewBookStore creates a new BookStore
func NewBookStore(db *DB) *BookStore {
	return &BookStore{db: db}
}

// ImportRecord describes one catalog load
type ImportRecord struct {
	ImportID   string    `json:"import_id" yaml:"import_id"`
	Source     string    `json:"source" yaml:"source"`
	BookCount  int       `json:"book_count" yaml:"book_count"`
	Skipped    int       `json:"skipped" yaml:"skipped"`
	ImportedAt time.Time `json:"imported_at" yaml:"imported_at"`
}

// ReplaceAll swaps the catalog for books inside one transaction and records
// the import. Book ids are stored as given.
func (s *BookStore) ReplaceAll(books []models.Book, rec ImportRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM books`); err != nil {
		return fmt.Errorf("failed to clear books: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO books (id, source_id, title, authors, average_rating, isbn, isbn13,
			language_code, num_pages, ratings_count, text_reviews_count, publication_date, publisher)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, b := range books {
		if err := b.Validate(); err != nil {
			return err
		}
		_, err := stmt.Exec(b.ID, nullString(b.SourceID), b.Title, b.Authors, b.AverageRating,
			nullString(b.ISBN), nullString(b.ISBN13), b.Language(), b.NumPages, b.RatingsCount,
			b.TextReviewsCount, nullString(b.PublicationDate), nullString(b.Publisher))
		if err != nil {
			return fmt.Errorf("failed to insert book %d: %w", b.ID, err)
		}
	}

	importedAt := rec.ImportedAt
	if importedAt.IsZero() {
		importedAt = time.Now()
	}
	_, err = tx.Exec(`
		INSERT INTO imports (id, source, book_count, skipped_count, imported_at)
		VALUES (?, ?, ?, ?, ?)
	`, rec.ImportID, rec.Source, len(books), rec.Skipped, importedAt)
	if err != nil {
		return fmt.Errorf("failed to record import: %w", err)
	}

	return tx.Commit()
}

// LoadAll returns every book ordered by id
func (s *BookStore) LoadAll() ([]models.Book, error) {
	rows, err := s.db.Query(`
		SELECT id, source_id, title, authors, average_rating, isbn, isbn13,
			language_code, num_pages, ratings_count, text_reviews_count, publication_date, publisher
		FROM books
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var books []models.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, *b)
	}
	return books, rows.Err()
}

// GetByID retrieves a book by its id, or nil when absent
func (s *BookStore) GetByID(id int) (*models.Book, error) {
	row := s.db.QueryRow(`
		SELECT id, source_id, title, authors, average_rating, isbn, isbn13,
			language_code, num_pages, ratings_count, text_reviews_count, publication_date, publisher
		FROM books
		WHERE id = ?
	`, id)

	b, err := scanBook(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Count returns the number of books in the catalog
func (s *BookStore) Count() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM books`).Scan(&n)
	return n, err
}

// LanguageCounts returns the number of books per language code
func (s *BookStore) LanguageCounts() (map[string]int, error) {
	rows, err := s.db.Query(`
		SELECT language_code, COUNT(*)
		FROM books
		GROUP BY language_code
		ORDER BY language_code
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			code string
			n    int
		)
		if err := rows.Scan(&code, &n); err != nil {
			return nil, err
		}
		counts[code] = n
	}
	return counts, rows.Err()
}

// LastImport returns the most recent import, or nil if the catalog was never loaded
func (s *BookStore) LastImport() (*ImportRecord, error) {
	var rec ImportRecord
	err := s.db.QueryRow(`
		SELECT id, source, book_count, skipped_count, imported_at
		FROM imports
		ORDER BY imported_at DESC, rowid DESC
		LIMIT 1
	`).Scan(&rec.ImportID, &rec.Source, &rec.BookCount, &rec.Skipped, &rec.ImportedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanBook(row scanner) (*models.Book, error) {
	var b models.Book
	var sourceID, isbn, isbn13, pubDate, publisher sql.NullString
	err := row.Scan(&b.ID, &sourceID, &b.Title, &b.Authors, &b.AverageRating, &isbn, &isbn13,
		&b.LanguageCode, &b.NumPages, &b.RatingsCount, &b.TextReviewsCount, &pubDate, &publisher)
	if err != nil {
		return nil, err
	}
	b.SourceID = sourceID.String
	b.ISBN = isbn.String
	b.ISBN13 = isbn13.String
	b.PublicationDate = pubDate.String
	b.Publisher = publisher.String
	return &b, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
