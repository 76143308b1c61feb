// ABOUTME: Unified Storage layer that wraps the SQLite catalog stores
// ABOUTME: Persists the cleaned book catalog so the index can be rebuilt without the CSV
package sqlite

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/harper/bookrec/internal/bookerr"
	"github.com/harper/bookrec/internal/logging"
	"github.com/harper/bookrec/internal/models"
	"github.com/harper/bookrec/internal/util"
)

// importAttempts bounds retries when another process holds the write lock
const importAttempts = 4

// Storage manages the persisted book catalog using SQLite
type Storage struct {
	db    *DB
	books *BookStore
	mu    sync.RWMutex
}

// CatalogStats summarises the stored catalog
type CatalogStats struct {
	BookCount  int            `json:"book_count" yaml:"book_count"`
	Languages  map[string]int `json:"languages" yaml:"languages"`
	LastImport *ImportRecord  `json:"last_import,omitempty" yaml:"last_import,omitempty"`
	DBPath     string         `json:"db_path" yaml:"db_path"`
}

// NewStorage initializes storage with SQLite backend
func NewStorage() (*Storage, error) {
	return NewStorageWithPath(DefaultDBPath())
}

// NewStorageWithPath initializes storage with a custom database path
func NewStorageWithPath(dbPath string) (*Storage, error) {
	db, err := Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &Storage{
		db:    db,
		books: NewBookStore(db),
	}, nil
}

// NewStorageInMemory creates an in-memory storage (for testing)
func NewStorageInMemory() (*Storage, error) {
	db, err := OpenInMemory()
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}

	return &Storage{
		db:    db,
		books: NewBookStore(db),
	}, nil
}

// Close closes the storage
func (s *Storage) Close() error {
	return s.db.Close()
}

// Path returns the database path backing the storage
func (s *Storage) Path() string {
	return s.db.Path()
}

// ImportBooks replaces the stored catalog with books. Ids are renumbered to
// the 0-based slice position so stored rows match index rows.
func (s *Storage) ImportBooks(books []models.Book, source string, skipped int) (*ImportRecord, error) {
	if len(books) == 0 {
		return nil, bookerr.NewInvalidDataError("books", "nothing to import")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	renumbered := make([]models.Book, len(books))
	for i, b := range books {
		b.ID = i
		b.LanguageCode = b.Language()
		renumbered[i] = b
	}

	rec := ImportRecord{
		ImportID:   uuid.New().String(),
		Source:     source,
		BookCount:  len(renumbered),
		Skipped:    skipped,
		ImportedAt: time.Now().UTC(),
	}
	err := util.Do(importAttempts, 50*time.Millisecond, isBusy, func() error {
		return s.books.ReplaceAll(renumbered, rec)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to import books: %w", err)
	}

	logging.Info().
		Str("import_id", rec.ImportID).
		Str("source", source).
		Int("books", rec.BookCount).
		Int("skipped", skipped).
		Msg("catalog imported")

	return &rec, nil
}

// LoadBooks returns the stored catalog in id order
func (s *Storage) LoadBooks() ([]models.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	books, err := s.books.LoadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load books: %w", err)
	}
	return books, nil
}

// GetBook retrieves one stored book
func (s *Storage) GetBook(id int) (*models.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	book, err := s.books.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get book: %w", err)
	}
	if book == nil {
		return nil, &bookerr.NotFoundError{ID: id}
	}
	return book, nil
}

// Stats returns catalog counts and the most recent import
func (s *Storage) Stats() (*CatalogStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count, err := s.books.Count()
	if err != nil {
		return nil, fmt.Errorf("failed to count books: %w", err)
	}
	langs, err := s.books.LanguageCounts()
	if err != nil {
		return nil, fmt.Errorf("failed to count languages: %w", err)
	}
	last, err := s.books.LastImport()
	if err != nil {
		return nil, fmt.Errorf("failed to read import history: %w", err)
	}

	return &CatalogStats{
		BookCount:  count,
		Languages:  langs,
		LastImport: last,
		DBPath:     s.db.Path(),
	}, nil
}

// isBusy reports SQLite lock contention, which is worth retrying
func isBusy(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "SQLITE_BUSY")
}
