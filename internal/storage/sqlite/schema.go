// ABOUTME: SQLite database schema for the book catalog
// ABOUTME: Books keep their load-order row id so feature rows stay aligned
package sqlite

// Schema contains all SQL statements for database initialization
const Schema = `
-- Books table; id is the 0-based load order
CREATE TABLE IF NOT EXISTS books (
    id INTEGER PRIMARY KEY,
    source_id TEXT,
    title TEXT NOT NULL DEFAULT '',
    authors TEXT NOT NULL DEFAULT '',
    average_rating REAL NOT NULL,
    isbn TEXT,
    isbn13 TEXT,
    language_code TEXT NOT NULL DEFAULT 'unknown',
    num_pages INTEGER NOT NULL DEFAULT 0,
    ratings_count INTEGER NOT NULL DEFAULT 0,
    text_reviews_count INTEGER NOT NULL DEFAULT 0,
    publication_date TEXT,
    publisher TEXT
);

-- Import history, one row per catalog load
CREATE TABLE IF NOT EXISTS imports (
    id TEXT PRIMARY KEY,
    source TEXT NOT NULL,
    book_count INTEGER NOT NULL,
    skipped_count INTEGER NOT NULL DEFAULT 0,
    imported_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_books_language ON books(language_code);
CREATE INDEX IF NOT EXISTS idx_imports_time ON imports(imported_at);
`

// SchemaVersion is the current schema version for migrations
const SchemaVersion = 1
