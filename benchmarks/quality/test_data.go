// ABOUTME: Scenario data for recommendation quality and latency benchmarks
// ABOUTME: Defines queries, expected matches and ground truth over a small built-in catalog

package quality

import "github.com/harper/bookrec/internal/models"

// TestScenario is one benchmark query with its expectations
type TestScenario struct {
	ID          string
	Name        string
	Description string
	Query       string
	GroundTruth GroundTruth
}

// GroundTruth defines expected outcomes for one query
type GroundTruth struct {
	// ExpectedMatch must appear in the fuzzy-matched title; empty skips the check
	ExpectedMatch string
	// ExpectedInResults must each appear in at least one recommended title
	ExpectedInResults []string
	// ForbiddenInResults must not appear in any recommended title
	ForbiddenInResults []string
	// ExpectedCount is the number of recommendations; 0 skips the check
	ExpectedCount int
}

// TestResult represents the outcome of a benchmark test
type TestResult struct {
	TestID       string                 `json:"test_id"`
	TestName     string                 `json:"test_name"`
	MatchScore   float64                `json:"match_score"`
	RecallScore  float64                `json:"recall_score"`
	OverallScore float64                `json:"overall_score"`
	Latency      LatencySummary         `json:"latency"`
	Status       string                 `json:"status"` // "PASS" or "FAIL"
	Details      map[string]interface{} `json:"details,omitempty"`
	ErrorMessage string                 `json:"error_message,omitempty"`
}

// DefaultCatalog is the built-in catalog the scenarios are written against
func DefaultCatalog() []models.Book {
	return []models.Book{
		{Title: "Harry Potter and the Half-Blood Prince (Harry Potter  #6)", Authors: "J.K. Rowling", AverageRating: 4.57, LanguageCode: "eng", RatingsCount: 2095690, NumPages: 652},
		{Title: "Harry Potter and the Order of the Phoenix (Harry Potter  #5)", Authors: "J.K. Rowling", AverageRating: 4.49, LanguageCode: "eng", RatingsCount: 2153167, NumPages: 870},
		{Title: "Harry Potter and the Chamber of Secrets (Harry Potter  #2)", Authors: "J.K. Rowling", AverageRating: 4.42, LanguageCode: "eng", RatingsCount: 6333, NumPages: 352},
		{Title: "The Hobbit", Authors: "J.R.R. Tolkien", AverageRating: 4.27, LanguageCode: "eng", RatingsCount: 2530894, NumPages: 366},
		{Title: "The Fellowship of the Ring (The Lord of the Rings  #1)", Authors: "J.R.R. Tolkien", AverageRating: 4.36, LanguageCode: "eng", RatingsCount: 2128944, NumPages: 398},
		{Title: "The Two Towers (The Lord of the Rings  #2)", Authors: "J.R.R. Tolkien", AverageRating: 4.44, LanguageCode: "eng", RatingsCount: 593467, NumPages: 352},
		{Title: "Pride and Prejudice", Authors: "Jane Austen", AverageRating: 4.26, LanguageCode: "eng", RatingsCount: 2530000, NumPages: 279},
		{Title: "Sense and Sensibility", Authors: "Jane Austen", AverageRating: 4.07, LanguageCode: "eng", RatingsCount: 1029000, NumPages: 409},
		{Title: "Le Petit Prince", Authors: "Antoine de Saint-Exupéry", AverageRating: 4.30, LanguageCode: "fre", RatingsCount: 3000, NumPages: 93},
		{Title: "Les Misérables", Authors: "Victor Hugo", AverageRating: 4.17, LanguageCode: "fre", RatingsCount: 4000, NumPages: 1463},
		{Title: "Dune", Authors: "Frank Herbert", AverageRating: 4.25, LanguageCode: "eng", RatingsCount: 683, NumPages: 604},
		{Title: "Dune Messiah", Authors: "Frank Herbert", AverageRating: 3.88, LanguageCode: "eng", RatingsCount: 140000, NumPages: 331},
	}
}

// GetTypoMatch checks fuzzy matching survives a misspelling
func GetTypoMatch() TestScenario {
	return TestScenario{
		ID:          "typo_match",
		Name:        "Misspelled Title",
		Description: "A one-letter typo still resolves to the intended title",
		Query:       "the hobit",
		GroundTruth: GroundTruth{
			ExpectedMatch: "The Hobbit",
			ExpectedCount: 5,
		},
	}
}

// GetSeriesNeighbors checks that a series query returns other volumes
func GetSeriesNeighbors() TestScenario {
	return TestScenario{
		ID:          "series_neighbors",
		Name:        "Series Neighbors",
		Description: "A series name recommends other books of the same series",
		Query:       "harry potter",
		GroundTruth: GroundTruth{
			ExpectedMatch:      "Harry Potter",
			ExpectedInResults:  []string{"Harry Potter"},
			ForbiddenInResults: []string{"Pride and Prejudice"},
			ExpectedCount:      5,
		},
	}
}

// GetAccentFolding checks that accents do not block matching
func GetAccentFolding() TestScenario {
	return TestScenario{
		ID:          "accent_folding",
		Name:        "Accent Folding",
		Description: "An unaccented query matches an accented title",
		Query:       "les miserables",
		GroundTruth: GroundTruth{
			ExpectedMatch: "Les Misérables",
			ExpectedCount: 5,
		},
	}
}

// GetSharedTerm checks that a shared title term pulls in its sequel
func GetSharedTerm() TestScenario {
	return TestScenario{
		ID:          "shared_term",
		Name:        "Shared Title Term",
		Description: "A single distinctive term recommends the other title that contains it",
		Query:       "dune",
		GroundTruth: GroundTruth{
			ExpectedMatch: "Dune",
			ExpectedCount: 5,
		},
	}
}

// GetAllTests returns all benchmark scenarios
func GetAllTests() []TestScenario {
	return []TestScenario{
		GetTypoMatch(),
		GetSeriesNeighbors(),
		GetAccentFolding(),
		GetSharedTerm(),
	}
}
