// ABOUTME: Tests for benchmark metrics and the scenario runner
// ABOUTME: Verifies scoring rules, latency percentiles and JSON export

package quality

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/harper/bookrec/internal/models"
	"github.com/harper/bookrec/internal/recommender"
)

func TestCalculateMatchScore(t *testing.T) {
	m := NewMetricsCalculator()

	tests := []struct {
		name     string
		title    string
		expected string
		want     float64
	}{
		{"exact", "The Hobbit", "The Hobbit", 1.0},
		{"case-insensitive substring", "Harry Potter and the Half-Blood Prince", "harry potter", 1.0},
		{"no expectation", "Anything", "", 1.0},
		{"wrong title", "Dune", "The Hobbit", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := m.CalculateMatchScore(models.TitleMatch{Title: tt.title}, tt.expected)
			if got != tt.want {
				t.Errorf("CalculateMatchScore() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCalculateRecall(t *testing.T) {
	m := NewMetricsCalculator()
	recs := []models.Recommendation{{Title: "Dune Messiah"}, {Title: "The Hobbit"}}

	tests := []struct {
		name  string
		truth GroundTruth
		want  float64
	}{
		{"all found", GroundTruth{ExpectedInResults: []string{"dune", "hobbit"}, ExpectedCount: 2}, 1.0},
		{"half found", GroundTruth{ExpectedInResults: []string{"dune", "emma"}}, 0.5},
		{"forbidden present", GroundTruth{ForbiddenInResults: []string{"hobbit"}}, 0.5},
		{"wrong count", GroundTruth{ExpectedCount: 5}, 0.5},
		{"no expectations", GroundTruth{}, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := m.CalculateRecall(recs, tt.truth)
			if got != tt.want {
				t.Errorf("CalculateRecall() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSummarizeLatency(t *testing.T) {
	m := NewMetricsCalculator()

	samples := make([]time.Duration, 0, 20)
	for i := 20; i >= 1; i-- {
		samples = append(samples, time.Duration(i)*time.Millisecond)
	}

	got := m.SummarizeLatency(samples)
	if got.Iterations != 20 {
		t.Errorf("Iterations = %d, want 20", got.Iterations)
	}
	if got.Min != time.Millisecond || got.Max != 20*time.Millisecond {
		t.Errorf("Min/Max = %v/%v", got.Min, got.Max)
	}
	if got.P50 != 10*time.Millisecond {
		t.Errorf("P50 = %v, want 10ms", got.P50)
	}
	if got.P95 != 19*time.Millisecond {
		t.Errorf("P95 = %v, want 19ms", got.P95)
	}

	if empty := m.SummarizeLatency(nil); empty.Iterations != 0 {
		t.Errorf("empty summary = %+v", empty)
	}
}

func TestRunAllTests_DefaultCatalog(t *testing.T) {
	runner, err := NewBenchmarkRunner(nil, recommender.DefaultOptions(), 3, false)
	if err != nil {
		t.Fatalf("NewBenchmarkRunner() error = %v", err)
	}

	results, err := runner.RunAllTests()
	if err != nil {
		t.Fatalf("RunAllTests() error = %v", err)
	}
	if len(results) != len(GetAllTests()) {
		t.Fatalf("got %d results, want %d", len(results), len(GetAllTests()))
	}

	for _, r := range results {
		if r.Status != "PASS" {
			t.Errorf("%s: status %s, details %v", r.TestID, r.Status, r.Details)
		}
		if r.Latency.Iterations != 3 {
			t.Errorf("%s: %d latency samples, want 3", r.TestID, r.Latency.Iterations)
		}
	}
}

func TestRunTest_BlankQueryFails(t *testing.T) {
	runner, err := NewBenchmarkRunner(nil, recommender.DefaultOptions(), 1, false)
	if err != nil {
		t.Fatalf("NewBenchmarkRunner() error = %v", err)
	}

	if _, err := runner.RunTest(TestScenario{ID: "blank", Query: " "}); err == nil {
		t.Error("RunTest() should fail for a blank query")
	}
}

func TestExportResults(t *testing.T) {
	runner, err := NewBenchmarkRunner(nil, recommender.DefaultOptions(), 1, false)
	if err != nil {
		t.Fatalf("NewBenchmarkRunner() error = %v", err)
	}

	results := []TestResult{{TestID: "a", Status: "PASS"}, {TestID: "b", Status: "FAIL"}}
	out := filepath.Join(t.TempDir(), "results.json")
	if err := runner.ExportResults(results, out); err != nil {
		t.Fatalf("ExportResults() error = %v", err)
	}

	content, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("reading results: %v", err)
	}
	var summary Summary
	if err := json.Unmarshal(content, &summary); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if summary.TotalTests != 2 || summary.Passed != 1 || summary.Failed != 1 {
		t.Errorf("summary = %+v", summary)
	}
	if summary.Index.Books != len(DefaultCatalog()) {
		t.Errorf("Index.Books = %d, want %d", summary.Index.Books, len(DefaultCatalog()))
	}
}
