// ABOUTME: Test runner for recommendation benchmarks - executes scenarios and collects results
// ABOUTME: Builds the index once, times repeated queries and exports JSON summaries

package quality

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/harper/bookrec/internal/models"
	"github.com/harper/bookrec/internal/recommender"
)

// BenchmarkRunner executes benchmark scenarios against one built index
type BenchmarkRunner struct {
	handle     *recommender.Handle
	metrics    *MetricsCalculator
	iterations int
	verbose    bool
}

// NewBenchmarkRunner builds the index over catalog. A nil catalog uses
// DefaultCatalog.
func NewBenchmarkRunner(catalog []models.Book, opts recommender.Options, iterations int, verbose bool) (*BenchmarkRunner, error) {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	if iterations <= 0 {
		iterations = 1
	}

	h, err := recommender.BuildIndex(catalog, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to build index: %w", err)
	}

	return &BenchmarkRunner{
		handle:     h,
		metrics:    NewMetricsCalculator(),
		iterations: iterations,
		verbose:    verbose,
	}, nil
}

// Handle returns the index the runner queries
func (r *BenchmarkRunner) Handle() *recommender.Handle {
	return r.handle
}

// RunTest executes a single benchmark scenario
func (r *BenchmarkRunner) RunTest(scenario TestScenario) (TestResult, error) {
	if r.verbose {
		fmt.Printf("\n========================================\n")
		fmt.Printf("RUNNING: %s\n", scenario.Name)
		fmt.Printf("========================================\n")
		fmt.Printf("Description: %s\n", scenario.Description)
		fmt.Printf("Query: %q\n\n", scenario.Query)
	}

	var (
		result  *models.RecommendResult
		samples = make([]time.Duration, 0, r.iterations)
	)
	for i := 0; i < r.iterations; i++ {
		start := time.Now()
		res, err := recommender.Recommend(r.handle, scenario.Query)
		samples = append(samples, time.Since(start))
		if err != nil {
			return TestResult{}, fmt.Errorf("query %q failed: %w", scenario.Query, err)
		}
		result = res
	}

	testResult := r.metrics.EvaluateTest(scenario, result, samples)

	if r.verbose {
		fmt.Printf("Best match: %s (score %d)\n", result.Match.Title, result.Match.Score)
		for i, rec := range result.Scored() {
			fmt.Printf("  %d. %s (%.3f)\n", i+1, rec.Title, rec.Similarity)
		}
		fmt.Printf("Match: %.2f  Recall: %.2f  p50: %s  Status: %s\n",
			testResult.MatchScore, testResult.RecallScore, testResult.Latency.P50, testResult.Status)
	}

	return testResult, nil
}

// RunAllTests executes all benchmark scenarios
func (r *BenchmarkRunner) RunAllTests() ([]TestResult, error) {
	scenarios := GetAllTests()
	results := make([]TestResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		result, err := r.RunTest(scenario)
		if err != nil {
			return nil, fmt.Errorf("test %s failed: %w", scenario.ID, err)
		}
		results = append(results, result)
	}

	return results, nil
}

// Summary is the exported benchmark report
type Summary struct {
	Timestamp  string            `json:"timestamp"`
	Index      recommender.Stats `json:"index"`
	TotalTests int               `json:"total_tests"`
	Passed     int               `json:"passed"`
	Failed     int               `json:"failed"`
	Results    []TestResult      `json:"results"`
}

// Summarize counts passes and failures
func (r *BenchmarkRunner) Summarize(results []TestResult) Summary {
	summary := Summary{
		Timestamp:  time.Now().Format(time.RFC3339),
		Index:      r.handle.Stats(),
		TotalTests: len(results),
		Results:    results,
	}
	for _, result := range results {
		if result.Status == "PASS" {
			summary.Passed++
		} else {
			summary.Failed++
		}
	}
	return summary
}

// ExportResults exports test results to JSON
func (r *BenchmarkRunner) ExportResults(results []TestResult, outputPath string) error {
	jsonData, err := json.MarshalIndent(r.Summarize(results), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}

	if err := os.WriteFile(outputPath, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write results file: %w", err)
	}

	return nil
}
