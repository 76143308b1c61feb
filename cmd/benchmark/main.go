// ABOUTME: Command-line benchmark runner for recommendation quality and latency
// ABOUTME: Executes benchmark scenarios and outputs JSON results

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/harper/bookrec/benchmarks/quality"
	"github.com/harper/bookrec/internal/config"
	"github.com/harper/bookrec/internal/dataset"
	"github.com/harper/bookrec/internal/logging"
	"github.com/harper/bookrec/internal/models"
)

func main() {
	// Command-line flags
	testID := flag.String("test", "", "Run specific test (typo_match, series_neighbors, accent_folding, shared_term). If empty, runs all tests.")
	datasetPath := flag.String("dataset", "", "Benchmark against this books CSV instead of the built-in catalog")
	iterations := flag.Int("iterations", 100, "Timed queries per scenario")
	outputPath := flag.String("output", "benchmark_results.json", "Output path for JSON results")
	verbose := flag.Bool("verbose", false, "Enable verbose output")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logCfg := logging.DefaultConfig()
	logCfg.Level = "warn"
	if *verbose {
		logCfg.Level = "debug"
	}
	logging.Init(logCfg)

	var catalog []models.Book
	if *datasetPath != "" {
		result, err := dataset.LoadFile(*datasetPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		catalog = result.Books
	}

	fmt.Println("========================================")
	fmt.Println("bookrec Benchmarks")
	fmt.Println("========================================")
	fmt.Println()

	runner, err := quality.NewBenchmarkRunner(catalog, cfg.Options(), *iterations, *verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create benchmark runner: %v\n", err)
		os.Exit(1)
	}

	var results []quality.TestResult
	if *testID == "" {
		fmt.Println("Running all benchmark tests...")
		results, err = runner.RunAllTests()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Benchmark failed: %v\n", err)
			os.Exit(1)
		}
	} else {
		var scenario *quality.TestScenario
		for _, s := range quality.GetAllTests() {
			if s.ID == *testID {
				s := s
				scenario = &s
				break
			}
		}
		if scenario == nil {
			fmt.Fprintf(os.Stderr, "Unknown test ID: %s\n", *testID)
			os.Exit(1)
		}

		fmt.Printf("Running test: %s\n", scenario.Name)
		result, err := runner.RunTest(*scenario)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Test failed: %v\n", err)
			os.Exit(1)
		}
		results = []quality.TestResult{result}
	}

	// Print summary
	summary := runner.Summarize(results)
	fmt.Println("\n========================================")
	fmt.Println("BENCHMARK SUMMARY")
	fmt.Println("========================================")
	fmt.Printf("Index: %d books, %d terms, dimension %d\n",
		summary.Index.Books, summary.Index.VocabularySize, summary.Index.Dimension)

	for _, result := range results {
		fmt.Printf("\n%s: %s\n", result.TestID, result.TestName)
		fmt.Printf("  Match: %.2f\n", result.MatchScore)
		fmt.Printf("  Recall: %.2f\n", result.RecallScore)
		fmt.Printf("  Latency p50/p95: %s / %s\n", result.Latency.P50, result.Latency.P95)
		fmt.Printf("  Status: %s\n", result.Status)
	}

	fmt.Println("\n========================================")
	fmt.Printf("Total Tests: %d\n", summary.TotalTests)
	fmt.Printf("Passed: %d\n", summary.Passed)
	fmt.Printf("Failed: %d\n", summary.Failed)
	fmt.Println("========================================")

	if err := runner.ExportResults(results, *outputPath); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to export results: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✓ Results exported to: %s\n", *outputPath)

	if summary.Failed > 0 {
		os.Exit(1)
	}
}
