// ABOUTME: Quality and latency metrics for recommendation benchmarks
// ABOUTME: Deterministic evaluation against ground truth plus latency percentiles

package quality

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/harper/bookrec/internal/models"
)

// MetricsCalculator computes benchmark scores
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// LatencySummary describes repeated query timings
type LatencySummary struct {
	Iterations int           `json:"iterations"`
	Min        time.Duration `json:"min_ns"`
	P50        time.Duration `json:"p50_ns"`
	P95        time.Duration `json:"p95_ns"`
	Max        time.Duration `json:"max_ns"`
}

// CalculateMatchScore is 1.0 when the best match contains the expected title
func (m *MetricsCalculator) CalculateMatchScore(match models.TitleMatch, expected string) (float64, string) {
	if expected == "" {
		return 1.0, "No match expectation"
	}
	if strings.Contains(strings.ToUpper(match.Title), strings.ToUpper(expected)) {
		return 1.0, fmt.Sprintf("Matched %q (score %d)", match.Title, match.Score)
	}
	return 0.0, fmt.Sprintf("Matched %q, expected %q", match.Title, expected)
}

// CalculateRecall scores how many expected titles were recommended, halved
// when a forbidden title appears or the result count is wrong
func (m *MetricsCalculator) CalculateRecall(recs []models.Recommendation, truth GroundTruth) (float64, string) {
	titles := make([]string, len(recs))
	for i, r := range recs {
		titles[i] = strings.ToUpper(r.Title)
	}
	all := strings.Join(titles, "\n")

	recall := 1.0
	var missing []string
	if len(truth.ExpectedInResults) > 0 {
		found := 0
		for _, want := range truth.ExpectedInResults {
			if strings.Contains(all, strings.ToUpper(want)) {
				found++
			} else {
				missing = append(missing, want)
			}
		}
		recall = float64(found) / float64(len(truth.ExpectedInResults))
	}

	var forbidden []string
	for _, bad := range truth.ForbiddenInResults {
		if strings.Contains(all, strings.ToUpper(bad)) {
			forbidden = append(forbidden, bad)
		}
	}
	if len(forbidden) > 0 {
		recall /= 2
	}

	countOK := truth.ExpectedCount == 0 || truth.ExpectedCount == len(recs)
	if !countOK {
		recall /= 2
	}

	if len(missing) == 0 && len(forbidden) == 0 && countOK {
		return recall, "All expected recommendations present"
	}
	return recall, fmt.Sprintf("missing: %v, forbidden found: %v, count %d (want %d)",
		missing, forbidden, len(recs), truth.ExpectedCount)
}

// SummarizeLatency computes percentiles over samples
func (m *MetricsCalculator) SummarizeLatency(samples []time.Duration) LatencySummary {
	if len(samples) == 0 {
		return LatencySummary{}
	}
	sorted := make([]time.Duration, len(samples))
	copy(sorted, samples)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	return LatencySummary{
		Iterations: len(sorted),
		Min:        sorted[0],
		P50:        percentile(sorted, 0.50),
		P95:        percentile(sorted, 0.95),
		Max:        sorted[len(sorted)-1],
	}
}

// EvaluateTest runs full evaluation for a scenario
func (m *MetricsCalculator) EvaluateTest(scenario TestScenario, result *models.RecommendResult, samples []time.Duration) TestResult {
	matchScore, matchDetail := m.CalculateMatchScore(result.Match, scenario.GroundTruth.ExpectedMatch)
	recall, recallDetail := m.CalculateRecall(result.Recommendations, scenario.GroundTruth)

	status := "FAIL"
	if matchScore >= 0.9 && recall >= 0.9 {
		status = "PASS"
	}

	return TestResult{
		TestID:       scenario.ID,
		TestName:     scenario.Name,
		MatchScore:   matchScore,
		RecallScore:  recall,
		OverallScore: (matchScore + recall) / 2.0,
		Latency:      m.SummarizeLatency(samples),
		Status:       status,
		Details: map[string]interface{}{
			"match_detail":  matchDetail,
			"recall_detail": recallDetail,
			"best_match":    result.Match.Title,
			"results":       len(result.Recommendations),
		},
	}
}

// percentile uses nearest-rank on a sorted slice
func percentile(sorted []time.Duration, p float64) time.Duration {
	rank := int(p*float64(len(sorted))+0.5) - 1
	if rank < 0 {
		rank = 0
	}
	if rank >= len(sorted) {
		rank = len(sorted) - 1
	}
	return sorted[rank]
}
