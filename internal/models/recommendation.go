// ABOUTME: Result models returned by the recommendation pipeline
// ABOUTME: Defines TitleMatch, Recommendation and RecommendResult
package models

// TitleMatch is the closest known title for a free-text query.
// Score is a 0-100 confidence and never affects ranking.
type TitleMatch struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Score int    `json:"score"`
}

// Recommendation is one ranked neighbor
type Recommendation struct {
	ID       int     `json:"id"`
	Title    string  `json:"title"`
	Distance float64 `json:"distance"`
}

// Similarity returns 1 - Distance, the score shown to users
func (r Recommendation) Similarity() float64 {
	return 1 - r.Distance
}

// RecommendResult is the full response for one query. It carries everything a
// front-end needs so the pipeline itself keeps no per-session state.
type RecommendResult struct {
	Query           string           `json:"query"`
	Match           TitleMatch       `json:"best_match"`
	Recommendations []Recommendation `json:"recommendations"`
}

// ScoredRecommendation is a Recommendation with its similarity spelled out,
// the shape rendered by the CLI and MCP tools
type ScoredRecommendation struct {
	ID         int     `json:"id"`
	Title      string  `json:"title"`
	Distance   float64 `json:"distance"`
	Similarity float64 `json:"similarity"`
}

// Scored returns the recommendations with similarity scores attached
func (r RecommendResult) Scored() []ScoredRecommendation {
	out := make([]ScoredRecommendation, 0, len(r.Recommendations))
	for _, rec := range r.Recommendations {
		out = append(out, ScoredRecommendation{
			ID:         rec.ID,
			Title:      rec.Title,
			Distance:   rec.Distance,
			Similarity: rec.Similarity(),
		})
	}
	return out
}
