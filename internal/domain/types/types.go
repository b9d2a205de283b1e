// Package types contains common types used across the application
package types

// Entry represents a leaderboard entry
type Entry struct {
	Rank  int     `json:"rank"`
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// ScoreResult is the outcome of a single prediction request.
type ScoreResult struct {
	Name             string  `json:"name,omitempty"`
	Probability      float64 `json:"probability"`
	Habitable        bool    `json:"habitable"`
	HeuristicApplied bool    `json:"heuristic_applied"`
	Persisted        bool    `json:"persisted"`
}
