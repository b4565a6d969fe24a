package types

import "time"

// Counters holds the outcome tallies for one slice of a run.
type Counters struct {
	Processed int `json:"processed"`
	Saved     int `json:"saved"`
	Existing  int `json:"existing"`
	Errors    int `json:"errors"`
}

// CityStats aggregates counters for one city, broken down by category.
type CityStats struct {
	Counters
	ByCategory map[string]*Counters `json:"by_category"`
}

// CategoryRank is one entry of a city's category ranking.
type CategoryRank struct {
	Category string `json:"category"`
	Saved    int    `json:"saved"`
}

// PairFailure records a search-level failure for a city/category pair.
type PairFailure struct {
	City     string    `json:"city"`
	Category string    `json:"category"`
	Kind     ErrorKind `json:"error_type"`
	Message  string    `json:"message"`
}

// RunSummary is the per-invocation aggregate returned to the caller.
type RunSummary struct {
	Success             bool                      `json:"success"`
	RunID               string                    `json:"run_id"`
	StartedAt           time.Time                 `json:"started_at"`
	DurationMS          int64                     `json:"duration_ms"`
	MaxResults          int                       `json:"max_results"`
	TestMode            bool                      `json:"test_mode"`
	Capped              bool                      `json:"capped"`
	TotalProcessed      int                       `json:"total_processed"`
	TotalSaved          int                       `json:"total_saved"`
	TotalExisting       int                       `json:"total_existing"`
	TotalErrors         int                       `json:"total_errors"`
	ByCity              map[string]*CityStats     `json:"by_city"`
	ByCategory          map[string]*Counters      `json:"by_category"`
	TopCategoriesByCity map[string][]CategoryRank `json:"top_categories_by_city"`
	SkippedCities       []string                  `json:"skipped_cities,omitempty"`
	TruncatedPairs      int                       `json:"truncated_pairs"`
	Failures            []PairFailure             `json:"failures,omitempty"`
}
