package schema

// PolicyResult holds the results of a score gate over a set of pages.
type PolicyResult struct {
	Passed     bool            `json:"passed"`
	TotalPages int             `json:"total_pages"`
	MinScore   int             `json:"min_score"`
	FailOn     ScoreStatus     `json:"fail_on"`
	Failures   []PolicyFailure `json:"failures"`
	MinPage    string          `json:"min_page"`  // Source of the lowest scoring page
	LowScore   int             `json:"low_score"` // Lowest score observed
	AvgScore   float64         `json:"avg_score"` // Average score across pages
}

// PolicyFailure represents a page that failed the gate.
type PolicyFailure struct {
	Source string      `json:"source"`
	Score  int         `json:"score"`
	Status ScoreStatus `json:"status"`
	Reason string      `json:"reason"`
}
