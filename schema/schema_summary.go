package schema

// IssueCount is how many pages did not pass a given check.
type IssueCount struct {
	CheckID string `json:"check_id"`
	Label   string `json:"label"`
	Pages   int    `json:"pages"`
}

// SiteSummary aggregates the scores of a set of pages.
type SiteSummary struct {
	TotalPages   int                 `json:"total_pages"`
	AvgScore     float64             `json:"avg_score"`
	MinScore     int                 `json:"min_score"`
	MaxScore     int                 `json:"max_score"`
	StatusCounts map[ScoreStatus]int `json:"status_counts"`
	CommonIssues []IssueCount        `json:"common_issues"` // Most frequent non-passing checks first
}

// WeightEntry describes the active weight of one check.
type WeightEntry struct {
	CheckID string  `json:"check_id"`
	Label   string  `json:"label"`
	Default float64 `json:"default"`
	Active  float64 `json:"active"`
	Custom  bool    `json:"custom"` // Overridden by config or flags
	Share   float64 `json:"share"`  // Percentage of the sum of active weights
}
