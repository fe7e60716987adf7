// Package schema has configs, models and enums for all parts of seoscore.
package schema

import "time"

// PageResult is the outcome of analyzing and scoring a single page.
type PageResult struct {
	Source     string                 `json:"source"`      // URL or local path of the page
	AnalyzedAt time.Time              `json:"analyzed_at"` // When the checks were run
	Checks     map[string]CheckResult `json:"checks"`      // Raw check outcomes keyed by check id
	Aggregate  AggregateResult        `json:"aggregate"`   // Weighted score, status and recommendations
}

// EnrichedPageResult adds presentation data to a PageResult.
type EnrichedPageResult struct {
	Rank int `json:"rank"`
	PageResult
}

// EnrichPages adds rank to a list of page results.
func EnrichPages(pages []PageResult) []EnrichedPageResult {
	output := make([]EnrichedPageResult, len(pages))
	for i, p := range pages {
		output[i] = EnrichedPageResult{
			Rank:       i + 1,
			PageResult: p,
		}
	}
	return output
}
