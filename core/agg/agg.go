// Package agg has aggregation logic for scored pages.
package agg

import (
	"math"
	"sort"

	"github.com/huangsam/seoscore/schema"
)

// DefaultIssueLimit caps how many common issues a summary lists.
const DefaultIssueLimit = 5

// Summarize computes site-wide statistics over a set of scored pages.
// Common issues are the checks that most pages did not pass.
func Summarize(pages []schema.PageResult, issueLimit int) schema.SiteSummary {
	summary := schema.SiteSummary{
		TotalPages:   len(pages),
		StatusCounts: make(map[schema.ScoreStatus]int, len(schema.ValidScoreStatuses)),
		CommonIssues: []schema.IssueCount{},
	}
	for status := range schema.ValidScoreStatuses {
		summary.StatusCounts[status] = 0
	}
	if len(pages) == 0 {
		return summary
	}

	summary.MinScore = math.MaxInt
	total := 0
	issues, labels := initializeIssueMaps()
	for _, p := range pages {
		score := p.Aggregate.Score
		total += score
		summary.MinScore = min(summary.MinScore, score)
		summary.MaxScore = max(summary.MaxScore, score)
		summary.StatusCounts[p.Aggregate.Status]++
		countIssues(p.Aggregate.Breakdown, issues, labels)
	}
	summary.AvgScore = float64(total) / float64(len(pages))
	summary.CommonIssues = rankIssues(issues, labels, issueLimit)
	return summary
}

func initializeIssueMaps() (map[string]int, map[string]string) {
	return make(map[string]int), make(map[string]string)
}

// countIssues adds one to the issue count of every non-passing check.
func countIssues(breakdown map[string]schema.Breakdown, issues map[string]int, labels map[string]string) {
	for id, b := range breakdown {
		if b.Multiplier >= schema.PassMultiplier {
			continue
		}
		issues[id]++
		if _, ok := labels[id]; !ok {
			labels[id] = b.Label
		}
	}
}

// rankIssues orders issues by page count descending, then by check id.
// A limit of zero or less keeps every issue.
func rankIssues(issues map[string]int, labels map[string]string, limit int) []schema.IssueCount {
	result := make([]schema.IssueCount, 0, len(issues))
	for id, n := range issues {
		result = append(result, schema.IssueCount{CheckID: id, Label: labels[id], Pages: n})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Pages != result[j].Pages {
			return result[i].Pages > result[j].Pages
		}
		return result[i].CheckID < result[j].CheckID
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result
}
