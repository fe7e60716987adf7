package algo

import (
	"sort"

	"github.com/huangsam/seoscore/schema"
)

// RankPages sorts pages by their score in ascending order, so the pages that
// need the most attention come first, and returns the top 'limit' pages.
// Pages with equal scores are ordered by source. If limit is greater than
// the number of pages, all pages are returned in sorted order.
func RankPages(pages []schema.PageResult, limit int) []schema.PageResult {
	sort.SliceStable(pages, func(i, j int) bool {
		if pages[i].Aggregate.Score != pages[j].Aggregate.Score {
			return pages[i].Aggregate.Score < pages[j].Aggregate.Score
		}
		return pages[i].Source < pages[j].Source
	})
	if limit > 0 && len(pages) > limit {
		return pages[:limit]
	}
	return pages
}
