package algo

import (
	"testing"

	"github.com/huangsam/seoscore/schema"
	"github.com/stretchr/testify/assert"
)

func page(source string, score int) schema.PageResult {
	return schema.PageResult{Source: source, Aggregate: schema.AggregateResult{Score: score}}
}

func sources(pages []schema.PageResult) []string {
	out := make([]string, 0, len(pages))
	for _, p := range pages {
		out = append(out, p.Source)
	}
	return out
}

func TestRankPages(t *testing.T) {
	tests := []struct {
		name     string
		pages    []schema.PageResult
		limit    int
		expected []string
	}{
		{
			name:     "ascending by score",
			pages:    []schema.PageResult{page("a.html", 90), page("b.html", 20), page("c.html", 55)},
			limit:    10,
			expected: []string{"b.html", "c.html", "a.html"},
		},
		{
			name:     "ties ordered by source",
			pages:    []schema.PageResult{page("z.html", 40), page("m.html", 40), page("a.html", 40)},
			limit:    0,
			expected: []string{"a.html", "m.html", "z.html"},
		},
		{
			name:     "limit applied",
			pages:    []schema.PageResult{page("a.html", 90), page("b.html", 20), page("c.html", 55)},
			limit:    2,
			expected: []string{"b.html", "c.html"},
		},
		{
			name:     "empty input",
			pages:    []schema.PageResult{},
			limit:    5,
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, sources(RankPages(tt.pages, tt.limit)))
		})
	}
}
