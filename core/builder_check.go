package core

import (
	"fmt"
	"math"
	"strings"

	"github.com/huangsam/seoscore/internal/contract"
	"github.com/huangsam/seoscore/schema"
)

// PolicyResultBuilder builds the result of the score gate using a builder pattern.
type PolicyResultBuilder struct {
	cfg      *contract.Config
	pages    []schema.PageResult
	failures []schema.PolicyFailure
	minPage  string
	lowScore int
	avgScore float64
	result   *schema.PolicyResult
}

// NewPolicyResultBuilder creates a new builder for the pages of one run.
func NewPolicyResultBuilder(cfg *contract.Config, pages []schema.PageResult) *PolicyResultBuilder {
	return &PolicyResultBuilder{cfg: cfg, pages: pages}
}

// ComputeMetrics finds the lowest and average scores and the pages that fail the gate.
func (b *PolicyResultBuilder) ComputeMetrics() *PolicyResultBuilder {
	b.failures = []schema.PolicyFailure{}
	if len(b.pages) == 0 {
		return b
	}

	b.lowScore = math.MaxInt
	total := 0
	for _, p := range b.pages {
		score := p.Aggregate.Score
		total += score
		// Ties keep the first page seen in source order
		if score < b.lowScore || (score == b.lowScore && p.Source < b.minPage) {
			b.lowScore = score
			b.minPage = p.Source
		}
		if reason := b.failureReason(p.Aggregate); reason != "" {
			b.failures = append(b.failures, schema.PolicyFailure{
				Source: p.Source,
				Score:  score,
				Status: p.Aggregate.Status,
				Reason: reason,
			})
		}
	}
	b.avgScore = float64(total) / float64(len(b.pages))
	return b
}

// failureReason explains why a page fails the gate, or returns "" if it passes.
func (b *PolicyResultBuilder) failureReason(agg schema.AggregateResult) string {
	var reasons []string
	if agg.Score < b.cfg.MinScore {
		reasons = append(reasons, fmt.Sprintf("score %d below %d", agg.Score, b.cfg.MinScore))
	}
	if agg.Status.Severity() >= b.cfg.FailOn.Severity() {
		reasons = append(reasons, fmt.Sprintf("status %s at or below %s", agg.Status, b.cfg.FailOn))
	}
	return strings.Join(reasons, "; ")
}

// BuildResult constructs the final PolicyResult.
func (b *PolicyResultBuilder) BuildResult() *PolicyResultBuilder {
	b.result = &schema.PolicyResult{
		Passed:     len(b.failures) == 0,
		TotalPages: len(b.pages),
		MinScore:   b.cfg.MinScore,
		FailOn:     b.cfg.FailOn,
		Failures:   b.failures,
		MinPage:    b.minPage,
		LowScore:   b.lowScore,
		AvgScore:   b.avgScore,
	}
	return b
}

// GetResult returns the built PolicyResult.
func (b *PolicyResultBuilder) GetResult() *schema.PolicyResult {
	return b.result
}
