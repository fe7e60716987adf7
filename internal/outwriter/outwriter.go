// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/huangsam/seoscore/internal/contract"
	"github.com/huangsam/seoscore/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WritePages prints ranked page results using the configured output format.
func (ow *OutWriter) WritePages(pages []schema.EnrichedPageResult, summary schema.SiteSummary, cfg *contract.Config, duration time.Duration) error {
	return WritePageResults(pages, summary, cfg, duration)
}

// WriteWeights prints the active weight table using the configured output format.
func (ow *OutWriter) WriteWeights(entries []schema.WeightEntry, cfg *contract.Config) error {
	return WriteWeightTable(entries, cfg)
}

// WritePolicy prints the outcome of a score gate using the configured output format.
func (ow *OutWriter) WritePolicy(result schema.PolicyResult, cfg *contract.Config, duration time.Duration) error {
	return WritePolicyResult(result, cfg, duration)
}
