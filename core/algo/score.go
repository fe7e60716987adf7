// Package algo has the pure scoring and ranking logic of seoscore.
package algo

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/huangsam/seoscore/schema"
)

// DefaultWeight is used when no other source supplies a valid weight for a check.
const DefaultWeight = 1.0

// Score thresholds for the traffic-light status. Each bound is inclusive.
const (
	GreenThreshold  = 80
	YellowThreshold = 50
)

// DefaultFixHint is used in recommendations when a check carries no fix hint.
const DefaultFixHint = "Review this check and apply the suggested fix."

// WeightProvider returns the weight table keyed by check id.
type WeightProvider func() map[string]float64

// StaticWeights adapts a fixed table into a WeightProvider.
func StaticWeights(weights map[string]float64) WeightProvider {
	return func() map[string]float64 { return weights }
}

// weightResolver returns a candidate weight for a check and whether it should be used.
type weightResolver func(id string, check schema.CheckResult, table map[string]float64) (float64, bool)

// providerWeight reads the weight from the provider table.
func providerWeight(id string, _ schema.CheckResult, table map[string]float64) (float64, bool) {
	w, ok := table[id]
	return w, ok && validWeight(w)
}

// embeddedWeight reads the weight carried by the check itself.
func embeddedWeight(_ string, check schema.CheckResult, _ map[string]float64) (float64, bool) {
	return check.Weight.Value, check.Weight.Valid()
}

// defaultWeight always resolves and terminates every chain.
func defaultWeight(string, schema.CheckResult, map[string]float64) (float64, bool) {
	return DefaultWeight, true
}

func validWeight(w float64) bool {
	return !math.IsNaN(w) && !math.IsInf(w, 0) && w >= 0
}

// EngineOption customizes a ScoreEngine.
type EngineOption func(*ScoreEngine)

// WithEmbeddedWeightFirst makes a check's own weight win over the provider table.
func WithEmbeddedWeightFirst() EngineOption {
	return func(e *ScoreEngine) {
		e.chain = []weightResolver{embeddedWeight, providerWeight, defaultWeight}
	}
}

// WithWeightPrecedence selects the resolution order by name.
func WithWeightPrecedence(p schema.WeightPrecedence) EngineOption {
	if p == schema.EmbeddedFirst {
		return WithEmbeddedWeightFirst()
	}
	return func(*ScoreEngine) {}
}

// ScoreEngine aggregates weighted check results into a single score.
// It keeps no state between calls and is safe for concurrent use.
type ScoreEngine struct {
	weights WeightProvider
	chain   []weightResolver
}

// NewScoreEngine creates an engine that looks up weights through provider.
// A nil provider behaves like an empty table.
func NewScoreEngine(provider WeightProvider, opts ...EngineOption) *ScoreEngine {
	e := &ScoreEngine{
		weights: provider,
		chain:   []weightResolver{providerWeight, embeddedWeight, defaultWeight},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ResolveWeight returns the effective weight of a single check.
func (e *ScoreEngine) ResolveWeight(id string, check schema.CheckResult) float64 {
	return e.resolve(id, check, e.table())
}

func (e *ScoreEngine) resolve(id string, check schema.CheckResult, table map[string]float64) float64 {
	for _, r := range e.chain {
		if w, ok := r(id, check, table); ok {
			return w
		}
	}
	return DefaultWeight
}

func (e *ScoreEngine) table() map[string]float64 {
	if e.weights == nil {
		return nil
	}
	return e.weights()
}

// Calculate scores the given checks. It never fails: malformed fields fall
// back to safe defaults and an empty or zero-weight set scores 0.
func (e *ScoreEngine) Calculate(checks map[string]schema.CheckResult) schema.AggregateResult {
	table := e.table()

	ids := make([]string, 0, len(checks))
	for id := range checks {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	weights := make(map[string]float64, len(checks))
	var maxWeight float64
	for _, id := range ids {
		w := e.resolve(id, checks[id], table)
		weights[id] = w
		maxWeight = max(maxWeight, w)
	}

	// Sums use weights scaled by the largest one and stay finite.
	breakdown := make(map[string]schema.Breakdown, len(checks))
	var weightTotal, scaledTotal, scaledEarned float64
	for _, id := range ids {
		check := checks[id]
		w := weights[id]
		m := check.Status.Multiplier()
		weightTotal += w
		if maxWeight > 0 {
			scaledTotal += w / maxWeight
			scaledEarned += (w / maxWeight) * m
		}
		breakdown[id] = schema.Breakdown{
			Status:       check.Status.Normalize(),
			Label:        labelFor(id, check),
			Weight:       w,
			Multiplier:   m,
			Contribution: w * m,
		}
	}
	if math.IsInf(weightTotal, 1) {
		weightTotal = math.MaxFloat64
	}

	score := 0
	if scaledTotal > 0 {
		score = int(math.Round(100 * scaledEarned / scaledTotal))
	}
	score = max(0, min(100, score))

	return schema.AggregateResult{
		Score:           score,
		Status:          StatusForScore(score),
		WeightTotal:     weightTotal,
		Breakdown:       breakdown,
		Recommendations: recommendations(ids, checks, breakdown),
	}
}

// StatusForScore buckets a score into green, yellow or red.
func StatusForScore(score int) schema.ScoreStatus {
	switch {
	case score >= GreenThreshold:
		return schema.GreenStatus
	case score >= YellowThreshold:
		return schema.YellowStatus
	default:
		return schema.RedStatus
	}
}

// labelFor returns the display label of a check, falling back to one derived from its id.
func labelFor(id string, check schema.CheckResult) string {
	if label := strings.TrimSpace(check.Label); label != "" {
		return label
	}
	return fmt.Sprintf("SEO check: %s", id)
}

// recommendations lists every non-passing check, worst tier first and heaviest first
// within a tier. ids must be sorted, which makes ties fall back to check id order.
func recommendations(ids []string, checks map[string]schema.CheckResult, breakdown map[string]schema.Breakdown) []string {
	failing := make([]string, 0, len(ids))
	for _, id := range ids {
		if breakdown[id].Multiplier < schema.PassMultiplier {
			failing = append(failing, id)
		}
	}

	sort.SliceStable(failing, func(i, j int) bool {
		bi, bj := breakdown[failing[i]], breakdown[failing[j]]
		if bi.Multiplier != bj.Multiplier {
			return bi.Multiplier < bj.Multiplier
		}
		return bi.Weight > bj.Weight
	})

	recs := make([]string, 0, len(failing))
	for _, id := range failing {
		hint := strings.TrimSpace(checks[id].FixHint)
		if hint == "" {
			hint = DefaultFixHint
		}
		recs = append(recs, fmt.Sprintf("%s: %s", breakdown[id].Label, hint))
	}
	return recs
}
