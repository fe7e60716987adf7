package algo

import (
	"math"
	"testing"

	"github.com/huangsam/seoscore/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func check(status schema.CheckStatus, label, hint string) schema.CheckResult {
	return schema.CheckResult{Status: status, Label: label, FixHint: hint}
}

func weighted(status schema.CheckStatus, weight float64, label, hint string) schema.CheckResult {
	return schema.CheckResult{Status: status, Weight: schema.NewWeight(weight), Label: label, FixHint: hint}
}

// TestCalculateThresholds covers the exact score and status for equal-weight pairs.
func TestCalculateThresholds(t *testing.T) {
	tests := []struct {
		name    string
		second  schema.CheckStatus
		score   int
		status  schema.ScoreStatus
		numRecs int
	}{
		{name: "pass and pass", second: schema.PassStatus, score: 100, status: schema.GreenStatus, numRecs: 0},
		{name: "pass and warn", second: schema.WarnStatus, score: 75, status: schema.YellowStatus, numRecs: 1},
		{name: "pass and fail", second: schema.FailStatus, score: 50, status: schema.YellowStatus, numRecs: 1},
	}

	engine := NewScoreEngine(StaticWeights(map[string]float64{"a": 50, "b": 50}))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := engine.Calculate(map[string]schema.CheckResult{
				"a": check(schema.PassStatus, "A", "fix a"),
				"b": check(tt.second, "B", "fix b"),
			})
			assert.Equal(t, tt.score, result.Score)
			assert.Equal(t, tt.status, result.Status)
			assert.Len(t, result.Recommendations, tt.numRecs)
			assert.InDelta(t, 100.0, result.WeightTotal, 1e-9)
		})
	}
}

// TestCalculateWeightedExample uses provider weights that differ between checks.
func TestCalculateWeightedExample(t *testing.T) {
	engine := NewScoreEngine(StaticWeights(map[string]float64{
		"title_length":     2.0,
		"meta_description": 1.0,
	}))

	result := engine.Calculate(map[string]schema.CheckResult{
		"title_length":     weighted(schema.PassStatus, 0.3, "Title length", "Keep titles between 30 and 60 characters."),
		"meta_description": weighted(schema.WarnStatus, 0.3, "Meta description", "Write a description of 70 to 160 characters."),
	})

	assert.Equal(t, 83, result.Score)
	assert.Equal(t, schema.GreenStatus, result.Status)
	require.NotEmpty(t, result.Recommendations)
	assert.Contains(t, result.Recommendations[0], "Meta description")
	assert.InDelta(t, 3.0, result.WeightTotal, 1e-9)
}

// TestCalculateEmbeddedWeightFirst checks the alternate precedence order.
func TestCalculateEmbeddedWeightFirst(t *testing.T) {
	engine := NewScoreEngine(StaticWeights(map[string]float64{
		"title_length":     2.0,
		"meta_description": 1.0,
	}), WithEmbeddedWeightFirst())

	result := engine.Calculate(map[string]schema.CheckResult{
		"title_length":     weighted(schema.PassStatus, 0.3, "Title length", ""),
		"meta_description": weighted(schema.WarnStatus, 0.3, "Meta description", ""),
	})

	assert.Equal(t, 75, result.Score)
	assert.Equal(t, schema.YellowStatus, result.Status)
	assert.InDelta(t, 0.6, result.WeightTotal, 1e-9)
}

// TestCalculateDefaulting covers invalid weights and missing text.
func TestCalculateDefaulting(t *testing.T) {
	var invalid schema.Weight
	require.NoError(t, invalid.UnmarshalJSON([]byte(`"invalid"`)))

	engine := NewScoreEngine(nil)
	result := engine.Calculate(map[string]schema.CheckResult{
		"broken": {Status: schema.FailStatus, Weight: invalid},
		"light":  weighted(schema.WarnStatus, 0.4, "", ""),
	})

	assert.InDelta(t, 1.4, result.WeightTotal, 1e-9)
	assert.InDelta(t, 1.0, result.Breakdown["broken"].Weight, 1e-9)
	require.Len(t, result.Recommendations, 2)
	assert.Equal(t, "SEO check: broken: "+DefaultFixHint, result.Recommendations[0])
	assert.Equal(t, "SEO check: light: "+DefaultFixHint, result.Recommendations[1])
}

// TestCalculateInvalidProviderWeight falls through to the embedded value.
func TestCalculateInvalidProviderWeight(t *testing.T) {
	tests := []struct {
		name     string
		provided float64
	}{
		{name: "negative", provided: -2},
		{name: "nan", provided: math.NaN()},
		{name: "infinite", provided: math.Inf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := NewScoreEngine(StaticWeights(map[string]float64{"x": tt.provided}))
			assert.InDelta(t, 0.25, engine.ResolveWeight("x", weighted(schema.PassStatus, 0.25, "", "")), 1e-9)
			assert.InDelta(t, DefaultWeight, engine.ResolveWeight("x", check(schema.PassStatus, "", "")), 1e-9)
		})
	}
}

// TestCalculateEmbeddedFirstChain falls through from the embedded weight to the provider and then the default.
func TestCalculateEmbeddedFirstChain(t *testing.T) {
	var unparsable schema.Weight
	require.NoError(t, unparsable.UnmarshalJSON([]byte(`"invalid"`)))

	tests := []struct {
		name     string
		table    map[string]float64
		embedded schema.Weight
		expected float64
	}{
		{name: "valid embedded wins", table: map[string]float64{"x": 3}, embedded: schema.NewWeight(0.5), expected: 0.5},
		{name: "unparsable embedded uses provider", table: map[string]float64{"x": 3}, embedded: unparsable, expected: 3},
		{name: "negative embedded uses provider", table: map[string]float64{"x": 3}, embedded: schema.NewWeight(-1), expected: 3},
		{name: "nan embedded uses provider", table: map[string]float64{"x": 3}, embedded: schema.NewWeight(math.NaN()), expected: 3},
		{name: "missing embedded uses provider", table: map[string]float64{"x": 3}, expected: 3},
		{name: "unparsable embedded without provider entry", table: map[string]float64{"y": 3}, embedded: unparsable, expected: DefaultWeight},
		{name: "negative embedded with invalid provider", table: map[string]float64{"x": -3}, embedded: schema.NewWeight(-1), expected: DefaultWeight},
		{name: "nothing set", table: nil, expected: DefaultWeight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := NewScoreEngine(StaticWeights(tt.table), WithEmbeddedWeightFirst())
			c := schema.CheckResult{Status: schema.FailStatus, Weight: tt.embedded}
			assert.InDelta(t, tt.expected, engine.ResolveWeight("x", c), 1e-9)

			result := engine.Calculate(map[string]schema.CheckResult{"x": c})
			assert.InDelta(t, tt.expected, result.Breakdown["x"].Weight, 1e-9)
			assert.InDelta(t, tt.expected, result.WeightTotal, 1e-9)
		})
	}
}

// TestCalculateHugeWeights keeps scores and totals finite near the float64 limit.
func TestCalculateHugeWeights(t *testing.T) {
	tests := []struct {
		name   string
		second schema.CheckStatus
		score  int
	}{
		{name: "all pass", second: schema.PassStatus, score: 100},
		{name: "pass and warn", second: schema.WarnStatus, score: 75},
		{name: "pass and fail", second: schema.FailStatus, score: 50},
	}

	engine := NewScoreEngine(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := engine.Calculate(map[string]schema.CheckResult{
				"a": weighted(schema.PassStatus, 1e308, "", ""),
				"b": weighted(tt.second, 1e308, "", ""),
			})
			assert.Equal(t, tt.score, result.Score)
			assert.Equal(t, StatusForScore(tt.score), result.Status)
			assert.False(t, math.IsInf(result.WeightTotal, 0))
			assert.InDelta(t, 1e308, result.Breakdown["a"].Weight, 1e295)
		})
	}
}

// TestCalculateZeroWeightTotal ensures there is no division by zero.
func TestCalculateZeroWeightTotal(t *testing.T) {
	engine := NewScoreEngine(StaticWeights(map[string]float64{"a": 0, "b": 0}))

	t.Run("empty set", func(t *testing.T) {
		result := engine.Calculate(map[string]schema.CheckResult{})
		assert.Equal(t, 0, result.Score)
		assert.Equal(t, schema.RedStatus, result.Status)
		assert.Empty(t, result.Recommendations)
		assert.NotNil(t, result.Breakdown)
	})

	t.Run("nil set", func(t *testing.T) {
		result := engine.Calculate(nil)
		assert.Equal(t, 0, result.Score)
	})

	t.Run("all zero weights", func(t *testing.T) {
		result := engine.Calculate(map[string]schema.CheckResult{
			"a": check(schema.PassStatus, "", ""),
			"b": check(schema.PassStatus, "", ""),
		})
		assert.Equal(t, 0, result.Score)
		assert.Zero(t, result.WeightTotal)
	})
}

// TestCalculateUnknownStatus treats unknown statuses as failures.
func TestCalculateUnknownStatus(t *testing.T) {
	engine := NewScoreEngine(nil)
	result := engine.Calculate(map[string]schema.CheckResult{
		"a": check("PASS", "", ""),
		"b": check("skipped", "", ""),
		"c": check("", "", ""),
	})

	assert.Equal(t, 33, result.Score)
	assert.Equal(t, schema.RedStatus, result.Status)
	assert.Equal(t, schema.PassStatus, result.Breakdown["a"].Status)
	assert.Equal(t, schema.CheckStatus("skipped"), result.Breakdown["b"].Status)
	assert.Zero(t, result.Breakdown["b"].Multiplier)
	assert.Len(t, result.Recommendations, 2)
}

// TestCalculateAllPassAndAllFail covers the extremes.
func TestCalculateAllPassAndAllFail(t *testing.T) {
	engine := NewScoreEngine(StaticWeights(map[string]float64{"a": 3, "b": 1, "c": 0.5}))

	pass := engine.Calculate(map[string]schema.CheckResult{
		"a": check(schema.PassStatus, "", ""),
		"b": check(schema.PassStatus, "", ""),
		"c": check(schema.PassStatus, "", ""),
	})
	assert.Equal(t, 100, pass.Score)
	assert.Equal(t, schema.GreenStatus, pass.Status)
	assert.Empty(t, pass.Recommendations)

	fail := engine.Calculate(map[string]schema.CheckResult{
		"a": check(schema.FailStatus, "", ""),
		"b": check(schema.FailStatus, "", ""),
		"c": check(schema.FailStatus, "", ""),
	})
	assert.Equal(t, 0, fail.Score)
	assert.Equal(t, schema.RedStatus, fail.Status)
	assert.Len(t, fail.Recommendations, 3)
}

// TestRecommendationOrder checks tiering, weight order and the id tiebreak.
func TestRecommendationOrder(t *testing.T) {
	engine := NewScoreEngine(StaticWeights(map[string]float64{
		"warn_heavy": 5,
		"warn_light": 1,
		"fail_light": 0.5,
		"fail_heavy": 2,
		"tie_b":      1,
		"tie_a":      1,
		"passing":    10,
	}))

	result := engine.Calculate(map[string]schema.CheckResult{
		"warn_heavy": check(schema.WarnStatus, "warn heavy", "x"),
		"warn_light": check(schema.WarnStatus, "warn light", "x"),
		"fail_light": check(schema.FailStatus, "fail light", "x"),
		"fail_heavy": check(schema.FailStatus, "fail heavy", "x"),
		"tie_b":      check(schema.FailStatus, "tie b", "x"),
		"tie_a":      check(schema.FailStatus, "tie a", "x"),
		"passing":    check(schema.PassStatus, "passing", "x"),
	})

	assert.Equal(t, []string{
		"fail heavy: x",
		"tie a: x",
		"tie b: x",
		"fail light: x",
		"warn heavy: x",
		"warn light: x",
	}, result.Recommendations)
	assert.Len(t, result.Breakdown, 7)
	assert.InDelta(t, 10.0, result.Breakdown["passing"].Contribution, 1e-9)
}

// TestCalculateIdempotent ensures repeated calls agree.
func TestCalculateIdempotent(t *testing.T) {
	engine := NewScoreEngine(StaticWeights(map[string]float64{"a": 1.25, "b": 0.75}))
	checks := map[string]schema.CheckResult{
		"a": check(schema.WarnStatus, "A", "fix"),
		"b": check(schema.FailStatus, "B", ""),
		"c": weighted(schema.PassStatus, 2, "C", ""),
	}

	first := engine.Calculate(checks)
	for range 5 {
		assert.Equal(t, first, engine.Calculate(checks))
	}
}

// TestCalculateProviderCalledPerInvocation ensures weight tables can change between calls.
func TestCalculateProviderCalledPerInvocation(t *testing.T) {
	calls := 0
	weights := map[string]float64{"a": 1, "b": 1}
	engine := NewScoreEngine(func() map[string]float64 {
		calls++
		return weights
	})
	checks := map[string]schema.CheckResult{
		"a": check(schema.PassStatus, "", ""),
		"b": check(schema.FailStatus, "", ""),
	}

	assert.Equal(t, 50, engine.Calculate(checks).Score)
	weights = map[string]float64{"a": 3, "b": 1}
	assert.Equal(t, 75, engine.Calculate(checks).Score)
	assert.Equal(t, 2, calls)
}

// TestStatusForScore covers the inclusive lower bounds.
func TestStatusForScore(t *testing.T) {
	tests := []struct {
		score    int
		expected schema.ScoreStatus
	}{
		{0, schema.RedStatus},
		{49, schema.RedStatus},
		{50, schema.YellowStatus},
		{79, schema.YellowStatus},
		{80, schema.GreenStatus},
		{100, schema.GreenStatus},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, StatusForScore(tt.score), "score %d", tt.score)
	}
}

// BenchmarkCalculate benchmarks scoring a full set of built-in checks.
func BenchmarkCalculate(b *testing.B) {
	weights := make(map[string]float64)
	checks := make(map[string]schema.CheckResult)
	for k, v := range schema.GetDefaultWeights() {
		weights[string(k)] = v
		checks[string(k)] = check(schema.WarnStatus, string(k), "fix")
	}
	engine := NewScoreEngine(StaticWeights(weights))

	for b.Loop() {
		engine.Calculate(checks)
	}
}
