package core

import (
	"context"
	"os"
	"testing"

	"github.com/huangsam/seoscore/internal/contract"
	"github.com/huangsam/seoscore/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scored(source string, score int, status schema.ScoreStatus) schema.PageResult {
	return schema.PageResult{Source: source, Aggregate: schema.AggregateResult{Score: score, Status: status}}
}

func TestPolicyResultBuilder(t *testing.T) {
	pages := []schema.PageResult{
		scored("a.html", 90, schema.GreenStatus),
		scored("b.html", 55, schema.YellowStatus),
		scored("c.html", 30, schema.RedStatus),
		scored("d.html", 30, schema.RedStatus),
	}

	tests := []struct {
		name     string
		minScore int
		failOn   schema.ScoreStatus
		passed   bool
		failing  []string
	}{
		{name: "red gate", minScore: 0, failOn: schema.RedStatus, passed: false, failing: []string{"c.html", "d.html"}},
		{name: "yellow gate", minScore: 0, failOn: schema.YellowStatus, passed: false, failing: []string{"b.html", "c.html", "d.html"}},
		{name: "min score only", minScore: 60, failOn: schema.RedStatus, passed: false, failing: []string{"b.html", "c.html", "d.html"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &contract.Config{MinScore: tt.minScore, FailOn: tt.failOn}
			result := NewPolicyResultBuilder(cfg, pages).ComputeMetrics().BuildResult().GetResult()

			require.NotNil(t, result)
			assert.Equal(t, tt.passed, result.Passed)
			assert.Equal(t, 4, result.TotalPages)
			assert.Equal(t, "c.html", result.MinPage)
			assert.Equal(t, 30, result.LowScore)
			assert.InDelta(t, 51.25, result.AvgScore, 1e-9)

			var failing []string
			for _, f := range result.Failures {
				failing = append(failing, f.Source)
			}
			assert.Equal(t, tt.failing, failing)
		})
	}
}

func TestPolicyFailureReason(t *testing.T) {
	cfg := &contract.Config{MinScore: 50, FailOn: schema.RedStatus}
	b := NewPolicyResultBuilder(cfg, nil)

	assert.Empty(t, b.failureReason(schema.AggregateResult{Score: 80, Status: schema.GreenStatus}))
	assert.Equal(t, "score 40 below 50; status red at or below red",
		b.failureReason(schema.AggregateResult{Score: 40, Status: schema.RedStatus}))
}

func TestPolicyResultBuilderAllPass(t *testing.T) {
	cfg := &contract.Config{MinScore: 50, FailOn: schema.RedStatus}
	result := NewPolicyResultBuilder(cfg, []schema.PageResult{scored("a.html", 90, schema.GreenStatus)}).
		ComputeMetrics().
		BuildResult().
		GetResult()

	assert.True(t, result.Passed)
	assert.Empty(t, result.Failures)
	assert.NotNil(t, result.Failures)
}

func TestExecuteCheck(t *testing.T) {
	_, good, bare := writePages(t)
	ctx := WithSuppressHeader(context.Background())

	t.Run("passes", func(t *testing.T) {
		cfg := testConfig(t)
		require.NoError(t, ExecuteCheck(ctx, cfg, nil, []string{good}))
	})

	t.Run("fails", func(t *testing.T) {
		cfg := testConfig(t)
		err := ExecuteCheck(ctx, cfg, nil, []string{good, bare})
		require.ErrorIs(t, err, ErrPolicyFailed)

		content, readErr := os.ReadFile(cfg.OutputFile)
		require.NoError(t, readErr)
		assert.Contains(t, string(content), `"passed": false`)
		assert.Contains(t, string(content), bare)
	})
}
