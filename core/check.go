package core

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/huangsam/seoscore/internal/contract"
	"github.com/huangsam/seoscore/internal/outwriter"
)

// ErrPolicyFailed is returned by ExecuteCheck when at least one page fails the gate.
var ErrPolicyFailed = errors.New("score gate failed")

// ExecuteCheck runs the check command for CI/CD gating.
// It analyzes the given pages and fails when any of them scores below
// cfg.MinScore or has a status at or below cfg.FailOn.
func ExecuteCheck(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, args []string) error {
	start := time.Now()

	pages, err := runAnalysisCore(ctx, cfg, mgr, args)
	if err != nil {
		return err
	}
	sort.SliceStable(pages, func(i, j int) bool { return pages[i].Source < pages[j].Source })

	result := NewPolicyResultBuilder(cfg, pages).
		ComputeMetrics().
		BuildResult().
		GetResult()

	if err := outwriter.NewOutWriter().WritePolicy(*result, cfg, time.Since(start)); err != nil {
		return err
	}
	if !result.Passed {
		return fmt.Errorf("%w: %d of %d pages below gate", ErrPolicyFailed, len(result.Failures), result.TotalPages)
	}
	return nil
}
