// Package core has core logic for analysis, scoring and ranking.
package core

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"time"

	"github.com/huangsam/seoscore/core/agg"
	"github.com/huangsam/seoscore/core/algo"
	"github.com/huangsam/seoscore/internal/checks"
	"github.com/huangsam/seoscore/internal/contract"
	"github.com/huangsam/seoscore/internal/outwriter"
	"github.com/huangsam/seoscore/schema"
)

// StdinSource is the input name that reads a checks document from standard input.
const StdinSource = "-"

// stdin is swapped in tests.
var stdin io.Reader = os.Stdin

// ExecutorFunc defines the function signature for executing commands that analyze pages.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, args []string) error

// ExecuteScore scores pre-computed check documents and prints the results.
// Each input is a JSON or YAML mapping of check id to result and is treated
// as one page. No inputs means a single document on standard input.
func ExecuteScore(_ context.Context, cfg *contract.Config, inputs []string) error {
	start := time.Now()

	pages, err := ScoreDocuments(cfg, inputs)
	if err != nil {
		return err
	}
	summary := agg.Summarize(pages, agg.DefaultIssueLimit)
	ranked := algo.RankPages(pages, cfg.ResultLimit)
	return outwriter.NewOutWriter().WritePages(schema.EnrichPages(ranked), summary, cfg, time.Since(start))
}

// ScoreDocuments reads and scores every checks document in inputs.
func ScoreDocuments(cfg *contract.Config, inputs []string) ([]schema.PageResult, error) {
	if len(inputs) == 0 {
		inputs = []string{StdinSource}
	}

	engine := cfg.NewScoreEngine()
	pages := make([]schema.PageResult, 0, len(inputs))
	for _, input := range inputs {
		data, err := readInput(input)
		if err != nil {
			return nil, err
		}
		parsed, err := schema.ParseChecks(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", input, err)
		}
		source := input
		if input == StdinSource {
			source = "stdin"
		}
		pages = append(pages, ScoreChecks(engine, source, parsed))
	}
	return pages, nil
}

// ScoreChecks wraps already computed checks into a scored page.
func ScoreChecks(engine *algo.ScoreEngine, source string, results map[string]schema.CheckResult) schema.PageResult {
	return schema.PageResult{
		Source:     source,
		AnalyzedAt: time.Now(),
		Checks:     results,
		Aggregate:  engine.Calculate(results),
	}
}

func readInput(input string) ([]byte, error) {
	if input == StdinSource {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(input)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", input, err)
	}
	return data, nil
}

// ExecuteAnalyze runs the page analysis and prints results.
// It serves as the main entry point for the 'analyze' command.
func ExecuteAnalyze(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, args []string) error {
	start := time.Now()
	pages, err := runAnalysisCore(ctx, cfg, mgr, args)
	if err != nil {
		return err
	}
	summary := agg.Summarize(pages, agg.DefaultIssueLimit)
	ranked := algo.RankPages(pages, cfg.ResultLimit)
	duration := time.Since(start)
	return outwriter.NewOutWriter().WritePages(schema.EnrichPages(ranked), summary, cfg, duration)
}

// AnalyzeHTML checks and scores a single document without touching any store.
func AnalyzeHTML(ctx context.Context, cfg *contract.Config, source string, body []byte, baseURL string) (schema.PageResult, error) {
	return NewPageResultBuilder(ctx, nil, cfg.NewScoreEngine(), source).
		WithHTML(body, baseURL).
		RunChecks().
		CalculateScore().
		Build()
}

// AnalyzeSource loads, checks and scores a single URL or file, using the page cache of mgr.
func AnalyzeSource(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, source string) (schema.PageResult, error) {
	pages, err := runAnalysisCore(WithSuppressHeader(ctx), cfg, mgr, []string{source})
	if err != nil {
		return schema.PageResult{}, err
	}
	return pages[0], nil
}

// ExecuteWeights displays the active weight of every check.
// This is a static display that does not require any page analysis.
func ExecuteWeights(_ context.Context, cfg *contract.Config) error {
	return outwriter.NewOutWriter().WriteWeights(BuildWeightEntries(cfg), cfg)
}

// BuildWeightEntries lists the built-in checks in display order, followed by
// any custom check ids in alphabetical order.
func BuildWeightEntries(cfg *contract.Config) []schema.WeightEntry {
	defaults := schema.GetDefaultWeights()
	labels := checks.Labels()

	ids := make([]string, 0, len(cfg.ComputedWeights))
	for _, id := range schema.AllCheckIDs {
		ids = append(ids, string(id))
	}
	var extra []string
	for id := range cfg.ComputedWeights {
		if _, ok := defaults[schema.CheckID(id)]; !ok {
			extra = append(extra, id)
		}
	}
	sort.Strings(extra)
	ids = append(ids, extra...)

	entries := make([]schema.WeightEntry, 0, len(ids))
	total := 0.0
	for _, id := range ids {
		active, ok := cfg.ComputedWeights[id]
		if !ok {
			active = defaults[schema.CheckID(id)]
		}
		_, custom := cfg.CustomWeights[id]
		label := labels[schema.CheckID(id)]
		if label == "" {
			label = id
		}
		entries = append(entries, schema.WeightEntry{
			CheckID: id,
			Label:   label,
			Default: defaults[schema.CheckID(id)],
			Active:  active,
			Custom:  custom,
		})
		total += active
	}

	if total > 0 {
		for i := range entries {
			entries[i].Share = math.Round(10000*entries[i].Active/total) / 100
		}
	}
	return entries
}
