package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/huangsam/seoscore/core/algo"
	"github.com/huangsam/seoscore/internal/contract"
	"github.com/huangsam/seoscore/internal/fetch"
	"github.com/huangsam/seoscore/schema"
)

// ErrNoPagesAnalyzed is returned when every source failed to load or parse.
var ErrNoPagesAnalyzed = errors.New("no pages could be analyzed")

// logAnalysisHeader prints a concise, 2-line header before pages are analyzed.
// It goes to stderr so that JSON and CSV on stdout stay parseable.
func logAnalysisHeader(cfg *contract.Config, numPages int) {
	if cfg.UseEmojis {
		_, _ = fmt.Fprintf(os.Stderr, "🔎 Pages: %d (workers: %d)\n", numPages, cfg.Workers)
		_, _ = fmt.Fprintf(os.Stderr, "⚖️  Weights: %s first, %d custom\n", cfg.WeightPrecedence, len(cfg.CustomWeights))
		return
	}
	_, _ = fmt.Fprintf(os.Stderr, "Pages: %d (workers: %d)\n", numPages, cfg.Workers)
	_, _ = fmt.Fprintf(os.Stderr, "Weights: %s first, %d custom\n", cfg.WeightPrecedence, len(cfg.CustomWeights))
}

// runAnalysisCore performs the common Resolve, Fetch, Check and Score steps
// and tracks the run in the history store when one is configured.
func runAnalysisCore(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, args []string) ([]schema.PageResult, error) {
	// --- 1. Source Resolution ---
	sources, err := fetch.ResolveSources(args, cfg.Include)
	if err != nil {
		return nil, err
	}
	if !shouldSuppressHeader(ctx) {
		logAnalysisHeader(cfg, len(sources))
	}

	// Add cache manager to context for use in worker goroutines
	ctx = contextWithCacheManager(ctx, mgr)

	// --- 2. Begin Analysis Tracking (if configured) ---
	var analysisID int64
	history := historyStore(mgr)
	if history != nil {
		configParams := map[string]any{
			"sources":           len(sources),
			"workers":           cfg.Workers,
			"result_limit":      cfg.ResultLimit,
			"weight_precedence": string(cfg.WeightPrecedence),
			"custom_weights":    cfg.CustomWeights,
		}
		analysisID, err = history.BeginRun(time.Now(), configParams)
		if err != nil {
			contract.LogWarn("Analysis tracking initialization failed", err)
		} else if analysisID > 0 {
			ctx = withAnalysisID(ctx, analysisID)
		}
	}

	// --- 3. Core Analysis ---
	fetcher := fetch.NewFetcher(cfg.Timeout, cfg.UserAgent, cfg.MaxPageBytes, pageStore(mgr), cfg.CacheTTL)
	pages := analyzePages(ctx, cfg, fetcher, sources)

	// --- 4. End Analysis Tracking ---
	if history != nil && analysisID > 0 {
		if err := history.EndRun(analysisID, time.Now(), len(pages)); err != nil {
			contract.LogWarn("Failed to finalize analysis tracking", err)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, ErrNoPagesAnalyzed
	}
	return pages, nil
}

// analyzePages processes all sources in parallel using a worker pool.
// It spawns cfg.Workers goroutines and collects the pages that scored
// successfully. Failures are logged and skipped.
func analyzePages(ctx context.Context, cfg *contract.Config, fetcher *fetch.Fetcher, sources []string) []schema.PageResult {
	sourceCh := make(chan string, len(sources))
	resultCh := make(chan schema.PageResult, len(sources))
	engine := cfg.NewScoreEngine()
	var wg sync.WaitGroup

	// Start worker pool
	for range max(1, cfg.Workers) {
		wg.Go(func() {
			for source := range sourceCh {
				if ctx.Err() != nil {
					continue // Drain remaining sources after cancellation
				}
				result, err := analyzePageCommon(ctx, fetcher, engine, source)
				if err != nil {
					contract.LogWarn(fmt.Sprintf("Skipping %s", source), err)
					continue
				}
				resultCh <- result
			}
		})
	}

	// Send sources to worker channel
	for _, s := range sources {
		sourceCh <- s
	}
	close(sourceCh)

	// Wait for all workers to finish processing
	wg.Wait()
	close(resultCh)

	results := make([]schema.PageResult, 0, len(sources))
	for r := range resultCh {
		results = append(results, r)
	}
	return results
}

// analyzePageCommon loads, checks and scores a single page, then records it
// in the history store if analysis tracking is enabled.
func analyzePageCommon(ctx context.Context, fetcher *fetch.Fetcher, engine *algo.ScoreEngine, source string) (schema.PageResult, error) {
	result, err := NewPageResultBuilder(ctx, fetcher, engine, source).
		FetchPage().      // Loads the page from the web, the cache or disk
		RunChecks().      // Runs every built-in check
		CalculateScore(). // Computes the weighted score
		Build()
	if err != nil {
		return result, err
	}

	if analysisID, ok := getAnalysisID(ctx); ok && analysisID > 0 {
		recordPageAnalysis(ctx, analysisID, result)
	}
	return result, nil
}

// recordPageAnalysis records the page score to the database.
func recordPageAnalysis(ctx context.Context, analysisID int64, result schema.PageResult) {
	store := historyStore(cacheManagerFromContext(ctx))
	if store == nil {
		return
	}
	if err := store.RecordPageScore(analysisID, result); err != nil {
		logTrackingError("RecordPageScore", result.Source, err)
	}
}

// logTrackingError logs database tracking errors to stderr without disrupting analysis.
func logTrackingError(operation, source string, err error) {
	contract.LogWarn(fmt.Sprintf("Analysis tracking failed for %s on %s", operation, source), err)
}
