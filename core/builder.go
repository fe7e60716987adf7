package core

import (
	"context"
	"fmt"
	"time"

	"github.com/huangsam/seoscore/core/algo"
	"github.com/huangsam/seoscore/internal/checks"
	"github.com/huangsam/seoscore/internal/fetch"
	"github.com/huangsam/seoscore/schema"
)

// PageResultBuilder builds the result of a single page, from loading it to scoring it.
// The first failing step is remembered and every later step becomes a no-op.
type PageResultBuilder struct {
	ctx      context.Context
	fetcher  *fetch.Fetcher
	engine   *algo.ScoreEngine
	checkers []checks.Checker
	source   string
	page     *fetch.Page
	result   *schema.PageResult
	err      error
}

// NewPageResultBuilder is the starting point for building a page result.
func NewPageResultBuilder(ctx context.Context, fetcher *fetch.Fetcher, engine *algo.ScoreEngine, source string) *PageResultBuilder {
	return &PageResultBuilder{
		ctx:     ctx,
		fetcher: fetcher,
		engine:  engine,
		source:  source,
		result:  &schema.PageResult{Source: source},
	}
}

// WithCheckers replaces the built-in checks.
func (b *PageResultBuilder) WithCheckers(checkers []checks.Checker) *PageResultBuilder {
	b.checkers = checkers
	return b
}

// WithHTML supplies the page content directly instead of loading the source.
func (b *PageResultBuilder) WithHTML(body []byte, baseURL string) *PageResultBuilder {
	b.page = &fetch.Page{Source: b.source, BaseURL: baseURL, Body: body}
	return b
}

// FetchPage loads the page from a URL or a local file, unless content was already supplied.
func (b *PageResultBuilder) FetchPage() *PageResultBuilder {
	if b.err != nil || b.page != nil {
		return b
	}
	if b.fetcher == nil {
		b.err = fmt.Errorf("no fetcher configured for %s", b.source)
		return b
	}
	page, err := b.fetcher.Load(b.ctx, b.source)
	if err != nil {
		b.err = err
		return b
	}
	b.page = page
	return b
}

// RunChecks runs every check over the loaded page.
func (b *PageResultBuilder) RunChecks() *PageResultBuilder {
	if b.err != nil {
		return b
	}
	if b.page == nil {
		b.err = fmt.Errorf("page %s was not loaded", b.source)
		return b
	}
	results, err := checks.Analyze(b.ctx, b.page.Body, b.page.BaseURL, b.checkers)
	if err != nil {
		b.err = fmt.Errorf("failed to analyze %s: %w", b.source, err)
		return b
	}
	b.result.AnalyzedAt = time.Now()
	b.result.Checks = results
	return b
}

// CalculateScore aggregates the check results into the page score.
func (b *PageResultBuilder) CalculateScore() *PageResultBuilder {
	if b.err != nil {
		return b
	}
	b.result.Aggregate = b.engine.Calculate(b.result.Checks)
	return b
}

// Build returns the final page result or the first error encountered.
func (b *PageResultBuilder) Build() (schema.PageResult, error) {
	if b.err != nil {
		return schema.PageResult{}, b.err
	}
	return *b.result, nil
}
