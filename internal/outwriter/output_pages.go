package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/huangsam/seoscore/internal/contract"
	"github.com/huangsam/seoscore/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// maxExplainChecks is how many non-passing checks the explain column shows.
const maxExplainChecks = 3

// WritePageResults outputs scored pages, dispatching based on the output format configured.
func WritePageResults(pages []schema.EnrichedPageResult, summary schema.SiteSummary, cfg *contract.Config, duration time.Duration) error {
	nf := newNumberFormat(cfg.Precision)

	var write func(io.Writer) error
	switch cfg.Output {
	case schema.JSONOut:
		write = func(w io.Writer) error { return writeJSONResultsForPages(w, pages, summary) }
	case schema.CSVOut:
		write = func(w io.Writer) error { return writeCSVResultsForPages(w, pages, nf) }
	case schema.ParquetOut:
		write = func(w io.Writer) error { return writePageParquet(w, pages) }
	default:
		write = func(w io.Writer) error { return writePageTable(pages, summary, cfg, nf, duration, w) }
	}
	return writeToOutput(cfg.OutputFile, cfg.Output, write)
}

// scoreLabel picks the colored or plain status label for table output.
func scoreLabel(status schema.ScoreStatus, cfg *contract.Config) string {
	if cfg.UseColors {
		return contract.GetColorLabel(status)
	}
	return contract.GetPlainLabel(status)
}

// checkLabel picks the colored or plain check status label for table output.
func checkLabel(status schema.CheckStatus, cfg *contract.Config) string {
	if cfg.UseColors {
		return contract.GetCheckColorLabel(status)
	}
	text := strings.ToUpper(string(status.Normalize()))
	if text == "" {
		return "UNKNOWN"
	}
	return text
}

// writePageTable generates and writes the human-readable table.
func writePageTable(pages []schema.EnrichedPageResult, summary schema.SiteSummary, cfg *contract.Config, nf numberFormat, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	headers := []string{"Rank", "Source", "Score", "Status"}
	if cfg.Explain {
		headers = append(headers, "Worst checks")
	}
	table.Header(headers)

	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	width := getMaxTableSourceWidth(cfg)
	var data [][]string
	for _, p := range pages {
		row := []string{
			nf.whole(p.Rank),
			contract.TruncatePath(p.Source, width),
			nf.whole(p.Aggregate.Score),
			scoreLabel(p.Aggregate.Status, cfg),
		}
		if cfg.Explain {
			row = append(row, formatWorstChecks(p.Aggregate.Breakdown))
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	// A single page gets its full breakdown
	if len(pages) == 1 {
		if err := writeBreakdownTable(pages[0], cfg, nf, writer); err != nil {
			return err
		}
	}

	if err := writeRecommendations(pages, cfg, writer); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(writer, "Showing %d of %d pages (avg score: %s, green: %d, yellow: %d, red: %d)\n",
		len(pages), summary.TotalPages, nf.decimal(summary.AvgScore),
		summary.StatusCounts[schema.GreenStatus],
		summary.StatusCounts[schema.YellowStatus],
		summary.StatusCounts[schema.RedStatus]); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Analysis completed in %v with %d workers. Cache backend: %s\n", duration, cfg.Workers, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}

// writeBreakdownTable writes one row per check of a page.
func writeBreakdownTable(page schema.EnrichedPageResult, cfg *contract.Config, nf numberFormat, writer io.Writer) error {
	if len(page.Aggregate.Breakdown) == 0 {
		return nil
	}
	if _, err := fmt.Fprintf(writer, "\nBreakdown for %s\n", page.Source); err != nil {
		return err
	}

	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Check", "Label", "Status", "Weight", "Contribution"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, id := range sortedCheckIDs(page.Aggregate.Breakdown) {
		b := page.Aggregate.Breakdown[id]
		data = append(data, []string{
			id,
			b.Label,
			checkLabel(b.Status, cfg),
			nf.decimal(b.Weight),
			nf.decimal(b.Contribution),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeRecommendations lists the ordered recommendations of every page that has any.
func writeRecommendations(pages []schema.EnrichedPageResult, cfg *contract.Config, writer io.Writer) error {
	for _, p := range pages {
		if len(p.Aggregate.Recommendations) == 0 {
			continue
		}
		header := "Recommendations"
		if cfg.UseEmojis {
			header = "💡 " + header
		}
		if _, err := fmt.Fprintf(writer, "\n%s for %s\n", header, p.Source); err != nil {
			return err
		}
		for i, rec := range p.Aggregate.Recommendations {
			if _, err := fmt.Fprintf(writer, "  %d. %s\n", i+1, rec); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintln(writer)
	return err
}

// worstChecks returns the ids of non-passing checks, worst tier and heaviest first.
func worstChecks(breakdown map[string]schema.Breakdown, limit int) []string {
	var ids []string
	for _, id := range sortedCheckIDs(breakdown) {
		if breakdown[id].Multiplier < schema.PassMultiplier {
			ids = append(ids, id)
		}
	}
	sort.SliceStable(ids, func(i, j int) bool {
		bi, bj := breakdown[ids[i]], breakdown[ids[j]]
		if bi.Multiplier != bj.Multiplier {
			return bi.Multiplier < bj.Multiplier
		}
		return bi.Weight > bj.Weight
	})
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return ids
}

// formatWorstChecks renders the explain column, e.g. "title_length (fail), image_alt (warn)".
func formatWorstChecks(breakdown map[string]schema.Breakdown) string {
	ids := worstChecks(breakdown, maxExplainChecks)
	if len(ids) == 0 {
		return "-"
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		status := string(breakdown[id].Status)
		if status == "" {
			status = "unknown"
		}
		parts[i] = fmt.Sprintf("%s (%s)", id, status)
	}
	return strings.Join(parts, ", ")
}

func sortedCheckIDs(breakdown map[string]schema.Breakdown) []string {
	ids := make([]string, 0, len(breakdown))
	for id := range breakdown {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// writeCSVResultsForPages writes one row per check of every page.
func writeCSVResultsForPages(w io.Writer, pages []schema.EnrichedPageResult, nf numberFormat) error {
	return writeCSVWithHeader(w, pageCheckHeader, func(cw *csv.Writer) error {
		for _, p := range pages {
			if err := cw.WriteAll(pageCheckRecords(p, nf)); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeJSONResultsForPages writes the pages with the site summary.
func writeJSONResultsForPages(w io.Writer, pages []schema.EnrichedPageResult, summary schema.SiteSummary) error {
	type JSONPageResult struct {
		Label string `json:"label"`
		schema.EnrichedPageResult
	}
	type JSONOutput struct {
		Pages   []JSONPageResult   `json:"pages"`
		Summary schema.SiteSummary `json:"summary"`
	}

	output := JSONOutput{Pages: make([]JSONPageResult, len(pages)), Summary: summary}
	for i, p := range pages {
		output.Pages[i] = JSONPageResult{
			Label:              contract.GetPlainLabel(p.Aggregate.Status),
			EnrichedPageResult: p,
		}
	}
	return writeJSON(w, output)
}
