package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/huangsam/seoscore/internal/contract"
	"github.com/huangsam/seoscore/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WritePolicyResult outputs the result of a score gate.
func WritePolicyResult(result schema.PolicyResult, cfg *contract.Config, duration time.Duration) error {
	nf := newNumberFormat(cfg.Precision)

	var write func(io.Writer) error
	switch cfg.Output {
	case schema.JSONOut:
		write = func(w io.Writer) error { return writeJSON(w, result) }
	case schema.CSVOut:
		write = func(w io.Writer) error { return writeCSVPolicy(w, result, nf) }
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is not supported for checks")
	default:
		write = func(w io.Writer) error { return writePolicyText(w, result, cfg, nf, duration) }
	}
	return writeToOutput(cfg.OutputFile, cfg.Output, write)
}

func writePolicyText(w io.Writer, result schema.PolicyResult, cfg *contract.Config, nf numberFormat, duration time.Duration) error {
	if len(result.Failures) > 0 {
		table := tablewriter.NewWriter(w)
		table.Header([]string{"Source", "Score", "Status", "Reason"})
		table.Configure(func(cfg *tablewriter.Config) {
			cfg.Row.Alignment.Global = tw.AlignLeft
		})
		width := getMaxTableSourceWidth(cfg)
		var data [][]string
		for _, f := range result.Failures {
			data = append(data, []string{
				contract.TruncatePath(f.Source, width),
				nf.whole(f.Score),
				scoreLabel(f.Status, cfg),
				f.Reason,
			})
		}
		if err := table.Bulk(data); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return err
		}
	}

	verdict := "PASSED"
	if !result.Passed {
		verdict = "FAILED"
	}
	if cfg.UseEmojis {
		if result.Passed {
			verdict = "✅ " + verdict
		} else {
			verdict = "❌ " + verdict
		}
	}
	if _, err := fmt.Fprintf(w, "%s: %d of %d pages below gate (min score: %d, fail on: %s)\n",
		verdict, len(result.Failures), result.TotalPages, result.MinScore, result.FailOn); err != nil {
		return err
	}
	if result.TotalPages > 0 {
		if _, err := fmt.Fprintf(w, "Lowest: %s (%d), average: %s\n", result.MinPage, result.LowScore, nf.decimal(result.AvgScore)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Check completed in %v with %d workers\n", duration, cfg.Workers)
	return err
}

func writeCSVPolicy(w io.Writer, result schema.PolicyResult, nf numberFormat) error {
	header := []string{"source", "score", "status", "reason"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, f := range result.Failures {
			if err := cw.Write([]string{
				f.Source,
				nf.whole(f.Score),
				contract.GetPlainLabel(f.Status),
				f.Reason,
			}); err != nil {
				return err
			}
		}
		return nil
	})
}
