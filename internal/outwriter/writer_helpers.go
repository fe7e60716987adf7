package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/huangsam/seoscore/internal/contract"
	"github.com/huangsam/seoscore/internal/parquet"
	"github.com/huangsam/seoscore/schema"
)

// pageCheckHeader is the column layout of the per-check page export.
var pageCheckHeader = []string{
	"rank",
	"source",
	"score",
	"status",
	"check_id",
	"check_label",
	"check_status",
	"weight",
	"contribution",
	"fix_hint",
}

// numberFormat renders scores, weights and averages at the configured precision.
type numberFormat struct {
	precision int
}

func newNumberFormat(precision int) numberFormat {
	return numberFormat{precision: precision}
}

// decimal formats a weight, contribution, share or average.
func (f numberFormat) decimal(v float64) string {
	return strconv.FormatFloat(v, 'f', f.precision, 64)
}

// whole formats a rank or a score.
func (f numberFormat) whole(v int) string {
	return strconv.Itoa(v)
}

// outputLabel names an output mode in user-facing messages.
func outputLabel(mode schema.OutputMode) string {
	switch mode {
	case schema.JSONOut:
		return "JSON"
	case schema.CSVOut:
		return "CSV"
	case schema.ParquetOut:
		return "Parquet"
	default:
		return "table"
	}
}

// writeToOutput runs write against the configured output file, or stdout when it is empty.
// A note goes to stderr once a file has been written.
func writeToOutput(outputFile string, mode schema.OutputMode, write func(io.Writer) error) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	toFile := file != os.Stdout
	if toFile {
		defer func() { _ = file.Close() }()
	}

	label := outputLabel(mode)
	if err := write(file); err != nil {
		return fmt.Errorf("error writing %s output: %w", label, err)
	}
	if toFile {
		fmt.Fprintf(os.Stderr, "💾 Wrote %s to %s\n", label, outputFile)
	}
	return nil
}

// writeJSON encodes data with two-space indentation.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader writes header and then whatever rows writeRows emits.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	return writeRows(csvWriter)
}

// pageCheckRecords flattens a page into one record per check, ordered by check id.
// A page without checks still yields a single record with empty check columns.
// Fix hints are only kept for checks that did not pass.
func pageCheckRecords(p schema.EnrichedPageResult, nf numberFormat) [][]string {
	base := []string{
		nf.whole(p.Rank),
		p.Source,
		nf.whole(p.Aggregate.Score),
		contract.GetPlainLabel(p.Aggregate.Status),
	}
	if len(p.Aggregate.Breakdown) == 0 {
		return [][]string{append(base, "", "", "", "", "", "")}
	}

	records := make([][]string, 0, len(p.Aggregate.Breakdown))
	for _, id := range sortedCheckIDs(p.Aggregate.Breakdown) {
		b := p.Aggregate.Breakdown[id]
		hint := ""
		if b.Multiplier < schema.PassMultiplier {
			hint = p.Checks[id].FixHint
		}
		records = append(records, append(append([]string{}, base...),
			id,
			b.Label,
			string(b.Status),
			nf.decimal(b.Weight),
			nf.decimal(b.Contribution),
			hint,
		))
	}
	return records
}

// writePageParquet writes the per-check page export as Parquet.
func writePageParquet(w io.Writer, pages []schema.EnrichedPageResult) error {
	return parquet.WritePageChecks(w, parquet.ConvertPageResults(pages))
}
