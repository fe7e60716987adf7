package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/seoscore/internal/contract"
	"github.com/huangsam/seoscore/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteWeightTable outputs the active weight of every check.
func WriteWeightTable(entries []schema.WeightEntry, cfg *contract.Config) error {
	nf := newNumberFormat(cfg.Precision)

	var write func(io.Writer) error
	switch cfg.Output {
	case schema.JSONOut:
		write = func(w io.Writer) error { return writeJSON(w, entries) }
	case schema.CSVOut:
		write = func(w io.Writer) error { return writeCSVWeights(w, entries, nf) }
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is not supported for weights")
	default:
		write = func(w io.Writer) error { return writeWeightsTable(w, entries, cfg, nf) }
	}
	return writeToOutput(cfg.OutputFile, cfg.Output, write)
}

func writeWeightsTable(w io.Writer, entries []schema.WeightEntry, cfg *contract.Config, nf numberFormat) error {
	header := "Active check weights"
	if cfg.UseEmojis {
		header = "⚖️  " + header
	}
	if _, err := fmt.Fprintf(w, "%s (precedence: %s)\n", header, cfg.WeightPrecedence); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Check", "Label", "Default", "Active", "Share", "Custom"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, e := range entries {
		custom := ""
		if e.Custom {
			custom = "yes"
		}
		data = append(data, []string{
			e.CheckID,
			e.Label,
			nf.decimal(e.Default),
			nf.decimal(e.Active),
			nf.decimal(e.Share) + "%",
			custom,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func writeCSVWeights(w io.Writer, entries []schema.WeightEntry, nf numberFormat) error {
	header := []string{"check_id", "label", "default", "active", "share", "custom"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, e := range entries {
			if err := cw.Write([]string{
				e.CheckID,
				e.Label,
				nf.decimal(e.Default),
				nf.decimal(e.Active),
				nf.decimal(e.Share),
				strconv.FormatBool(e.Custom),
			}); err != nil {
				return err
			}
		}
		return nil
	})
}
