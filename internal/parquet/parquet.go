// Package parquet exports seoscore results and history to Parquet files
// using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/huangsam/seoscore/schema"
	"github.com/parquet-go/parquet-go"
)

// AnalysisRun maps to the seoscore_analysis_runs table.
type AnalysisRun struct {
	AnalysisID         int64      `parquet:"analysis_id,snappy"`
	RunUUID            string     `parquet:"run_uuid,snappy"`
	StartTime          time.Time  `parquet:"start_time,snappy"`
	EndTime            *time.Time `parquet:"end_time,optional,snappy"`
	RunDurationMs      *int32     `parquet:"run_duration_ms,optional,snappy"`
	TotalPagesAnalyzed int32      `parquet:"total_pages_analyzed,snappy"`
	ConfigParams       *string    `parquet:"config_params,optional,snappy"` // JSON
}

// PageScore maps to the seoscore_page_scores table.
type PageScore struct {
	AnalysisID   int64     `parquet:"analysis_id,snappy"`
	Source       string    `parquet:"source,snappy,dict"`
	AnalysisTime time.Time `parquet:"analysis_time,snappy"`
	Score        int32     `parquet:"score,snappy"`
	Status       string    `parquet:"status,snappy,dict"`
	WeightTotal  float64   `parquet:"weight_total,snappy"`
	PassCount    int32     `parquet:"pass_count,snappy"`
	WarnCount    int32     `parquet:"warn_count,snappy"`
	FailCount    int32     `parquet:"fail_count,snappy"`
	Breakdown    string    `parquet:"breakdown,snappy"` // JSON
}

// PageCheck is one check of one scored page, flattened for columnar output.
type PageCheck struct {
	Rank         int32   `parquet:"rank,snappy"`
	Source       string  `parquet:"source,snappy,dict"`
	Score        int32   `parquet:"score,snappy"`
	ScoreStatus  string  `parquet:"score_status,snappy,dict"`
	CheckID      string  `parquet:"check_id,snappy,dict"`
	CheckLabel   string  `parquet:"check_label,snappy,dict"`
	CheckStatus  string  `parquet:"check_status,snappy,dict"`
	Weight       float64 `parquet:"weight,snappy"`
	Multiplier   float64 `parquet:"multiplier,snappy"`
	Contribution float64 `parquet:"contribution,snappy"`
	FixHint      *string `parquet:"fix_hint,optional,snappy"`
}

// WriteAnalysisRunsParquet writes analysis runs to a Parquet file.
func WriteAnalysisRunsParquet(data []AnalysisRun, outputPath string) error {
	return writeFile(data, outputPath)
}

// WritePageScoresParquet writes page scores to a Parquet file.
func WritePageScoresParquet(data []PageScore, outputPath string) error {
	return writeFile(data, outputPath)
}

// WritePageChecks writes flattened page checks to w.
func WritePageChecks(w io.Writer, data []PageCheck) error {
	return write(w, data)
}

func writeFile[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()
	return write(file, data)
}

// write encodes data with a schema inferred from the struct tags of T.
func write[T any](w io.Writer, data []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// ConvertAnalysisRunRecords converts store records for Parquet export.
func ConvertAnalysisRunRecords(records []schema.AnalysisRunRecord) []AnalysisRun {
	result := make([]AnalysisRun, len(records))
	for i, record := range records {
		result[i] = AnalysisRun{
			AnalysisID:         record.AnalysisID,
			RunUUID:            record.RunUUID,
			StartTime:          record.StartTime,
			EndTime:            record.EndTime,
			RunDurationMs:      record.RunDurationMs,
			TotalPagesAnalyzed: record.TotalPagesAnalyzed,
			ConfigParams:       record.ConfigParams,
		}
	}
	return result
}

// ConvertPageScoreRecords converts store records for Parquet export.
func ConvertPageScoreRecords(records []schema.PageScoreRecord) []PageScore {
	result := make([]PageScore, len(records))
	for i, record := range records {
		result[i] = PageScore(record)
	}
	return result
}

// ConvertPageResults flattens ranked pages into one row per check.
// Checks of a page are emitted in id order.
func ConvertPageResults(pages []schema.EnrichedPageResult) []PageCheck {
	var result []PageCheck
	for _, p := range pages {
		ids := make([]string, 0, len(p.Aggregate.Breakdown))
		for id := range p.Aggregate.Breakdown {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		for _, id := range ids {
			b := p.Aggregate.Breakdown[id]
			row := PageCheck{
				Rank:         int32(p.Rank),
				Source:       p.Source,
				Score:        int32(p.Aggregate.Score),
				ScoreStatus:  string(p.Aggregate.Status),
				CheckID:      id,
				CheckLabel:   b.Label,
				CheckStatus:  string(b.Status),
				Weight:       b.Weight,
				Multiplier:   b.Multiplier,
				Contribution: b.Contribution,
			}
			if hint := p.Checks[id].FixHint; hint != "" && b.Multiplier < schema.PassMultiplier {
				row.FixHint = &hint
			}
			result = append(result, row)
		}
	}
	return result
}
