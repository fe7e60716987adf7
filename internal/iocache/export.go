package iocache

import (
	"errors"
	"fmt"

	"github.com/huangsam/seoscore/internal/contract"
	"github.com/huangsam/seoscore/internal/parquet"
)

// ExecuteHistoryExport exports the history store to a pair of Parquet files
// named after outputFile.
func ExecuteHistoryExport(store contract.AnalysisStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("history store is not initialized")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no analysis history found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total analysis runs: %d\n", status.TotalRuns)
	fmt.Printf("Total page records: %d\n", status.TableSizes[pageScoresTable])

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve analysis runs: %w", err)
	}
	scores, err := store.GetAllPageScores()
	if err != nil {
		return fmt.Errorf("failed to retrieve page scores: %w", err)
	}

	runsFile := outputFile + ".analysis_runs.parquet"
	if err := parquet.WriteAnalysisRunsParquet(parquet.ConvertAnalysisRunRecords(runs), runsFile); err != nil {
		return fmt.Errorf("failed to write analysis runs: %w", err)
	}
	fmt.Printf("Exported %d analysis runs to: %s\n", len(runs), runsFile)

	scoresFile := outputFile + ".page_scores.parquet"
	if err := parquet.WritePageScoresParquet(parquet.ConvertPageScoreRecords(scores), scoresFile); err != nil {
		return fmt.Errorf("failed to write page scores: %w", err)
	}
	fmt.Printf("Exported %d page scores to: %s\n", len(scores), scoresFile)

	return nil
}
