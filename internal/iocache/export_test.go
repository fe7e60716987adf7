package iocache

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/seoscore/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteHistoryExport(t *testing.T) {
	t.Run("requires output file", func(t *testing.T) {
		err := ExecuteHistoryExport(&MockAnalysisStore{}, "")
		assert.ErrorContains(t, err, "--output-file is required")
	})

	t.Run("empty history", func(t *testing.T) {
		store := &MockAnalysisStore{}
		store.On("GetStatus").Return(schema.AnalysisStatus{Backend: "sqlite"}, nil)

		err := ExecuteHistoryExport(store, filepath.Join(t.TempDir(), "out"))
		assert.ErrorContains(t, err, "no analysis history")
		store.AssertExpectations(t)
	})

	t.Run("status error", func(t *testing.T) {
		store := &MockAnalysisStore{}
		store.On("GetStatus").Return(schema.AnalysisStatus{}, errors.New("boom"))

		err := ExecuteHistoryExport(store, "out")
		assert.ErrorContains(t, err, "boom")
	})

	t.Run("writes both files", func(t *testing.T) {
		store := &MockAnalysisStore{}
		store.On("GetStatus").Return(schema.AnalysisStatus{Backend: "sqlite", TotalRuns: 1}, nil)
		store.On("GetAllRuns").Return([]schema.AnalysisRunRecord{
			{AnalysisID: 1, RunUUID: "run-1", StartTime: time.Now(), TotalPagesAnalyzed: 1},
		}, nil)
		store.On("GetAllPageScores").Return([]schema.PageScoreRecord{
			{AnalysisID: 1, Source: "index.html", AnalysisTime: time.Now(), Score: 90, Status: "green", Breakdown: "{}"},
		}, nil)

		base := filepath.Join(t.TempDir(), "history")
		require.NoError(t, ExecuteHistoryExport(store, base))

		for _, suffix := range []string{".analysis_runs.parquet", ".page_scores.parquet"} {
			info, err := os.Stat(base + suffix)
			require.NoError(t, err)
			assert.Greater(t, info.Size(), int64(0))
		}
		store.AssertExpectations(t)
	})
}
