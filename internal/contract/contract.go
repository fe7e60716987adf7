// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"time"

	"github.com/huangsam/seoscore/schema"
)

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetPageStore() CacheStore
	GetHistoryStore() AnalysisStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// AnalysisStore defines the interface for tracking analysis runs and storing page scores.
type AnalysisStore interface {
	// BeginRun creates a new analysis run and returns its unique ID
	BeginRun(startTime time.Time, configParams map[string]any) (int64, error)

	// EndRun updates the analysis run with completion data
	EndRun(analysisID int64, endTime time.Time, totalPages int) error

	// RecordPageScore stores the aggregate score of a page
	RecordPageScore(analysisID int64, page schema.PageResult) error

	// GetStatus returns status information about the analysis store
	GetStatus() (schema.AnalysisStatus, error)

	// GetAllRuns returns every recorded analysis run
	GetAllRuns() ([]schema.AnalysisRunRecord, error)

	// GetAllPageScores returns every recorded page score
	GetAllPageScores() ([]schema.PageScoreRecord, error)

	// Close closes the underlying connection
	Close() error
}
