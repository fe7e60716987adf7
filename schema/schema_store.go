package schema

import "time"

// AnalysisRunRecord represents a row from the seoscore_analysis_runs table.
type AnalysisRunRecord struct {
	AnalysisID         int64
	RunUUID            string
	StartTime          time.Time
	EndTime            *time.Time
	RunDurationMs      *int32
	TotalPagesAnalyzed int32
	ConfigParams       *string
}

// PageScoreRecord represents a row from the seoscore_page_scores table.
type PageScoreRecord struct {
	AnalysisID   int64
	Source       string
	AnalysisTime time.Time
	Score        int32
	Status       string
	WeightTotal  float64
	PassCount    int32
	WarnCount    int32
	FailCount    int32
	Breakdown    string // JSON-encoded map of check id to Breakdown
}
