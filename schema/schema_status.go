package schema

import "time"

// HistoryStatus represents the status of the run history store.
type HistoryStatus struct {
	Backend          string           `json:"backend"`
	Connected        bool             `json:"connected"`
	TotalRuns        int              `json:"total_runs"`
	LastRunID        int64            `json:"last_run_id"`
	LastRunTime      time.Time        `json:"last_run_time"`
	OldestRunTime    time.Time        `json:"oldest_run_time"`
	TotalAssessments int              `json:"total_assessments"`
	TableSizes       map[string]int64 `json:"table_sizes"`
}

// RunKind labels what produced a history run.
type RunKind string

// All run kinds tracked in history.
const (
	AnalysisRun RunKind = "analysis"
	ReportRun   RunKind = "report"
	QueryRun    RunKind = "query"
	RiskRun     RunKind = "risk"
)

// AnalysisRunRecord represents a row from the insight_analysis_runs table.
type AnalysisRunRecord struct {
	RunID         int64
	Kind          RunKind
	Subject       string // analysis type, report type, intent or employee id
	DataSource    string
	StartTime     time.Time
	EndTime       *time.Time
	RunDurationMs int64
	DataPoints    int
	Confidence    float64
	Params        string // JSON-encoded parameters
}

// RiskAssessmentRecord represents a row from the insight_risk_assessments table.
type RiskAssessmentRecord struct {
	RunID      int64
	EmployeeID string
	AssessedAt time.Time
	Score      int
	Label      string
	Factors    string // JSON-encoded factor scores
}
