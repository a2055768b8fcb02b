package schema

import "time"

// ReportSection is one analysis packaged for presentation.
type ReportSection struct {
	Title             string       `json:"title"`
	Content           string       `json:"content"`
	VisualizationType string       `json:"visualization_type,omitempty"`
	VisualizationData AnalysisData `json:"visualization_data,omitempty"`
	Insights          []string     `json:"insights"`
	Recommendations   []string     `json:"recommendations,omitempty"`
}

// ReportMetadata describes the inputs of a report.
type ReportMetadata struct {
	DataPoints int       `json:"data_points"`
	TimeRange  TimeRange `json:"time_range"`
	Version    string    `json:"version"`
}

// Report is a named multi-section report. Section order is presentation order.
type Report struct {
	Type        ReportType      `json:"type"`
	Title       string          `json:"title"`
	Summary     string          `json:"summary"`
	Sections    []ReportSection `json:"sections"`
	GeneratedAt time.Time       `json:"generated_at"`
	Metadata    ReportMetadata  `json:"metadata"`
}
