package schema

import (
	"strings"
	"time"
)

// Params holds the loosely-typed parameters of an analysis request.
// Accessors coerce the JSON-ish values that arrive from flags, MCP and HTTP.
type Params map[string]any

// GetString returns a string parameter or the default.
func (p Params) GetString(key, def string) string {
	v, ok := p[key]
	if !ok || v == nil {
		return def
	}
	if s := ToString(v); s != "" {
		return s
	}
	return def
}

// GetFloat returns a numeric parameter or the default.
func (p Params) GetFloat(key string, def float64) float64 {
	if f, ok := ToFloat(p[key]); ok {
		return f
	}
	return def
}

// GetInt returns an integer parameter or the default.
func (p Params) GetInt(key string, def int) int {
	if f, ok := ToFloat(p[key]); ok {
		return int(f)
	}
	return def
}

// GetBool returns a boolean parameter or the default.
func (p Params) GetBool(key string, def bool) bool {
	switch b := p[key].(type) {
	case bool:
		return b
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "yes", "true", "1":
			return true
		case "no", "false", "0":
			return false
		}
	}
	return def
}

// GetStrings returns a list parameter. Comma-separated strings are split.
func (p Params) GetStrings(key string) []string {
	switch v := p[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s := ToString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		var out []string
		for part := range strings.SplitSeq(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out
	}
	return nil
}

// Clone returns a shallow copy of the parameters.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// TimeRange bounds the rows considered by an analysis.
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// AnalysisRequest asks the engine for one analysis.
type AnalysisRequest struct {
	Type       AnalysisType `json:"type"`
	DataSource string       `json:"data_source"`
	Parameters Params       `json:"parameters,omitempty"`
	TimeRange  *TimeRange   `json:"time_range,omitempty"`
	Filters    []Filter     `json:"filters,omitempty"`
	Limit      int          `json:"limit,omitempty"`
}

// ResultMetadata describes how a result was produced.
type ResultMetadata struct {
	DataPoints    int           `json:"data_points"`
	Algorithm     string        `json:"algorithm"`
	ExecutionTime time.Duration `json:"execution_time"`
	Version       string        `json:"version"`
}

// AnalysisResult is produced once per analysis call.
type AnalysisResult struct {
	Type       AnalysisType   `json:"type"`
	Timestamp  time.Time      `json:"timestamp"`
	Data       AnalysisData   `json:"data"`
	Insights   []string       `json:"insights"`
	Confidence float64        `json:"confidence"`
	Metadata   ResultMetadata `json:"metadata"`
}

// AnalysisData is the typed payload of an AnalysisResult.
// Each analysis type has exactly one concrete implementation.
type AnalysisData interface {
	Kind() AnalysisType
}

// TrendData is the payload of a trend analysis.
type TrendData struct {
	Field      string         `json:"field"`
	Slope      float64        `json:"slope"`
	Intercept  float64        `json:"intercept"`
	RSquared   float64        `json:"r_squared"`
	Direction  TrendDirection `json:"direction"`
	GrowthRate float64        `json:"growth_rate"` // percent of the last observed value per period
	Values     []float64      `json:"values"`
	Predicted  []float64      `json:"predicted"`
}

// AnomalyPoint is a single flagged row.
type AnomalyPoint struct {
	Index     int     `json:"index"`
	Value     float64 `json:"value"`
	Deviation float64 `json:"deviation"`
	Date      string  `json:"date,omitempty"`
}

// AnomalyData is the payload of an anomaly analysis.
type AnomalyData struct {
	Field       string         `json:"field"`
	Mean        float64        `json:"mean"`
	StdDev      float64        `json:"std_dev"`
	Threshold   float64        `json:"threshold"`
	Anomalies   []AnomalyPoint `json:"anomalies"`
	AnomalyRate float64        `json:"anomaly_rate"`
	HighCount   int            `json:"high_count"`
	LowCount    int            `json:"low_count"`
}

// CorrelationData is the payload of a correlation analysis.
type CorrelationData struct {
	XField      string  `json:"x_field"`
	YField      string  `json:"y_field"`
	Coefficient float64 `json:"coefficient"`
	Strength    string  `json:"strength"`
	SampleSize  int     `json:"sample_size"`
}

// PredictionData is the payload of a prediction analysis.
type PredictionData struct {
	Field         string    `json:"field"`
	Window        int       `json:"window"`
	Periods       int       `json:"periods"`
	History       []float64 `json:"history"`
	MovingAverage []float64 `json:"moving_average"`
	Forecast      []float64 `json:"forecast"`
	Slope         float64   `json:"slope"`
	Intercept     float64   `json:"intercept"`
	MAPE          float64   `json:"mape"`
	Accuracy      float64   `json:"accuracy"`
}

// RecommendationData is the payload of a scenario recommendation analysis.
type RecommendationData struct {
	Scenario        string           `json:"scenario"`
	Recommendations []Recommendation `json:"recommendations"`
}

// Segment is one group of a segmentation analysis.
type Segment struct {
	Name     string             `json:"name"`
	Count    int                `json:"count"`
	Share    float64            `json:"share"`
	Averages map[string]float64 `json:"averages"`
}

// SegmentationData is the payload of a segmentation analysis.
type SegmentationData struct {
	SegmentBy string    `json:"segment_by"`
	Metrics   []string  `json:"metrics"`
	Segments  []Segment `json:"segments"`
	Best      string    `json:"best,omitempty"`
	Worst     string    `json:"worst,omitempty"`
}

// Kind implements AnalysisData.
func (TrendData) Kind() AnalysisType { return TrendAnalysis }

// Kind implements AnalysisData.
func (AnomalyData) Kind() AnalysisType { return AnomalyAnalysis }

// Kind implements AnalysisData.
func (CorrelationData) Kind() AnalysisType { return CorrelationAnalysis }

// Kind implements AnalysisData.
func (PredictionData) Kind() AnalysisType { return PredictionAnalysis }

// Kind implements AnalysisData.
func (RecommendationData) Kind() AnalysisType { return RecommendationAnalysis }

// Kind implements AnalysisData.
func (SegmentationData) Kind() AnalysisType { return SegmentationAnalysis }
