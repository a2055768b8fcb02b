package outwriter

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/insight/internal/contract"
	"github.com/huangsam/insight/schema"
)

// WriteAnalysisResult writes one analysis result in the configured format.
func WriteAnalysisResult(w io.Writer, result schema.AnalysisResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, fmtPercent := createFormatters(cfg.Precision)

	switch outputMode(cfg) {
	case schema.JSONOut:
		return writeJSON(w, result)
	case schema.CSVOut:
		header, rows := analysisTable(result.Data, cfg, fmtFloat, fmtPercent)
		return writeCSVWithHeader(w, header, rows)
	default:
		return writeAnalysisText(w, result, cfg, fmtFloat, fmtPercent, duration)
	}
}

// writeAnalysisText writes the headline, the data table, the insights and a footer.
func writeAnalysisText(w io.Writer, result schema.AnalysisResult, cfg *contract.Config, fmtFloat, fmtPercent func(float64) string, duration time.Duration) error {
	headline := fmt.Sprintf("📊 %s analysis (%d data points, confidence %s)",
		titleCase(string(result.Type)), result.Metadata.DataPoints, fmtPercent(result.Confidence))
	if err := writeLines(w, headline); err != nil {
		return err
	}
	if header, rows := analysisTable(result.Data, cfg, fmtFloat, fmtPercent); len(rows) > 0 {
		if err := writeTable(w, header, rows); err != nil {
			return err
		}
	}
	if err := writeBullets(w, "Insights:", result.Insights); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Analysis completed in %v (algorithm: %s, engine %s)\n",
		duration.Round(time.Millisecond), result.Metadata.Algorithm, result.Metadata.Version)
	return err
}

// analysisTable flattens an analysis payload into a header and rows.
// Unknown or nil payloads produce an empty table.
func analysisTable(data schema.AnalysisData, cfg *contract.Config, fmtFloat, fmtPercent func(float64) string) ([]string, [][]string) {
	switch d := data.(type) {
	case schema.TrendData:
		return []string{"Metric", "Value"}, [][]string{
			{"field", d.Field},
			{"slope", fmtFloat(d.Slope)},
			{"intercept", fmtFloat(d.Intercept)},
			{"r_squared", fmtFloat(d.RSquared)},
			{"direction", string(d.Direction)},
			{"growth_rate", fmt.Sprintf("%s%%", fmtFloat(d.GrowthRate))},
			{"values", joinFloats(d.Values, fmtFloat)},
			{"predicted", joinFloats(d.Predicted, fmtFloat)},
		}

	case schema.AnomalyData:
		rows := make([][]string, 0, len(d.Anomalies))
		for _, a := range d.Anomalies {
			direction := "high"
			if a.Value < d.Mean {
				direction = "low"
			}
			rows = append(rows, []string{strconv.Itoa(a.Index), a.Date, fmtFloat(a.Value), fmtFloat(a.Deviation), direction})
		}
		return []string{"Index", "Date", "Value", "Deviation", "Direction"}, rows

	case schema.CorrelationData:
		return []string{"Metric", "Value"}, [][]string{
			{"x_field", d.XField},
			{"y_field", d.YField},
			{"coefficient", fmtFloat(d.Coefficient)},
			{"strength", d.Strength},
			{"sample_size", strconv.Itoa(d.SampleSize)},
		}

	case schema.PredictionData:
		rows := make([][]string, 0, len(d.Forecast))
		for i, v := range d.Forecast {
			rows = append(rows, []string{fmt.Sprintf("t+%d", i+1), fmtFloat(v)})
		}
		return []string{"Period", "Forecast"}, rows

	case schema.RecommendationData:
		return recommendationTable(d.Recommendations, cfg, fmtPercent)

	case schema.SegmentationData:
		header := append([]string{"Segment", "Count", "Share"}, d.Metrics...)
		rows := make([][]string, 0, len(d.Segments))
		for _, s := range d.Segments {
			row := []string{s.Name, strconv.Itoa(s.Count), fmtPercent(s.Share)}
			for _, m := range d.Metrics {
				row = append(row, fmtFloat(s.Averages[m]))
			}
			rows = append(rows, row)
		}
		return header, rows

	default:
		return nil, nil
	}
}

// recommendationTable lists recommendations in their given order.
func recommendationTable(recs []schema.Recommendation, cfg *contract.Config, fmtPercent func(float64) string) ([]string, [][]string) {
	titleWidth := getMaxTableTextWidth(cfg, 45)
	rows := make([][]string, 0, len(recs))
	for i, r := range recs {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			contract.TruncateText(r.Title, titleWidth),
			string(r.Priority),
			string(r.Impact),
			string(r.Effort),
			r.Category,
			fmtPercent(r.Confidence),
		})
	}
	return []string{"Rank", "Title", "Priority", "Impact", "Effort", "Category", "Confidence"}, rows
}

// titleCase upper-cases the first letter of s.
func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
