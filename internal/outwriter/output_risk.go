package outwriter

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/huangsam/insight/internal/contract"
	"github.com/huangsam/insight/schema"
)

// WriteRiskAssessment writes an attrition-risk assessment in the configured format.
// Factors are listed in the fixed factor order.
func WriteRiskAssessment(w io.Writer, assessment schema.RiskAssessment, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)
	weights := schema.GetRiskFactorWeights()

	switch outputMode(cfg) {
	case schema.JSONOut:
		type jsonAssessment struct {
			Label string `json:"label"`
			schema.RiskAssessment
		}
		return writeJSON(w, jsonAssessment{Label: contract.GetPlainLabel(float64(assessment.Score)), RiskAssessment: assessment})

	case schema.CSVOut:
		rows := make([][]string, 0, len(schema.AllRiskFactors))
		for _, f := range schema.AllRiskFactors {
			score := assessment.Factors[f]
			rows = append(rows, []string{assessment.EmployeeID, string(f), fmtFloat(weights[f]), strconv.Itoa(score), contract.GetPlainLabel(float64(score))})
		}
		return writeCSVWithHeader(w, []string{"employee_id", "factor", "weight", "score", "label"}, rows)

	default:
		headline := fmt.Sprintf("👤 Employee %s: attrition risk %d (%s)",
			assessment.EmployeeID, assessment.Score, riskLabel(assessment.Score, cfg))
		if err := writeLines(w, headline); err != nil {
			return err
		}
		rows := make([][]string, 0, len(schema.AllRiskFactors))
		for _, f := range schema.AllRiskFactors {
			score := assessment.Factors[f]
			rows = append(rows, []string{string(f), fmtFloat(weights[f]), strconv.Itoa(score), riskLabel(score, cfg)})
		}
		if err := writeTable(w, []string{"Factor", "Weight", "Score", "Label"}, rows); err != nil {
			return err
		}
		return writeBullets(w, "Insights:", assessment.Insights)
	}
}

// WriteRiskTrend writes a monthly risk forecast in the configured format.
func WriteRiskTrend(w io.Writer, employeeID string, prediction schema.RiskTrendPrediction, cfg *contract.Config) error {
	_, fmtPercent := createFormatters(cfg.Precision)

	switch outputMode(cfg) {
	case schema.JSONOut:
		type jsonTrend struct {
			EmployeeID string `json:"employee_id"`
			schema.RiskTrendPrediction
		}
		return writeJSON(w, jsonTrend{EmployeeID: employeeID, RiskTrendPrediction: prediction})

	case schema.CSVOut:
		rows := make([][]string, 0, len(prediction.Predictions))
		for _, p := range prediction.Predictions {
			rows = append(rows, []string{employeeID, p.Month, strconv.Itoa(p.Score), contract.GetPlainLabel(float64(p.Score))})
		}
		return writeCSVWithHeader(w, []string{"employee_id", "month", "score", "label"}, rows)

	default:
		headline := fmt.Sprintf("📈 Employee %s: risk trend %s (confidence %s)",
			employeeID, prediction.Trend, fmtPercent(prediction.Confidence))
		if err := writeLines(w, headline); err != nil {
			return err
		}
		rows := make([][]string, 0, len(prediction.Predictions))
		for _, p := range prediction.Predictions {
			rows = append(rows, []string{p.Month, strconv.Itoa(p.Score), riskLabel(p.Score, cfg)})
		}
		return writeTable(w, []string{"Month", "Score", "Label"}, rows)
	}
}

// WriteRecommendations writes ranked recommendations in the configured format.
// Text output lists each recommendation's actions below the table.
func WriteRecommendations(w io.Writer, recs []schema.Recommendation, cfg *contract.Config) error {
	_, fmtPercent := createFormatters(cfg.Precision)

	switch outputMode(cfg) {
	case schema.JSONOut:
		return writeJSON(w, recs)

	case schema.CSVOut:
		rows := make([][]string, 0, len(recs))
		for i, r := range recs {
			rows = append(rows, []string{
				strconv.Itoa(i + 1), r.ID, r.Title, string(r.Priority), string(r.Impact), string(r.Effort),
				r.Category, fmt.Sprintf("%.2f", r.Confidence), strings.Join(r.Actions, "|"), strings.Join(r.Tags, "|"),
			})
		}
		header := []string{"rank", "id", "title", "priority", "impact", "effort", "category", "confidence", "actions", "tags"}
		return writeCSVWithHeader(w, header, rows)

	default:
		if len(recs) == 0 {
			return writeLines(w, "No recommendations.")
		}
		header, rows := recommendationTable(recs, cfg, fmtPercent)
		if err := writeTable(w, header, rows); err != nil {
			return err
		}
		for i, r := range recs {
			if err := writeBullets(w, fmt.Sprintf("%d. %s: %s", i+1, r.Title, r.Description), r.Actions); err != nil {
				return err
			}
		}
		return nil
	}
}
