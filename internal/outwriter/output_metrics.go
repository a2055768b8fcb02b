package outwriter

import (
	"fmt"
	"io"
	"strings"

	"github.com/huangsam/insight/internal/contract"
	"github.com/huangsam/insight/schema"
)

// riskBands lists the score bands from highest to lowest.
var riskBands = []struct {
	label string
	rule  string
}{
	{contract.CriticalValue, "score >= 70"},
	{contract.HighValue, "50 <= score < 70"},
	{contract.ModerateValue, "30 <= score < 50"},
	{contract.LowValue, "score < 30"},
}

// WriteMetricsDefinitions writes the formal definition of the attrition-risk score.
// This is a static display that does not read any data.
func WriteMetricsDefinitions(w io.Writer, cfg *contract.Config) error {
	renderModel := buildMetricsRenderModel()

	switch outputMode(cfg) {
	case schema.JSONOut:
		return writeJSON(w, renderModel)
	case schema.CSVOut:
		rows := make([][]string, 0, len(renderModel.Factors))
		for _, f := range renderModel.Factors {
			rows = append(rows, []string{f.Key, fmt.Sprintf("%.2f", f.Weight), f.Basis})
		}
		return writeCSVWithHeader(w, []string{"factor", "weight", "basis"}, rows)
	default:
		return writeMetricsText(w, renderModel)
	}
}

func writeMetricsText(w io.Writer, renderModel *schema.MetricsRenderModel) error {
	if err := writeLines(w,
		"🧮 "+renderModel.Title,
		strings.Repeat("=", len(renderModel.Title)+3),
		"",
		renderModel.Description,
		"",
	); err != nil {
		return err
	}

	rows := make([][]string, 0, len(renderModel.Factors))
	for _, f := range renderModel.Factors {
		rows = append(rows, []string{f.Key, fmt.Sprintf("%.2f", f.Weight), f.Basis})
	}
	if err := writeTable(w, []string{"Factor", "Weight", "Basis"}, rows); err != nil {
		return err
	}

	if err := writeLines(w, "", "Formula: Score = "+renderModel.Formula, "", "Bands:"); err != nil {
		return err
	}
	for _, band := range riskBands {
		if _, err := fmt.Fprintf(w, "  %-9s %s\n", band.label, band.rule); err != nil {
			return err
		}
	}
	return nil
}

// buildMetricsRenderModel constructs the complete render model in the fixed factor order.
func buildMetricsRenderModel() *schema.MetricsRenderModel {
	weights := schema.GetRiskFactorWeights()

	factors := make([]schema.FactorDefinition, 0, len(schema.AllRiskFactors))
	parts := make([]string, 0, len(schema.AllRiskFactors))
	for _, f := range schema.AllRiskFactors {
		factors = append(factors, schema.FactorDefinition{
			Key:    string(f),
			Weight: weights[f],
			Basis:  schema.GetRiskFactorBasis(f),
		})
		parts = append(parts, fmt.Sprintf("%.2f*%s", weights[f], f))
	}

	bands := make(map[string]string, len(riskBands))
	for _, band := range riskBands {
		bands[strings.ToLower(band.label)] = band.rule
	}

	return &schema.MetricsRenderModel{
		Title:       "Attrition Risk Model",
		Description: "Risk score = weighted sum of factor scores, each 0-100 with 50 as neutral",
		Factors:     factors,
		Formula:     strings.Join(parts, "+"),
		Bands:       bands,
	}
}
