package outwriter

import (
	"fmt"
	"io"
	"strings"

	"github.com/huangsam/insight/internal/contract"
	"github.com/huangsam/insight/schema"
)

// WriteQueryResult writes the answer to a natural-language question in the configured format.
func WriteQueryResult(w io.Writer, result schema.QueryResult, cfg *contract.Config) error {
	switch outputMode(cfg) {
	case schema.JSONOut:
		return writeJSON(w, result)
	case schema.CSVOut:
		rows := make([][]string, 0, len(result.Entities))
		for _, e := range result.Entities {
			rows = append(rows, []string{string(result.Intent), string(e.Type), e.Value, fmt.Sprintf("%.2f", e.Confidence)})
		}
		return writeCSVWithHeader(w, []string{"intent", "entity_type", "entity_value", "confidence"}, rows)
	default:
		return writeQueryText(w, result, cfg)
	}
}

func writeQueryText(w io.Writer, result schema.QueryResult, cfg *contract.Config) error {
	if err := writeLines(w, "💬 "+result.Answer, ""); err != nil {
		return err
	}

	entities := make([]string, 0, len(result.Entities))
	for _, e := range result.Entities {
		entities = append(entities, fmt.Sprintf("%s=%s", e.Type, e.Value))
	}
	details := fmt.Sprintf("Intent: %s", result.Intent)
	if len(entities) > 0 {
		details += fmt.Sprintf(" | Entities: %s", strings.Join(entities, ", "))
	}
	if result.VisualizationType != "" {
		details += fmt.Sprintf(" | Suggested chart: %s", result.VisualizationType)
	}
	if err := writeLines(w, details); err != nil {
		return err
	}

	if result.Data != nil {
		fmtFloat, fmtPercent := createFormatters(cfg.Precision)
		if header, rows := analysisTable(result.Data.Data, cfg, fmtFloat, fmtPercent); len(rows) > 0 {
			if err := writeTable(w, header, rows); err != nil {
				return err
			}
		}
	}
	return writeBullets(w, "You could also ask:", result.FollowupQuestions)
}
