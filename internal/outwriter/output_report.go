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

// WriteReport writes a report in the configured format.
// CSV output has one row per section insight or recommendation.
func WriteReport(w io.Writer, report schema.Report, cfg *contract.Config, duration time.Duration) error {
	switch outputMode(cfg) {
	case schema.JSONOut:
		return writeJSON(w, report)
	case schema.CSVOut:
		var rows [][]string
		for i, section := range report.Sections {
			for _, insight := range section.Insights {
				rows = append(rows, []string{strconv.Itoa(i + 1), section.Title, "insight", insight})
			}
			for _, rec := range section.Recommendations {
				rows = append(rows, []string{strconv.Itoa(i + 1), section.Title, "recommendation", rec})
			}
		}
		return writeCSVWithHeader(w, []string{"section", "title", "kind", "text"}, rows)
	default:
		return writeReportText(w, report, cfg, duration)
	}
}

func writeReportText(w io.Writer, report schema.Report, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, fmtPercent := createFormatters(cfg.Precision)

	tr := report.Metadata.TimeRange
	if err := writeLines(w,
		"📑 "+report.Title,
		strings.Repeat("=", len([]rune(report.Title))+3),
		fmt.Sprintf("Period: %s to %s", tr.Start.Format(time.DateOnly), tr.End.Format(time.DateOnly)),
		report.Summary,
		"",
	); err != nil {
		return err
	}

	for i, section := range report.Sections {
		if err := writeLines(w, fmt.Sprintf("%d. %s", i+1, section.Title), "   "+section.Content); err != nil {
			return err
		}
		if header, rows := analysisTable(section.VisualizationData, cfg, fmtFloat, fmtPercent); len(rows) > 0 {
			if err := writeTable(w, header, rows); err != nil {
				return err
			}
		}
		if err := writeBullets(w, "Insights:", section.Insights); err != nil {
			return err
		}
		if err := writeBullets(w, "Recommendations:", section.Recommendations); err != nil {
			return err
		}
		if err := writeLines(w, ""); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "Report generated from %d data points in %v (engine %s)\n",
		report.Metadata.DataPoints, duration.Round(time.Millisecond), report.Metadata.Version)
	return err
}
