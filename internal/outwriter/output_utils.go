package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/term"

	"github.com/huangsam/insight/internal/contract"
)

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader handles the common pattern of creating a CSV writer,
// writing a header, and writing data rows.
func writeCSVWithHeader(w io.Writer, header []string, rows [][]string) error {
	csvWriter := csv.NewWriter(w)

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := csvWriter.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write CSV rows: %w", err)
	}
	return nil
}

// writeTable renders a right-aligned table with the first column left-aligned.
func writeTable(w io.Writer, header []string, rows [][]string) error {
	table := tablewriter.NewWriter(w)
	table.Header(header)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
		cfg.Row.Alignment.PerColumn = []tw.Align{tw.AlignLeft}
	})
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

// writeLines writes each line followed by a newline, stopping at the first error.
func writeLines(w io.Writer, lines ...string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// writeBullets writes a titled bullet list. Empty lists write nothing.
func writeBullets(w io.Writer, title string, items []string) error {
	if len(items) == 0 {
		return nil
	}
	lines := make([]string, 0, len(items)+1)
	lines = append(lines, title)
	for _, item := range items {
		lines = append(lines, "  - "+item)
	}
	return writeLines(w, lines...)
}

// createFormatters creates the common formatter closures used across multiple output types.
func createFormatters(precision int) (fmtFloat func(float64) string, fmtPercent func(float64) string) {
	fmtFloat = func(v float64) string {
		return fmt.Sprintf("%.*f", precision, v)
	}
	fmtPercent = func(v float64) string {
		return fmt.Sprintf("%.*f%%", precision, v*100)
	}
	return fmtFloat, fmtPercent
}

// riskLabel returns the risk label for a 0-100 score, colored when enabled.
func riskLabel(score int, cfg *contract.Config) string {
	if cfg.UseColors {
		return contract.GetColorLabel(float64(score))
	}
	return contract.GetPlainLabel(float64(score))
}

// joinFloats formats a series of values.
func joinFloats(values []float64, fmtFloat func(float64) string) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmtFloat(v)
	}
	return strings.Join(parts, ", ")
}

// getMaxTableTextWidth calculates the maximum width for free-text columns in table output
// based on terminal width and the width taken by the other columns.
func getMaxTableTextWidth(cfg *contract.Config, fixedColumnsWidth int) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default if terminal size can't be detected
			termWidth = 80
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve generous space for table borders, separators, and padding
	available := termWidth - fixedColumnsWidth - 20
	if available < 15 {
		return 15
	}
	if available > 70 {
		return 70
	}
	return available
}
