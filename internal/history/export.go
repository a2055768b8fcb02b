package history

import (
	"errors"
	"fmt"

	"github.com/huangsam/insight/internal/contract"
	"github.com/huangsam/insight/internal/parquet"
)

// ExecuteHistoryExport exports the runs and risk assessments of store to Parquet files
// named after outputFile.
func ExecuteHistoryExport(store contract.HistoryStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}

	if status.TotalRuns == 0 {
		return errors.New("no history data found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total runs: %d\n", status.TotalRuns)
	fmt.Printf("Total risk assessments: %d\n", status.TotalAssessments)

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}

	assessments, err := store.GetAllAssessments()
	if err != nil {
		return fmt.Errorf("failed to retrieve risk assessments: %w", err)
	}

	parquetRuns := parquet.ConvertAnalysisRunRecords(runs)
	parquetAssessments := parquet.ConvertRiskAssessmentRecords(assessments)

	runsFile := outputFile + ".analysis_runs.parquet"
	if err := parquet.WriteAnalysisRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	fmt.Printf("Exported %d runs to: %s\n", len(parquetRuns), runsFile)

	assessmentsFile := outputFile + ".risk_assessments.parquet"
	if err := parquet.WriteRiskAssessmentsParquet(parquetAssessments, assessmentsFile); err != nil {
		return fmt.Errorf("failed to write risk assessments: %w", err)
	}
	fmt.Printf("Exported %d risk assessments to: %s\n", len(parquetAssessments), assessmentsFile)

	fmt.Println("\nExport complete! The Parquet files can be used with:")
	fmt.Println("  - Apache Spark")
	fmt.Println("  - Apache Arrow")
	fmt.Println("  - Pandas (via pyarrow)")
	fmt.Println("  - DuckDB")
	fmt.Println("  - Any other Parquet-compatible tool")

	return nil
}
