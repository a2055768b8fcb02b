package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/huangsam/insight/internal/contract"
	"github.com/huangsam/insight/internal/history"
	"github.com/huangsam/insight/schema"
)

// historyBackendFromConfig reads and validates the history backend settings.
func historyBackendFromConfig() (schema.DatabaseBackend, string, error) {
	if err := loadConfigFile(); err != nil {
		return "", "", err
	}

	backendStr := viper.GetString("history-backend")
	connStr := viper.GetString("history-db-connect")

	// Handle empty backend as NoneBackend
	backend := schema.NoneBackend
	if backendStr != "" {
		backend = schema.DatabaseBackend(backendStr)
	}
	if _, ok := schema.ValidHistoryBackends[backend]; !ok {
		return "", "", fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", backendStr)
	}

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// historySetup loads minimal configuration needed for history operations.
// This is used by commands that need history access without full shared setup.
func historySetup() error {
	backend, connStr, err := historyBackendFromConfig()
	if err != nil {
		return err
	}

	if err := history.InitHistory(backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize history: %w", err)
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// historySetupWrapper wraps historySetup to provide PreRunE for history commands.
func historySetupWrapper(_ *cobra.Command, _ []string) error {
	return historySetup()
}

// historyMigrateSetup loads minimal configuration needed for migrate operations.
// This is a specialized setup that does NOT initialize stores or create tables,
// allowing migrations to run on a fresh database.
func historyMigrateSetup() error {
	backend, connStr, err := historyBackendFromConfig()
	if err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetHistoryDBFilePath()
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	return nil
}

// historyMigrateSetupWrapper wraps historyMigrateSetup to provide PreRunE for migrate command.
func historyMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return historyMigrateSetup()
}

// historyCmd focused on run history management.
//
// Note: History subcommands use minimal initialization (historySetup) instead of
// the full sharedSetup used by analysis commands. This avoids opening the data
// store for simple history operations.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage analysis run history and exports",
	Long: `Manage the history of analysis runs and risk assessments.

When enabled with --history-backend, Insight records:
- Every analysis, report, question and risk run (kind, subject, parameters, duration)
- Data points read and result confidence
- Every risk assessment with its factor breakdown

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled, default)

Subcommands:
  status  - Show history statistics
  export  - Export data to Parquet for analytics
  clear   - Remove all history data
  migrate - Run database schema migrations

Examples:
  # Check tracking status
  insight history status --history-backend sqlite

  # Export for analysis in pandas/DuckDB
  insight history export --history-backend sqlite --output-file insight`,
}

// historyClearCmd clears the run history.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all run history and risk assessments",
	Long: `Delete all stored runs and risk assessments.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  # Export before clearing
  insight history export --output-file backup
  insight history clear`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		// The open handle would keep the SQLite file busy
		history.CloseHistory()
		dbFilePath := cfg.HistoryDBConnect
		if dbFilePath == "" {
			dbFilePath = contract.GetHistoryDBFilePath()
		}
		if err := history.ClearHistory(cfg.HistoryBackend, dbFilePath, cfg.HistoryDBConnect); err != nil {
			contract.LogFatal("Failed to clear history", err)
		}
		fmt.Println("History cleared successfully.")
	},
}

// historyStatusCmd shows history status.
var historyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display history statistics and connection details",
	Long: `Show detailed information about run history tracking.

Displays:
- Backend type and connection status
- Total number of runs stored
- Last and oldest run timestamps
- Total risk assessments recorded
- Database table sizes

Examples:
  insight history status --history-backend sqlite`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := history.Manager.GetHistoryStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get history status", err)
		}
		history.PrintHistoryStatus(status)
	},
}

// historyExportCmd exports history data to Parquet files.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export run history to Parquet for BI tools and analytics",
	Long: `Export all stored history to Parquet format for use with analytics tools.

Exports two datasets next to --output-file:
- <output-file>.analysis_runs.parquet    - one row per run
- <output-file>.risk_assessments.parquet - one row per risk assessment

Requires: --output-file parameter

Examples:
  # Export all data
  insight history export --output-file insight

  # Use with DuckDB for analysis
  duckdb -c "SELECT run_kind, count(*) FROM read_parquet('insight.analysis_runs.parquet') GROUP BY 1"`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := history.ExecuteHistoryExport(history.Manager.GetHistoryStore(), cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export history", err)
		}
	},
}

// historyMigrateCmd runs database migrations for the history store.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the history store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  insight history migrate --history-backend postgresql --history-db-connect "host=localhost dbname=insight"

  # Migrate to specific version
  insight history migrate --target-version 1

  # Rollback to initial state
  insight history migrate --target-version 0`,
	PreRunE: historyMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := history.MigrateHistory(cfg.HistoryBackend, cfg.HistoryDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
