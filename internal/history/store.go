package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql" // mysql driver
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	_ "modernc.org/sqlite"             // sqlite driver

	"github.com/huangsam/insight/internal/contract"
	"github.com/huangsam/insight/schema"
)

// Table names for run history.
const (
	analysisRunsTable    = "insight_analysis_runs"
	riskAssessmentsTable = "insight_risk_assessments"
)

// Store implements contract.HistoryStore on a SQL database.
type Store struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.HistoryStore = &Store{} // Compile-time check

// NewStore creates a history store with the specified backend.
// The none backend yields a store that records nothing.
func NewStore(backend schema.DatabaseBackend, connStr string) (*Store, error) {
	var db *sql.DB
	var err error

	switch backend {
	case schema.SQLiteBackend:
		dbPath := connStr
		if dbPath == "" {
			dbPath = contract.GetHistoryDBFilePath()
		}
		db, err = sql.Open("sqlite", dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		db, err = sql.Open("mysql", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open MySQL database: %w. Check connection string format: user:password@tcp(host:port)/dbname", err)
		}

	case schema.PostgreSQLBackend:
		db, err = sql.Open("pgx", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open PostgreSQL database: %w. Check connection string format: host=... dbname=...", err)
		}

	case schema.NoneBackend:
		return &Store{backend: backend}, nil

	default:
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w. Verify the database server is running and accessible", backend, err)
	}

	if err := createHistoryTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history tables: %w", err)
	}

	return &Store{db: db, backend: backend}, nil
}

// createHistoryTables creates the run history tables.
func createHistoryTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{analysisRunsTable, getCreateAnalysisRunsQuery(backend)},
		{riskAssessmentsTable, getCreateRiskAssessmentsQuery(backend)},
	}
	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}
	return nil
}

// getCreateAnalysisRunsQuery returns the CREATE TABLE query for insight_analysis_runs.
func getCreateAnalysisRunsQuery(backend schema.DatabaseBackend) string {
	quoted := quoteTableName(analysisRunsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				run_kind VARCHAR(32) NOT NULL,
				subject VARCHAR(255) NOT NULL,
				data_source VARCHAR(255),
				start_time DATETIME(6) NOT NULL,
				end_time DATETIME(6),
				run_duration_ms BIGINT,
				data_points INT,
				confidence DOUBLE,
				params TEXT
			);
		`, quoted)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGSERIAL PRIMARY KEY,
				run_kind TEXT NOT NULL,
				subject TEXT NOT NULL,
				data_source TEXT,
				start_time TIMESTAMPTZ NOT NULL,
				end_time TIMESTAMPTZ,
				run_duration_ms BIGINT,
				data_points INT,
				confidence DOUBLE PRECISION,
				params TEXT
			);
		`, quoted)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER PRIMARY KEY AUTOINCREMENT,
				run_kind TEXT NOT NULL,
				subject TEXT NOT NULL,
				data_source TEXT,
				start_time TEXT NOT NULL,
				end_time TEXT,
				run_duration_ms INTEGER,
				data_points INTEGER,
				confidence REAL,
				params TEXT
			);
		`, quoted)
	}
}

// getCreateRiskAssessmentsQuery returns the CREATE TABLE query for insight_risk_assessments.
func getCreateRiskAssessmentsQuery(backend schema.DatabaseBackend) string {
	quoted := quoteTableName(riskAssessmentsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				employee_id VARCHAR(128) NOT NULL,
				assessed_at DATETIME(6) NOT NULL,
				score INT NOT NULL,
				score_label VARCHAR(50) NOT NULL,
				factors TEXT NOT NULL,
				PRIMARY KEY (run_id, employee_id)
			);
		`, quoted)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				employee_id TEXT NOT NULL,
				assessed_at TIMESTAMPTZ NOT NULL,
				score INT NOT NULL,
				score_label TEXT NOT NULL,
				factors TEXT NOT NULL,
				PRIMARY KEY (run_id, employee_id)
			);
		`, quoted)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER NOT NULL,
				employee_id TEXT NOT NULL,
				assessed_at TEXT NOT NULL,
				score INTEGER NOT NULL,
				score_label TEXT NOT NULL,
				factors TEXT NOT NULL,
				PRIMARY KEY (run_id, employee_id)
			);
		`, quoted)
	}
}

// disabled reports whether the store records nothing.
func (s *Store) disabled() bool {
	return s.backend == schema.NoneBackend || s.db == nil
}

// BeginRun creates a new run and returns its unique ID.
func (s *Store) BeginRun(kind schema.RunKind, subject, dataSource string, startTime time.Time, params map[string]any) (int64, error) {
	if s.disabled() {
		return 0, nil
	}

	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal run params: %w", err)
	}

	quoted := quoteTableName(analysisRunsTable, s.backend)
	var runID int64
	switch s.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (run_kind, subject, data_source, start_time, params) VALUES ($1, $2, $3, $4, $5) RETURNING run_id`, quoted)
		err = s.db.QueryRow(query, string(kind), subject, dataSource, startTime, string(paramsJSON)).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (run_kind, subject, data_source, start_time, params) VALUES (?, ?, ?, ?, ?)`, quoted)
		var result sql.Result
		result, err = s.db.Exec(query, string(kind), subject, dataSource, formatTime(startTime, s.backend), string(paramsJSON))
		if err != nil {
			return 0, fmt.Errorf("failed to insert run: %w", err)
		}
		runID, err = result.LastInsertId()
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	return runID, nil
}

// EndRun updates the run with completion data.
func (s *Store) EndRun(runID int64, endTime time.Time, dataPoints int, confidence float64) error {
	if s.disabled() {
		return nil
	}

	quoted := quoteTableName(analysisRunsTable, s.backend)
	row := s.db.QueryRow(fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = %s`, quoted, s.placeholder(1)), runID)
	startTime, err := s.scanTime(row)
	if err != nil {
		return fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
	}
	durationMs := endTime.Sub(startTime).Milliseconds()

	query := fmt.Sprintf(`UPDATE %s SET end_time = %s, run_duration_ms = %s, data_points = %s, confidence = %s WHERE run_id = %s`,
		quoted, s.placeholder(1), s.placeholder(2), s.placeholder(3), s.placeholder(4), s.placeholder(5))
	if _, err := s.db.Exec(query, formatTime(endTime, s.backend), durationMs, dataPoints, confidence, runID); err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	return nil
}

// RecordRiskAssessment stores a computed risk assessment for a run.
func (s *Store) RecordRiskAssessment(runID int64, assessment schema.RiskAssessment, assessedAt time.Time) error {
	if s.disabled() {
		return nil
	}

	factorsJSON, err := json.Marshal(assessment.Factors)
	if err != nil {
		return fmt.Errorf("failed to marshal risk factors: %w", err)
	}

	quoted := quoteTableName(riskAssessmentsTable, s.backend)
	query := fmt.Sprintf(`INSERT INTO %s (run_id, employee_id, assessed_at, score, score_label, factors) VALUES (%s, %s, %s, %s, %s, %s)`,
		quoted, s.placeholder(1), s.placeholder(2), s.placeholder(3), s.placeholder(4), s.placeholder(5), s.placeholder(6))
	_, err = s.db.Exec(query, runID, assessment.EmployeeID, formatTime(assessedAt, s.backend),
		assessment.Score, contract.GetPlainLabel(float64(assessment.Score)), string(factorsJSON))
	if err != nil {
		return fmt.Errorf("failed to insert risk assessment: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// GetStatus returns status information about the history store.
func (s *Store) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:    string(s.backend),
		Connected:  s.db != nil,
		TableSizes: make(map[string]int64),
	}
	if s.disabled() {
		return status, nil
	}

	runsTable := quoteTableName(analysisRunsTable, s.backend)
	if err := s.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", runsTable)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		row := s.db.QueryRow(fmt.Sprintf("SELECT run_id FROM %s ORDER BY run_id DESC LIMIT 1", runsTable))
		if err := row.Scan(&status.LastRunID); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		lastRunTime, err := s.scanTime(s.db.QueryRow(fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id DESC LIMIT 1", runsTable)))
		if err != nil {
			return status, fmt.Errorf("failed to get last run time: %w", err)
		}
		status.LastRunTime = lastRunTime

		oldestRunTime, err := s.scanTime(s.db.QueryRow(fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id ASC LIMIT 1", runsTable)))
		if err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		status.OldestRunTime = oldestRunTime
	}

	assessmentsTable := quoteTableName(riskAssessmentsTable, s.backend)
	if err := s.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", assessmentsTable)).Scan(&status.TotalAssessments); err != nil {
		return status, fmt.Errorf("failed to get total assessments: %w", err)
	}

	status.TableSizes[analysisRunsTable] = int64(status.TotalRuns)
	status.TableSizes[riskAssessmentsTable] = int64(status.TotalAssessments)
	return status, nil
}

// GetAllRuns retrieves all runs from the store.
func (s *Store) GetAllRuns() ([]schema.AnalysisRunRecord, error) {
	if s.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, run_kind, subject, data_source, start_time, end_time, run_duration_ms, data_points, confidence, params
		FROM %s ORDER BY run_id`, quoteTableName(analysisRunsTable, s.backend))
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.AnalysisRunRecord
	for rows.Next() {
		var (
			record     schema.AnalysisRunRecord
			kind       string
			dataSource sql.NullString
			startRaw   any
			endRaw     any
			durationMs sql.NullInt64
			dataPoints sql.NullInt64
			confidence sql.NullFloat64
			params     sql.NullString
		)
		if err := rows.Scan(&record.RunID, &kind, &record.Subject, &dataSource, &startRaw, &endRaw, &durationMs, &dataPoints, &confidence, &params); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		startTime, err := parseTime(startRaw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse start_time: %w", err)
		}
		if endRaw != nil {
			endTime, err := parseTime(endRaw)
			if err != nil {
				return nil, fmt.Errorf("failed to parse end_time: %w", err)
			}
			record.EndTime = &endTime
		}
		record.Kind = schema.RunKind(kind)
		record.DataSource = dataSource.String
		record.StartTime = startTime
		record.RunDurationMs = durationMs.Int64
		record.DataPoints = int(dataPoints.Int64)
		record.Confidence = confidence.Float64
		record.Params = params.String
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return results, nil
}

// GetAllAssessments retrieves all risk assessments from the store.
func (s *Store) GetAllAssessments() ([]schema.RiskAssessmentRecord, error) {
	if s.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, employee_id, assessed_at, score, score_label, factors
		FROM %s ORDER BY run_id, employee_id`, quoteTableName(riskAssessmentsTable, s.backend))
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query risk assessments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RiskAssessmentRecord
	for rows.Next() {
		var record schema.RiskAssessmentRecord
		var assessedRaw any
		if err := rows.Scan(&record.RunID, &record.EmployeeID, &assessedRaw, &record.Score, &record.Label, &record.Factors); err != nil {
			return nil, fmt.Errorf("failed to scan risk assessment: %w", err)
		}
		assessedAt, err := parseTime(assessedRaw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse assessed_at: %w", err)
		}
		record.AssessedAt = assessedAt
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating risk assessments: %w", err)
	}
	return results, nil
}

// placeholder returns the n-th bind parameter for the backend.
func (s *Store) placeholder(n int) string {
	if s.backend == schema.PostgreSQLBackend {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// scanTime reads a single time column stored in the backend's format.
func (s *Store) scanTime(row *sql.Row) (time.Time, error) {
	var raw any
	if err := row.Scan(&raw); err != nil {
		return time.Time{}, err
	}
	return parseTime(raw)
}

// parseTime converts a scanned time column. SQLite stores RFC3339Nano text,
// MySQL and PostgreSQL return native datetimes (or bytes without parseTime=true).
func parseTime(raw any) (time.Time, error) {
	switch v := raw.(type) {
	case time.Time:
		return v, nil
	case string:
		return parseTimeString(v)
	case []byte:
		return parseTimeString(string(v))
	default:
		return time.Time{}, fmt.Errorf("unexpected time value %T", raw)
	}
}

func parseTimeString(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05.999999", s)
}

// formatTime converts a time.Time to the appropriate format for the backend.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	switch backend {
	case schema.SQLiteBackend:
		return t.Format(time.RFC3339Nano)
	default:
		return t
	}
}

// quoteTableName quotes a table name for the backend.
func quoteTableName(name string, backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf("`%s`", name)
	default: // SQLite and PostgreSQL
		return fmt.Sprintf("\"%s\"", name)
	}
}
