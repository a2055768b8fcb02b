package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/huangsam/insight/internal/contract"
	"github.com/huangsam/insight/schema"
)

// sqlOperators maps filter operators to SQL.
var sqlOperators = map[schema.FilterOp]string{
	schema.OpEq:  "=",
	schema.OpNeq: "<>",
	schema.OpGt:  ">",
	schema.OpGte: ">=",
	schema.OpLt:  "<",
	schema.OpLte: "<=",
}

// sqliteTimeFormat is how time filters are bound for SQLite, which stores times as text.
const sqliteTimeFormat = "2006-01-02 15:04:05"

// SQLStore reads tables from a SQL database.
type SQLStore struct {
	db      *sqlx.DB
	backend schema.DatabaseBackend
}

var _ contract.DataStore = &SQLStore{} // Compile-time check

// DriverName returns the database/sql driver registered for a backend.
func DriverName(backend schema.DatabaseBackend) (string, error) {
	switch backend {
	case schema.SQLiteBackend:
		return "sqlite", nil
	case schema.MySQLBackend:
		return "mysql", nil
	case schema.PostgreSQLBackend:
		return "pgx", nil
	default:
		return "", fmt.Errorf("unsupported SQL backend: %s", backend)
	}
}

// NewSQLStore connects to the database of the given backend.
func NewSQLStore(backend schema.DatabaseBackend, connStr string) (*SQLStore, error) {
	driverName, err := DriverName(backend)
	if err != nil {
		return nil, err
	}

	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetDataDBFilePath()
	}
	db, err := sqlx.Open(driverName, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", backend, err)
	}
	if backend == schema.SQLiteBackend {
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database. Check that the server is running and connection parameters are valid: %w", backend, err)
	}

	return &SQLStore{db: db, backend: backend}, nil
}

// Query implements contract.DataStore.
func (s *SQLStore) Query(ctx context.Context, q schema.TableQuery) ([]schema.Record, error) {
	query, args, err := buildSelect(q, s.backend)
	if err != nil {
		return nil, schema.NewDataFetchError(q.Table, err)
	}

	rows, err := s.db.QueryxContext(ctx, s.db.Rebind(query), args...)
	if err != nil {
		return nil, schema.NewDataFetchError(q.Table, err)
	}
	defer func() { _ = rows.Close() }()

	var records []schema.Record
	for rows.Next() {
		row := map[string]any{}
		if err := rows.MapScan(row); err != nil {
			return nil, schema.NewDataFetchError(q.Table, fmt.Errorf("failed to scan row: %w", err))
		}
		for k, v := range row {
			if b, ok := v.([]byte); ok {
				row[k] = string(b)
			}
		}
		records = append(records, schema.Record(row))
	}
	if err := rows.Err(); err != nil {
		return nil, schema.NewDataFetchError(q.Table, fmt.Errorf("error iterating rows: %w", err))
	}
	return records, nil
}

// Close implements contract.DataStore.
func (s *SQLStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// buildSelect renders a table query with '?' placeholders for the backend to rebind.
func buildSelect(q schema.TableQuery, backend schema.DatabaseBackend) (string, []any, error) {
	if err := validateQuery(q); err != nil {
		return "", nil, err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT * FROM %s", quoteIdentifier(q.Table, backend))

	args := make([]any, 0, len(q.Filters))
	for i, f := range q.Filters {
		if i == 0 {
			sb.WriteString(" WHERE ")
		} else {
			sb.WriteString(" AND ")
		}
		fmt.Fprintf(&sb, "%s %s ?", quoteIdentifier(f.Field, backend), sqlOperators[f.Op])
		args = append(args, bindValue(f.Value, backend))
	}

	if q.OrderBy != "" {
		fmt.Fprintf(&sb, " ORDER BY %s", quoteIdentifier(q.OrderBy, backend))
		if q.Descending {
			sb.WriteString(" DESC")
		}
	}
	if q.Limit > 0 {
		fmt.Fprintf(&sb, " LIMIT %d", q.Limit)
	}
	return sb.String(), args, nil
}

// quoteIdentifier quotes a validated identifier for the backend.
func quoteIdentifier(name string, backend schema.DatabaseBackend) string {
	if backend == schema.MySQLBackend {
		return "`" + name + "`"
	}
	return `"` + name + `"`
}

// bindValue converts a filter value to what the backend compares correctly.
func bindValue(v any, backend schema.DatabaseBackend) any {
	if t, ok := v.(time.Time); ok && backend == schema.SQLiteBackend {
		return t.UTC().Format(sqliteTimeFormat)
	}
	return v
}
