//go:build database

package integration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/huangsam/insight/internal/store"
	"github.com/huangsam/insight/schema"
)

// TestInsightWithMySQL tests the insight CLI with a MySQL backend.
func TestInsightWithMySQL(t *testing.T) {
	ctx := context.Background()

	// Start MySQL container
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "insight",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(60 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	// Get connection details
	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/insight", host, port.Port())

	db, err := sql.Open("mysql", connStr)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()
	seedFixtures(t, db, false)

	checkStoreQueries(t, schema.MySQLBackend, connStr)
	checkCLI(t, map[string]string{
		"INSIGHT_BACKEND":            "mysql",
		"INSIGHT_DB_CONNECT":         connStr,
		"INSIGHT_HISTORY_BACKEND":    "mysql",
		"INSIGHT_HISTORY_DB_CONNECT": connStr,
	})
}

// TestInsightWithPostgres tests the insight CLI with a PostgreSQL backend.
func TestInsightWithPostgres(t *testing.T) {
	ctx := context.Background()

	// Start Postgres container
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()

	// Get connection details
	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres sslmode=disable", host, port.Port())

	db, err := sql.Open("pgx", connStr)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()
	seedFixtures(t, db, true)

	checkStoreQueries(t, schema.PostgreSQLBackend, connStr)
	checkCLI(t, map[string]string{
		"INSIGHT_BACKEND":            "postgresql",
		"INSIGHT_DB_CONNECT":         connStr,
		"INSIGHT_HISTORY_BACKEND":    "postgresql",
		"INSIGHT_HISTORY_DB_CONNECT": connStr,
	})
}

// checkStoreQueries exercises filters, ordering and limits of the SQL store against a live server.
func checkStoreQueries(t *testing.T, backend schema.DatabaseBackend, connStr string) {
	t.Helper()
	s, err := store.NewSQLStore(backend, connStr)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	ctx := context.Background()
	rows, err := s.Query(ctx, schema.TableQuery{
		Table:      "turnover",
		Filters:    []schema.Filter{schema.Eq("department", "sales"), {Field: "created_at", Op: schema.OpGte, Value: "2024-03-01"}},
		OrderBy:    "created_at",
		Descending: true,
		Limit:      2,
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	rate, ok := rows[0].Float("rate")
	require.True(t, ok)
	assert.InDelta(t, 6.8, rate, 1e-9)

	_, err = s.Query(ctx, schema.TableQuery{Table: "missing_table"})
	assert.ErrorIs(t, err, schema.ErrDataFetch)
}

// checkCLI runs the main commands against the configured backends.
func checkCLI(t *testing.T, env map[string]string) {
	t.Helper()

	_, err := runInsightCommand(t, env, "history", "clear")
	require.NoError(t, err)

	_, err = runInsightCommand(t, env, "history", "migrate")
	require.NoError(t, err)

	out, err := runInsightCommand(t, env, "analyze", "trend", "--source", "turnover", "-p", "valueField=rate", "--output", "json")
	require.NoError(t, err)
	var trend struct {
		Data struct {
			Direction string  `json:"direction"`
			Slope     float64 `json:"slope"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &trend))
	assert.Equal(t, string(schema.IncreasingTrend), trend.Data.Direction)
	assert.Greater(t, trend.Data.Slope, 0.0)

	out, err = runInsightCommand(t, env, "risk", "score", "E1", "--output", "json")
	require.NoError(t, err)
	var assessment struct {
		EmployeeID string         `json:"employee_id"`
		Factors    map[string]int `json:"factors"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &assessment))
	assert.Equal(t, "E1", assessment.EmployeeID)
	assert.Len(t, assessment.Factors, 9)

	_, err = runInsightCommand(t, env, "risk", "trend", "E2", "--months", "3")
	require.NoError(t, err)

	_, err = runInsightCommand(t, env, "report", "retention")
	require.NoError(t, err)

	out, err = runInsightCommand(t, env, "ask", "销售部离职率趋势")
	require.NoError(t, err)
	assert.Contains(t, out, "Intent: trend")

	out, err = runInsightCommand(t, env, "history", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Connected: true")
}
