//go:build basic || database

package integration

import (
	"database/sql"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// fixtureDDL creates the business tables. Column types are portable across SQLite, MySQL and PostgreSQL.
var fixtureDDL = []string{
	`CREATE TABLE turnover (department VARCHAR(32), rate DOUBLE PRECISION, created_at VARCHAR(32))`,
	`CREATE TABLE employees (employee_id VARCHAR(16), department VARCHAR(32), position VARCHAR(32), salary DOUBLE PRECISION, hire_date VARCHAR(32), last_promotion_date VARCHAR(32))`,
	`CREATE TABLE performance_reviews (employee_id VARCHAR(16), rating INTEGER, review_date VARCHAR(32))`,
	`CREATE TABLE survey_responses (employee_id VARCHAR(16), survey_type VARCHAR(32), rating INTEGER, created_at VARCHAR(32))`,
	`CREATE TABLE training_records (employee_id VARCHAR(16), status VARCHAR(32), completion_date VARCHAR(32))`,
	`CREATE TABLE risk_scores (employee_id VARCHAR(16), score INTEGER, created_at VARCHAR(32))`,
}

// turnoverRates are monthly sales turnover rates starting 2024-01-01.
var turnoverRates = []float64{4.0, 4.5, 5.1, 5.4, 6.2, 6.8}

// seedFixtures creates and fills the business tables through db.
// The statements use '?' placeholders, rebound to '$n' when dollar is set.
func seedFixtures(t *testing.T, db *sql.DB, dollar bool) {
	t.Helper()
	for _, ddl := range fixtureDDL {
		_, err := db.Exec(ddl)
		require.NoError(t, err, ddl)
	}

	insert := func(query string, args ...any) {
		if dollar {
			n := 0
			var sb strings.Builder
			for _, r := range query {
				if r == '?' {
					n++
					fmt.Fprintf(&sb, "$%d", n)
					continue
				}
				sb.WriteRune(r)
			}
			query = sb.String()
		}
		_, err := db.Exec(query, args...)
		require.NoError(t, err, query)
	}

	for i, rate := range turnoverRates {
		insert(`INSERT INTO turnover VALUES (?, ?, ?)`, "sales", rate, fmt.Sprintf("2024-%02d-01", i+1))
	}
	insert(`INSERT INTO employees VALUES (?, ?, ?, ?, ?, ?)`, "E1", "sales", "rep", 5000.0, "2024-03-01", "")
	insert(`INSERT INTO employees VALUES (?, ?, ?, ?, ?, ?)`, "E2", "tech", "engineer", 9000.0, "2015-02-01", "2024-01-15")
	insert(`INSERT INTO performance_reviews VALUES (?, ?, ?)`, "E1", 1, "2024-06-01")
	insert(`INSERT INTO performance_reviews VALUES (?, ?, ?)`, "E2", 5, "2024-06-01")
	insert(`INSERT INTO survey_responses VALUES (?, ?, ?, ?)`, "E1", "satisfaction", 1, "2024-05-01")
	insert(`INSERT INTO survey_responses VALUES (?, ?, ?, ?)`, "E2", "satisfaction", 5, "2024-05-01")
	insert(`INSERT INTO training_records VALUES (?, ?, ?)`, "E2", "completed", "2024-04-10")
	for i, score := range []int{40, 50, 60, 70} {
		insert(`INSERT INTO risk_scores VALUES (?, ?, ?)`, "E2", score, fmt.Sprintf("2024-%02d-01", i+1))
	}
}
