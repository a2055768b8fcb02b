package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/huangsam/insight/internal/contract"
	"github.com/huangsam/insight/schema"
)

func turnoverRows() []schema.Record {
	return []schema.Record{
		{"department": "sales", "rate": 0.12, "created_at": "2024-03-01"},
		{"department": "tech", "rate": 0.05, "created_at": "2024-01-01"},
		{"department": "sales", "rate": 0.20, "created_at": "2024-02-01"},
		{"department": "ops", "rate": 0.08},
	}
}

func TestValidateIdentifier(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"plain", "turnover", false},
		{"underscore", "salary_records", false},
		{"leading underscore", "_tmp", false},
		{"digits", "table2", false},
		{"empty", "", true},
		{"leading digit", "2table", true},
		{"injection", "users; DROP TABLE users", true},
		{"quoted", `"turnover"`, true},
		{"dash", "salary-records", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateIdentifier(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, schema.ErrInvalidIdentifier)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMemoryStoreQuery(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(map[string][]schema.Record{"turnover": turnoverRows()})

	t.Run("all rows", func(t *testing.T) {
		rows, err := s.Query(ctx, schema.TableQuery{Table: "turnover"})
		require.NoError(t, err)
		assert.Len(t, rows, 4)
	})

	t.Run("filter and order", func(t *testing.T) {
		rows, err := s.Query(ctx, schema.TableQuery{
			Table:   "turnover",
			Filters: []schema.Filter{schema.Eq("department", "sales")},
			OrderBy: "created_at",
		})
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, 0.20, rows[0]["rate"])
		assert.Equal(t, 0.12, rows[1]["rate"])
	})

	t.Run("missing order field sorts last", func(t *testing.T) {
		rows, err := s.Query(ctx, schema.TableQuery{Table: "turnover", OrderBy: "created_at"})
		require.NoError(t, err)
		assert.Equal(t, "ops", rows[3]["department"])
		assert.Equal(t, "tech", rows[0]["department"])
	})

	t.Run("descending with limit", func(t *testing.T) {
		rows, err := s.Query(ctx, schema.TableQuery{Table: "turnover", OrderBy: "rate", Descending: true, Limit: 2})
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, 0.20, rows[0]["rate"])
		assert.Equal(t, 0.12, rows[1]["rate"])
	})

	t.Run("time bounds", func(t *testing.T) {
		rows, err := s.Query(ctx, schema.TableQuery{
			Table: "turnover",
			Filters: []schema.Filter{
				{Field: "created_at", Op: schema.OpGte, Value: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
			},
		})
		require.NoError(t, err)
		assert.Len(t, rows, 2)
	})

	t.Run("unknown table", func(t *testing.T) {
		_, err := s.Query(ctx, schema.TableQuery{Table: "missing"})
		assert.ErrorIs(t, err, schema.ErrDataFetch)
	})

	t.Run("invalid identifier", func(t *testing.T) {
		_, err := s.Query(ctx, schema.TableQuery{Table: "turnover", OrderBy: "rate; --"})
		assert.ErrorIs(t, err, schema.ErrInvalidIdentifier)
		assert.ErrorIs(t, err, schema.ErrDataFetch)
	})

	t.Run("results are copies", func(t *testing.T) {
		rows, err := s.Query(ctx, schema.TableQuery{Table: "turnover"})
		require.NoError(t, err)
		rows[0]["rate"] = 99.0
		again, err := s.Query(ctx, schema.TableQuery{Table: "turnover"})
		require.NoError(t, err)
		assert.Equal(t, 0.12, again[0]["rate"])
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := s.Query(cctx, schema.TableQuery{Table: "turnover"})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestBuildSelect(t *testing.T) {
	q := schema.TableQuery{
		Table:      "turnover",
		OrderBy:    "created_at",
		Descending: true,
		Limit:      10,
		Filters: []schema.Filter{
			schema.Eq("department", "sales"),
			{Field: "rate", Op: schema.OpGt, Value: 0.1},
		},
	}

	query, args, err := buildSelect(q, schema.PostgreSQLBackend)
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "turnover" WHERE "department" = ? AND "rate" > ? ORDER BY "created_at" DESC LIMIT 10`, query)
	assert.Equal(t, []any{"sales", 0.1}, args)

	query, _, err = buildSelect(schema.TableQuery{Table: "turnover"}, schema.MySQLBackend)
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM `turnover`", query)

	_, _, err = buildSelect(schema.TableQuery{Table: "turnover", Filters: []schema.Filter{{Field: "rate", Op: "like"}}}, schema.SQLiteBackend)
	assert.Error(t, err)
}

func TestBindValue(t *testing.T) {
	ts := time.Date(2024, 2, 1, 8, 30, 0, 0, time.UTC)
	assert.Equal(t, "2024-02-01 08:30:00", bindValue(ts, schema.SQLiteBackend))
	assert.Equal(t, ts, bindValue(ts, schema.PostgreSQLBackend))
	assert.Equal(t, 3, bindValue(3, schema.SQLiteBackend))
}

func TestSQLStoreSQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "data.db")
	s, err := NewSQLStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	_, err = s.db.Exec(`CREATE TABLE turnover (department TEXT, rate REAL, created_at TEXT)`)
	require.NoError(t, err)
	_, err = s.db.Exec(`INSERT INTO turnover VALUES ('sales', 0.12, '2024-03-01'), ('tech', 0.05, '2024-01-01'), ('sales', 0.20, '2024-02-01')`)
	require.NoError(t, err)

	ctx := context.Background()
	rows, err := s.Query(ctx, schema.TableQuery{
		Table:   "turnover",
		OrderBy: "created_at",
		Filters: []schema.Filter{schema.Eq("department", "sales")},
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	rate, ok := rows[0].Float("rate")
	assert.True(t, ok)
	assert.InDelta(t, 0.20, rate, 1e-9)
	assert.Equal(t, "sales", rows[0].String("department"))

	rows, err = s.Query(ctx, schema.TableQuery{
		Table:   "turnover",
		Filters: []schema.Filter{{Field: "created_at", Op: schema.OpLt, Value: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)}},
	})
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	_, err = s.Query(ctx, schema.TableQuery{Table: "missing"})
	var fetchErr *schema.DataFetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "missing", fetchErr.Table)
}

func TestXLSXStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hr.xlsx")
	f := excelize.NewFile()
	_, err := f.NewSheet("turnover")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("turnover", "A1", &[]any{"department", "rate", "created_at"}))
	require.NoError(t, f.SetSheetRow("turnover", "A2", &[]any{"sales", 0.12, "2024-03-01"}))
	require.NoError(t, f.SetSheetRow("turnover", "A3", &[]any{"tech", 0.05, "2024-01-01"}))
	require.NoError(t, f.SetSheetRow("turnover", "A4", &[]any{"sales", 0.2, "2024-02-01"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	ds, err := NewDataStore(schema.XLSXBackend, path)
	require.NoError(t, err)
	defer func() { _ = ds.Close() }()

	ctx := context.Background()
	rows, err := ds.Query(ctx, schema.TableQuery{Table: "turnover", OrderBy: "created_at"})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "tech", rows[0].String("department"))
	rate, ok := rows[2].Float("rate")
	assert.True(t, ok)
	assert.InDelta(t, 0.12, rate, 1e-9)

	rows, err = ds.Query(ctx, schema.TableQuery{
		Table:   "turnover",
		Filters: []schema.Filter{{Field: "rate", Op: schema.OpGte, Value: 0.1}},
	})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	_, err = ds.Query(ctx, schema.TableQuery{Table: "absent"})
	assert.ErrorIs(t, err, schema.ErrDataFetch)

	assert.Contains(t, ds.(*XLSXStore).Tables(), "turnover")
}

func TestGridRecords(t *testing.T) {
	grid := [][]string{
		{"id", "", "score"},
		{"e1", "ignored", "80"},
		{},
		{"e2"},
	}
	records := gridRecords(grid)
	require.Len(t, records, 2)
	assert.Equal(t, schema.Record{"id": "e1", "score": "80"}, records[0])
	assert.Equal(t, schema.Record{"id": "e2"}, records[1])
	assert.Empty(t, gridRecords(nil))
}

func TestNewDataStoreUnsupported(t *testing.T) {
	_, err := NewDataStore(schema.NoneBackend, "")
	assert.Error(t, err)
}

func TestWithPolicy(t *testing.T) {
	ctx := context.Background()
	q := schema.TableQuery{Table: "turnover"}
	rows := []schema.Record{{"rate": 0.1}}

	t.Run("zero policy is passthrough", func(t *testing.T) {
		m := &contract.MockDataStore{}
		assert.Same(t, m, WithPolicy(m, Policy{}))
	})

	t.Run("retries until success", func(t *testing.T) {
		m := &contract.MockDataStore{}
		m.On("Query", mock.Anything, q).Return(nil, errors.New("connection reset")).Twice()
		m.On("Query", mock.Anything, q).Return(rows, nil).Once()

		ds := WithPolicy(m, Policy{MaxRetries: 3, InitialInterval: time.Millisecond})
		got, err := ds.Query(ctx, q)
		require.NoError(t, err)
		assert.Equal(t, rows, got)
		m.AssertExpectations(t)
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		m := &contract.MockDataStore{}
		m.On("Query", mock.Anything, q).Return(nil, errors.New("connection reset")).Times(3)

		ds := WithPolicy(m, Policy{MaxRetries: 2, InitialInterval: time.Millisecond})
		_, err := ds.Query(ctx, q)
		assert.ErrorIs(t, err, schema.ErrDataFetch)
		m.AssertNumberOfCalls(t, "Query", 3)
	})

	t.Run("invalid identifier is not retried", func(t *testing.T) {
		m := &contract.MockDataStore{}
		bad := schema.NewDataFetchError("x;", schema.ErrInvalidIdentifier)
		m.On("Query", mock.Anything, q).Return(nil, bad).Once()

		ds := WithPolicy(m, Policy{MaxRetries: 5, InitialInterval: time.Millisecond})
		_, err := ds.Query(ctx, q)
		assert.ErrorIs(t, err, schema.ErrInvalidIdentifier)
		m.AssertNumberOfCalls(t, "Query", 1)
	})

	t.Run("timeout applies per attempt", func(t *testing.T) {
		m := &contract.MockDataStore{}
		m.On("Query", mock.Anything, q).Return(rows, nil).Run(func(args mock.Arguments) {
			attemptCtx := args.Get(0).(context.Context)
			_, hasDeadline := attemptCtx.Deadline()
			assert.True(t, hasDeadline)
		}).Once()

		ds := WithPolicy(m, Policy{Timeout: time.Second})
		_, err := ds.Query(ctx, q)
		require.NoError(t, err)
		m.AssertExpectations(t)
	})

	t.Run("close is forwarded", func(t *testing.T) {
		m := &contract.MockDataStore{}
		m.On("Close").Return(nil).Once()
		require.NoError(t, WithPolicy(m, Policy{MaxRetries: 1}).Close())
		m.AssertExpectations(t)
	})
}
