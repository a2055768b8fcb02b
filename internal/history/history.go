// Package history records analysis runs and risk assessments for later export.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/huangsam/insight/internal/contract"
	"github.com/huangsam/insight/schema"
)

// StoreManager holds the process-wide history store.
type StoreManager struct {
	sync.RWMutex
	store contract.HistoryStore
}

// Global Manager instance for main logic.
var (
	Manager   = &StoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// GetHistoryStore returns the configured store, or a store that records nothing.
func (m *StoreManager) GetHistoryStore() contract.HistoryStore {
	m.RLock()
	defer m.RUnlock()
	if m.store == nil {
		return &Store{backend: schema.NoneBackend}
	}
	return m.store
}

// InitHistory initializes the global history store.
// An empty backend leaves history tracking disabled.
func InitHistory(backend schema.DatabaseBackend, connStr string) error {
	var initErr error

	initOnce.Do(func() {
		if backend == "" {
			return
		}
		store, err := NewStore(backend, connStr)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize history store: %w", err)
			return
		}
		Manager.Lock()
		Manager.store = store
		Manager.Unlock()
	})

	return initErr
}

// CloseHistory should be called on application shutdown.
func CloseHistory() {
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.store != nil {
			_ = Manager.store.Close()
		}
	})
}

// ClearHistory clears run history for the specified backend.
// For SQLite, it deletes the database file.
// For SQL backends (MySQL/PostgreSQL), it drops the history tables.
// For NoneBackend, it does nothing.
func ClearHistory(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
		}
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend:
		return clearSQLTables("mysql", connStr, backend)

	case schema.PostgreSQLBackend:
		return clearSQLTables("pgx", connStr, backend)

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported history backend for clearing: %s", backend)
	}
}

// clearSQLTables connects to the SQL database and drops the history tables if they exist.
func clearSQLTables(driverName, connStr string, backend schema.DatabaseBackend) error {
	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", driverName, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", driverName, err)
	}

	for _, table := range []string{riskAssessmentsTable, analysisRunsTable} {
		query := fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteTableName(table, backend))
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}
	return nil
}
