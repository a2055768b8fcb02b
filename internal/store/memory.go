package store

import (
	"context"
	"errors"
	"maps"
	"sync"

	"github.com/huangsam/insight/internal/contract"
	"github.com/huangsam/insight/schema"
)

// MemoryStore is an in-memory DataStore, used for fixtures and tests.
type MemoryStore struct {
	mu     sync.RWMutex
	tables map[string][]schema.Record
}

var _ contract.DataStore = &MemoryStore{} // Compile-time check

// NewMemoryStore creates a store holding the given tables.
func NewMemoryStore(tables map[string][]schema.Record) *MemoryStore {
	s := &MemoryStore{tables: map[string][]schema.Record{}}
	for name, rows := range tables {
		s.Put(name, rows...)
	}
	return s
}

// Put appends rows to a table, creating it when missing.
func (s *MemoryStore) Put(table string, rows ...schema.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tables[table]; !ok {
		s.tables[table] = []schema.Record{}
	}
	for _, r := range rows {
		s.tables[table] = append(s.tables[table], maps.Clone(r))
	}
}

// Query implements contract.DataStore.
func (s *MemoryStore) Query(ctx context.Context, q schema.TableQuery) ([]schema.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, schema.NewDataFetchError(q.Table, err)
	}
	if err := validateQuery(q); err != nil {
		return nil, schema.NewDataFetchError(q.Table, err)
	}

	s.mu.RLock()
	rows, ok := s.tables[q.Table]
	copied := make([]schema.Record, len(rows))
	for i, r := range rows {
		copied[i] = maps.Clone(r)
	}
	s.mu.RUnlock()

	if !ok {
		return nil, schema.NewDataFetchError(q.Table, errors.New("no such table"))
	}
	return applyQuery(copied, q), nil
}

// Close implements contract.DataStore.
func (s *MemoryStore) Close() error {
	return nil
}
