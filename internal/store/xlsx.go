package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"

	"github.com/huangsam/insight/internal/contract"
	"github.com/huangsam/insight/schema"
)

// XLSXStore reads tables from an Excel workbook. Each sheet is a table and
// the first row of a sheet holds the field names.
type XLSXStore struct {
	mu   sync.Mutex
	path string
	file *excelize.File
}

var _ contract.DataStore = &XLSXStore{} // Compile-time check

// NewXLSXStore opens the workbook at path.
func NewXLSXStore(path string) (*XLSXStore, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %q: %w", path, err)
	}
	return &XLSXStore{path: path, file: f}, nil
}

// Tables returns the sheet names of the workbook.
func (s *XLSXStore) Tables() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.GetSheetList()
}

// Query implements contract.DataStore.
func (s *XLSXStore) Query(ctx context.Context, q schema.TableQuery) ([]schema.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, schema.NewDataFetchError(q.Table, err)
	}
	if err := validateQuery(q); err != nil {
		return nil, schema.NewDataFetchError(q.Table, err)
	}

	s.mu.Lock()
	idx, err := s.file.GetSheetIndex(q.Table)
	if err == nil && idx < 0 {
		err = errors.New("no such sheet")
	}
	var grid [][]string
	if err == nil {
		grid, err = s.file.GetRows(q.Table)
	}
	s.mu.Unlock()
	if err != nil {
		return nil, schema.NewDataFetchError(q.Table, err)
	}

	return applyQuery(gridRecords(grid), q), nil
}

// gridRecords converts sheet rows into records keyed by the header row.
// Empty cells are left out of the record.
func gridRecords(grid [][]string) []schema.Record {
	if len(grid) == 0 {
		return []schema.Record{}
	}
	header := make([]string, len(grid[0]))
	for i, h := range grid[0] {
		header[i] = strings.TrimSpace(h)
	}

	records := make([]schema.Record, 0, len(grid)-1)
	for _, row := range grid[1:] {
		r := schema.Record{}
		for i, cell := range row {
			if i >= len(header) || header[i] == "" || cell == "" {
				continue
			}
			r[header[i]] = cell
		}
		if len(r) > 0 {
			records = append(records, r)
		}
	}
	return records
}

// Close implements contract.DataStore.
func (s *XLSXStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Close()
}
