package schema

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across the engine.
var (
	ErrUnsupportedAnalysisType = errors.New("unsupported analysis type")
	ErrUnsupportedReportType   = errors.New("unsupported report type")
	ErrDataFetch               = errors.New("data fetch failed")
	ErrEmployeeNotFound        = errors.New("employee not found")
	ErrInvalidIdentifier       = errors.New("invalid identifier")
)

// DataFetchError reports a failed query against the tabular store.
type DataFetchError struct {
	Table string
	Err   error
}

// NewDataFetchError wraps err as a fetch failure on table.
func NewDataFetchError(table string, err error) *DataFetchError {
	return &DataFetchError{Table: table, Err: err}
}

func (e *DataFetchError) Error() string {
	return fmt.Sprintf("%v: table %q: %v", ErrDataFetch, e.Table, e.Err)
}

// Unwrap exposes both the sentinel and the underlying cause to errors.Is.
func (e *DataFetchError) Unwrap() []error {
	return []error{ErrDataFetch, e.Err}
}
