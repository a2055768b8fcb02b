// Package store adapts tabular backends to the contract.DataStore capability.
package store

import (
	"cmp"
	"fmt"
	"regexp"
	"slices"

	"github.com/huangsam/insight/internal/contract"
	"github.com/huangsam/insight/schema"
)

// identifierPattern restricts table and field names that reach a backend.
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidateIdentifier rejects table and field names that are not plain identifiers.
func ValidateIdentifier(name string) error {
	if !identifierPattern.MatchString(name) {
		return fmt.Errorf("%w: %q", schema.ErrInvalidIdentifier, name)
	}
	return nil
}

// validateQuery checks every identifier a query references.
func validateQuery(q schema.TableQuery) error {
	if err := ValidateIdentifier(q.Table); err != nil {
		return err
	}
	if q.OrderBy != "" {
		if err := ValidateIdentifier(q.OrderBy); err != nil {
			return err
		}
	}
	for _, f := range q.Filters {
		if err := ValidateIdentifier(f.Field); err != nil {
			return err
		}
		if _, ok := sqlOperators[f.Op]; !ok {
			return fmt.Errorf("unsupported filter operator %q on field %q", f.Op, f.Field)
		}
	}
	return nil
}

// NewDataStore opens the tabular store of the given backend.
func NewDataStore(backend schema.DatabaseBackend, connStr string) (contract.DataStore, error) {
	switch backend {
	case schema.SQLiteBackend, schema.MySQLBackend, schema.PostgreSQLBackend:
		return NewSQLStore(backend, connStr)
	case schema.XLSXBackend:
		return NewXLSXStore(connStr)
	default:
		return nil, fmt.Errorf("unsupported data backend: %s. Must be sqlite, mysql, postgresql, or xlsx", backend)
	}
}

// applyQuery filters, orders and limits rows in memory.
// Rows without the order field sort last; the sort is stable.
func applyQuery(rows []schema.Record, q schema.TableQuery) []schema.Record {
	out := make([]schema.Record, 0, len(rows))
	for _, r := range rows {
		if matchesAll(r, q.Filters) {
			out = append(out, r)
		}
	}
	if q.OrderBy != "" {
		slices.SortStableFunc(out, func(a, b schema.Record) int {
			av, aok := a[q.OrderBy]
			bv, bok := b[q.OrderBy]
			switch {
			case !aok && !bok:
				return 0
			case !aok:
				return 1
			case !bok:
				return -1
			}
			c, ok := schema.CompareValues(av, bv)
			if !ok {
				c = cmp.Compare(schema.ToString(av), schema.ToString(bv))
			}
			if q.Descending {
				return -c
			}
			return c
		})
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out
}

func matchesAll(r schema.Record, filters []schema.Filter) bool {
	for _, f := range filters {
		if !f.Matches(r) {
			return false
		}
	}
	return true
}
