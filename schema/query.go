package schema

import "time"

// Record is a single row from the tabular store, keyed by field name.
type Record map[string]any

// Float returns the numeric value of a field.
func (r Record) Float(field string) (float64, bool) {
	v, ok := r[field]
	if !ok {
		return 0, false
	}
	return ToFloat(v)
}

// String returns the string value of a field, or "" when absent.
func (r Record) String(field string) string {
	return ToString(r[field])
}

// Time returns the time value of a field.
func (r Record) Time(field string) (time.Time, bool) {
	v, ok := r[field]
	if !ok {
		return time.Time{}, false
	}
	return ToTime(v)
}

// Filter restricts the rows returned from a table.
type Filter struct {
	Field string   `json:"field"`
	Op    FilterOp `json:"op"`
	Value any      `json:"value"`
}

// Eq builds an equality filter.
func Eq(field string, value any) Filter {
	return Filter{Field: field, Op: OpEq, Value: value}
}

// Matches reports whether the record satisfies the filter.
// Numbers compare numerically, times chronologically, everything else as strings.
func (f Filter) Matches(r Record) bool {
	raw, ok := r[f.Field]
	if !ok || raw == nil {
		return f.Op == OpNeq
	}
	cmp, ok := CompareValues(raw, f.Value)
	if !ok {
		return false
	}
	switch f.Op {
	case OpEq:
		return cmp == 0
	case OpNeq:
		return cmp != 0
	case OpGt:
		return cmp > 0
	case OpGte:
		return cmp >= 0
	case OpLt:
		return cmp < 0
	case OpLte:
		return cmp <= 0
	default:
		return false
	}
}

// CompareValues returns -1, 0 or 1 and whether the values were comparable.
// Times compare chronologically when b is a time, numbers numerically, everything else as strings.
func CompareValues(a, b any) (int, bool) {
	if _, isTime := b.(time.Time); isTime {
		ta, okA := ToTime(a)
		tb, okB := ToTime(b)
		if !okA || !okB {
			return 0, false
		}
		return ta.Compare(tb), true
	}
	if fa, okA := ToFloat(a); okA {
		if fb, okB := ToFloat(b); okB {
			switch {
			case fa < fb:
				return -1, true
			case fa > fb:
				return 1, true
			default:
				return 0, true
			}
		}
	}
	sa, sb := ToString(a), ToString(b)
	switch {
	case sa < sb:
		return -1, true
	case sa > sb:
		return 1, true
	default:
		return 0, true
	}
}

// TableQuery describes one fetch from the tabular store.
type TableQuery struct {
	Table      string   `json:"table"`
	OrderBy    string   `json:"order_by,omitempty"`
	Descending bool     `json:"descending,omitempty"`
	Filters    []Filter `json:"filters,omitempty"`
	Limit      int      `json:"limit,omitempty"`
}

// QueryEntity is a structured value extracted from free text.
type QueryEntity struct {
	Type       EntityType `json:"type"`
	Value      string     `json:"value"`
	Confidence float64    `json:"confidence"`
}

// QueryResult is the answer to a natural-language question.
type QueryResult struct {
	Answer            string          `json:"answer"`
	Data              *AnalysisResult `json:"data,omitempty"`
	VisualizationType string          `json:"visualization_type,omitempty"`
	FollowupQuestions []string        `json:"followup_questions"`
	Intent            Intent          `json:"intent"`
	Entities          []QueryEntity   `json:"entities"`
}
