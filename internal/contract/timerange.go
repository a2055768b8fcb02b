package contract

import (
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/insight/schema"
)

// timeLayouts are the accepted formats for time range bounds.
var timeLayouts = []string{time.RFC3339, time.DateTime, time.DateOnly}

// ParseTimeBound parses a date or timestamp in one of the accepted layouts.
func ParseTimeBound(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q (expected YYYY-MM-DD or RFC3339)", s)
}

// ParseTimeRange builds a time range from optional start and end strings.
// Both empty yields nil. A missing end defaults to now; a missing start is an error.
func ParseTimeRange(start, end string, now time.Time) (*schema.TimeRange, error) {
	if start == "" && end == "" {
		return nil, nil
	}
	if start == "" {
		return nil, fmt.Errorf("a start time is required when an end time is set")
	}
	from, err := ParseTimeBound(start)
	if err != nil {
		return nil, err
	}
	to := now
	if end != "" {
		if to, err = ParseTimeBound(end); err != nil {
			return nil, err
		}
	}
	if to.Before(from) {
		return nil, fmt.Errorf("end time %s is before start time %s", to.Format(DateTimeFormat), from.Format(DateTimeFormat))
	}
	return &schema.TimeRange{Start: from, End: to}, nil
}
