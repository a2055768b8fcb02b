package nlq

import (
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/insight/schema"
)

// timeSpan is a parsed time-range phrase.
type timeSpan struct {
	kind  timeKind
	count int
	unit  string // day, week, month, quarter or year
}

// unitNames normalizes Chinese and English unit words.
var unitNames = map[string]string{
	"天": "day", "周": "week", "月": "month", "季度": "quarter", "年": "year",
	"day": "day", "week": "week", "month": "month", "quarter": "quarter", "year": "year",
}

// parseTimePhrase matches phrase against the time patterns and reads its count and unit.
func parseTimePhrase(phrase string) (timeSpan, bool) {
	for _, tp := range timePatterns {
		groups := tp.re.FindStringSubmatch(phrase)
		if groups == nil {
			continue
		}
		span := timeSpan{kind: tp.kind, count: 1}
		for _, g := range groups[1:] {
			if g == "" {
				continue
			}
			if unit, ok := unitNames[strings.ToLower(g)]; ok {
				span.unit = unit
			} else if n, ok := parseCount(g); ok {
				span.count = n
			}
		}
		if span.unit == "" || span.count < 1 {
			return timeSpan{}, false
		}
		return span, true
	}
	return timeSpan{}, false
}

// periods is the number of forecast periods the span covers, counted in months
// for quarters and years and capped at schema.MaxForecastPeriods.
func (s timeSpan) periods() int {
	n := s.count
	switch s.unit {
	case "quarter":
		n *= 3
	case "year":
		n *= 12
	}
	return min(max(n, 1), schema.MaxForecastPeriods)
}

// resolve turns a past, current or previous span into a concrete range ending at or before now.
func (s timeSpan) resolve(now time.Time) schema.TimeRange {
	switch s.kind {
	case currentPeriod:
		return schema.TimeRange{Start: startOf(s.unit, now), End: now}
	case previousPeriod:
		current := startOf(s.unit, now)
		return schema.TimeRange{Start: shift(s.unit, current, -1), End: current.Add(-time.Nanosecond)}
	default:
		return schema.TimeRange{Start: shift(s.unit, now, -s.count), End: now}
	}
}

// startOf truncates t to the beginning of its calendar unit. Weeks start on Monday.
func startOf(unit string, t time.Time) time.Time {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	switch unit {
	case "week":
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case "month":
		return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
	case "quarter":
		first := time.Month((int(m)-1)/3*3 + 1)
		return time.Date(y, first, 1, 0, 0, 0, 0, t.Location())
	case "year":
		return time.Date(y, time.January, 1, 0, 0, 0, 0, t.Location())
	default:
		return day
	}
}

// shift moves t by n units.
func shift(unit string, t time.Time, n int) time.Time {
	switch unit {
	case "week":
		return t.AddDate(0, 0, 7*n)
	case "month":
		return t.AddDate(0, n, 0)
	case "quarter":
		return t.AddDate(0, 3*n, 0)
	case "year":
		return t.AddDate(n, 0, 0)
	default:
		return t.AddDate(0, 0, n)
	}
}

var cnDigits = map[rune]int{'一': 1, '二': 2, '两': 2, '三': 3, '四': 4, '五': 5, '六': 6, '七': 7, '八': 8, '九': 9}

// parseCount reads a count written in digits or in Chinese numerals up to 99.
func parseCount(s string) (int, bool) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	var total, digit int
	var seen bool
	for _, r := range s {
		if r == '十' {
			if digit == 0 {
				digit = 1
			}
			total += digit * 10
			digit = 0
			seen = true
			continue
		}
		v, ok := cnDigits[r]
		if !ok {
			return 0, false
		}
		digit = v
		seen = true
	}
	return total + digit, seen
}
