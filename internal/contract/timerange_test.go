package contract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeRange(t *testing.T) {
	now := time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		start     string
		end       string
		wantNil   bool
		wantStart time.Time
		wantEnd   time.Time
		wantErr   string
	}{
		{name: "both empty", wantNil: true},
		{name: "date only", start: "2024-01-01", end: "2024-03-31", wantStart: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), wantEnd: time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)},
		{name: "open end", start: "2024-01-01T08:00:00Z", wantStart: time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC), wantEnd: now},
		{name: "datetime", start: "2024-01-01 08:30:00", end: "2024-01-02", wantStart: time.Date(2024, 1, 1, 8, 30, 0, 0, time.UTC), wantEnd: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		{name: "end without start", end: "2024-01-01", wantErr: "start time is required"},
		{name: "invalid start", start: "last year", wantErr: "invalid time"},
		{name: "reversed", start: "2024-05-01", end: "2024-01-01", wantErr: "before start time"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := ParseTimeRange(tt.start, tt.end, now)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, tr)
				return
			}
			require.NotNil(t, tr)
			assert.Equal(t, tt.wantStart, tr.Start)
			assert.Equal(t, tt.wantEnd, tr.End)
		})
	}
}
