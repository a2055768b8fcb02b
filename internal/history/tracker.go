package history

import (
	"context"
	"fmt"
	"time"

	"github.com/huangsam/insight/internal/contract"
	"github.com/huangsam/insight/schema"
)

// Tracker records runs in a history store.
// Tracking failures are logged as warnings and never fail the tracked work.
type Tracker struct {
	store contract.HistoryStore
	now   func() time.Time
}

// NewTracker creates a tracker writing to store. A nil store tracks nothing.
func NewTracker(store contract.HistoryStore) *Tracker {
	return &Tracker{store: store, now: time.Now}
}

// Run is one in-flight tracked run.
type Run struct {
	tracker *Tracker
	id      int64
}

// Begin starts a run. The returned run is always usable.
func (t *Tracker) Begin(kind schema.RunKind, subject, dataSource string, params map[string]any) *Run {
	run := &Run{tracker: t}
	if t == nil || t.store == nil {
		return run
	}
	id, err := t.store.BeginRun(kind, subject, dataSource, t.now(), params)
	if err != nil {
		logTrackingError("BeginRun", subject, err)
		return run
	}
	run.id = id
	return run
}

// ID returns the run id, or 0 when the run is not tracked.
func (r *Run) ID() int64 {
	return r.id
}

// End finalizes the run.
func (r *Run) End(dataPoints int, confidence float64) {
	if r.id <= 0 {
		return
	}
	if err := r.tracker.store.EndRun(r.id, r.tracker.now(), dataPoints, confidence); err != nil {
		logTrackingError("EndRun", fmt.Sprint(r.id), err)
	}
}

// RecordAssessment stores a risk assessment under the run.
func (r *Run) RecordAssessment(a schema.RiskAssessment) {
	if r.id <= 0 {
		return
	}
	if err := r.tracker.store.RecordRiskAssessment(r.id, a, r.tracker.now()); err != nil {
		logTrackingError("RecordRiskAssessment", a.EmployeeID, err)
	}
}

// trackedAnalyzer records every analysis it runs.
type trackedAnalyzer struct {
	next    contract.Analyzer
	tracker *Tracker
}

// Analyzer wraps next so each Analyze call becomes an analysis run.
func (t *Tracker) Analyzer(next contract.Analyzer) contract.Analyzer {
	return &trackedAnalyzer{next: next, tracker: t}
}

// Analyze implements contract.Analyzer.
func (a *trackedAnalyzer) Analyze(ctx context.Context, req schema.AnalysisRequest) (schema.AnalysisResult, error) {
	params := map[string]any(req.Parameters.Clone())
	if req.TimeRange != nil {
		params["time_range_start"] = req.TimeRange.Start
		params["time_range_end"] = req.TimeRange.End
	}
	run := a.tracker.Begin(schema.AnalysisRun, string(req.Type), req.DataSource, params)
	res, err := a.next.Analyze(ctx, req)
	if err != nil {
		run.End(0, 0)
		return res, err
	}
	run.End(res.Metadata.DataPoints, res.Confidence)
	return res, nil
}

func logTrackingError(operation, subject string, err error) {
	contract.LogWarn(fmt.Sprintf("History tracking failed for %s on %s", operation, subject), err)
}
