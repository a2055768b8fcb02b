package core

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/huangsam/insight/schema"
)

// unspecifiedSegment groups rows that have no value for the segment field.
const unspecifiedSegment = "unspecified"

// analyzeSegmentation groups rows by segmentBy and averages each metric per group.
func analyzeSegmentation(rows []schema.Record, params schema.Params) outcome {
	segmentBy := params.GetString("segmentBy", paramDepartment)
	metrics := params.GetStrings("metrics")
	if len(metrics) == 0 {
		metrics = []string{params.GetString(paramValueField, defaultValueField)}
	}

	type accumulator struct {
		count  int
		sums   map[string]float64
		counts map[string]int
	}
	groups := map[string]*accumulator{}
	for _, r := range rows {
		name := r.String(segmentBy)
		if name == "" {
			name = unspecifiedSegment
		}
		acc, ok := groups[name]
		if !ok {
			acc = &accumulator{sums: map[string]float64{}, counts: map[string]int{}}
			groups[name] = acc
		}
		acc.count++
		for _, m := range metrics {
			if v, ok := r.Float(m); ok {
				acc.sums[m] += v
				acc.counts[m]++
			}
		}
	}

	segments := make([]schema.Segment, 0, len(groups))
	for name, acc := range groups {
		averages := make(map[string]float64, len(metrics))
		for _, m := range metrics {
			if c := acc.counts[m]; c > 0 {
				averages[m] = acc.sums[m] / float64(c)
			}
		}
		segments = append(segments, schema.Segment{
			Name:     name,
			Count:    acc.count,
			Share:    float64(acc.count) / float64(len(rows)),
			Averages: averages,
		})
	}
	slices.SortFunc(segments, func(a, b schema.Segment) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})

	data := schema.SegmentationData{
		SegmentBy: segmentBy,
		Metrics:   metrics,
		Segments:  segments,
	}
	var bestAvg, worstAvg float64
	for _, s := range segments {
		avg, ok := s.Averages[metrics[0]]
		if !ok {
			continue
		}
		if data.Best == "" || avg > bestAvg {
			data.Best, bestAvg = s.Name, avg
		}
		if data.Worst == "" || avg < worstAvg {
			data.Worst, worstAvg = s.Name, avg
		}
	}

	return outcome{
		data:       data,
		insights:   segmentationInsights(data, bestAvg, worstAvg),
		confidence: 0.85,
	}
}

func segmentationInsights(d schema.SegmentationData, bestAvg, worstAvg float64) []string {
	if len(d.Segments) == 0 {
		return []string{fmt.Sprintf("No records available to segment by %s.", d.SegmentBy)}
	}
	largest := d.Segments[0]
	insights := []string{
		fmt.Sprintf("Found %d segments by %s.", len(d.Segments), d.SegmentBy),
		fmt.Sprintf("The largest segment, %s, holds %.1f%% of records.", largest.Name, largest.Share*100),
	}
	if d.Best != "" {
		insights = append(insights, fmt.Sprintf("%s has the highest average %s (%.2f) and %s the lowest (%.2f).", d.Best, d.Metrics[0], bestAvg, d.Worst, worstAvg))
	}
	return insights
}
