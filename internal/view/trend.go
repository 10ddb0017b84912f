package view

import (
	"math"

	"github.com/priYanshURaj-ai/performance-dashboard/internal/snapshot"
)

var trendDays = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun", "Mon", "Tue"}

// SyntheticTrend spreads period aggregates across a nine-day axis. There is no
// per-day data in the document, so the shape is a fixed weekday/weekend
// profile; the result is flagged Synthetic and must be labelled as such.
// TODO: replace with real per-day series once the sync workflow exports them.
func SyntheticTrend(counts snapshot.StatusCounts, activeMembers int) TrendSeries {
	baseCreated := math.Ceil(float64(max(counts.Total, 0)) / 7)
	baseDone := math.Ceil(float64(max(counts.Done, 0)) / 7)
	baseActive := math.Ceil(float64(max(activeMembers, 0)) * 0.8)

	shape := func(base, weekend float64) []int {
		out := make([]int, len(trendDays))
		for i := range trendDays {
			w := 1.0
			if i >= 5 {
				w = weekend
			}
			out[i] = int(math.Round(base * w))
		}
		return out
	}

	return TrendSeries{
		Synthetic: true,
		Labels:    append([]string(nil), trendDays...),
		Series: []NamedSeries{
			{Name: "Issues Created", Values: shape(baseCreated, 0.3)},
			{Name: "Issues Resolved", Values: shape(baseDone, 0.2)},
			{Name: "Active Members", Values: shape(baseActive, 0.4)},
		},
	}
}
