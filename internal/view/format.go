package view

import (
	"fmt"
	"strconv"
	"time"

	"github.com/priYanshURaj-ai/performance-dashboard/internal/metrics"
)

var statusLabels = map[string]string{
	"done":       "✅ Done",
	"inProgress": "🔄 In Progress",
	"uat":        "🧪 UAT",
	"toDo":       "📝 To Do",
}

func statusLabel(status, name string) string {
	if l, ok := statusLabels[status]; ok {
		return l
	}
	if name != "" {
		return name
	}
	return "Unknown"
}

// hours renders 15 as "15h" and 2.25 as "2.3h".
func hours(h float64) string {
	return strconv.FormatFloat(metrics.Round1(h), 'f', -1, 64) + "h"
}

func availableText(u metrics.Utilization) string {
	if u.Overutilized {
		return "+" + hours(u.OverageHours()) + " over"
	}
	return hours(u.AvailableHours)
}

func percentText(p float64) string {
	return fmt.Sprintf("%.0f%%", p)
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range []string{time.DateOnly, time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func shortDate(s string) string {
	t, ok := parseDate(s)
	if !ok {
		return s
	}
	return t.Format("2 Jan")
}

func dateRange(start, end string) string {
	if start == "" && end == "" {
		return ""
	}
	return shortDate(start) + " - " + shortDate(end)
}

func formatDateTime(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2 Jan 2006, 03:04 PM")
}
