// Package snapshottest builds performance documents for tests.
package snapshottest

import (
	"fmt"

	"github.com/priYanshURaj-ai/performance-dashboard/internal/snapshot"
)

const (
	AliceEmail  = "alice@example.com"
	BobEmail    = "bob@example.com"
	LastUpdated = "2025-01-02T03:04:05Z"
)

// Member returns a member with 7-day metrics and a current sprint that share
// the same counts and hours.
func Member(name, email string, total, done int, hours float64) snapshot.Member {
	counts := snapshot.StatusCounts{Total: total, Done: done, ToDo: total - done}
	return snapshot.Member{
		Name:  name,
		Email: email,
		Metrics: map[snapshot.PeriodKey]*snapshot.PeriodMetrics{
			snapshot.Period7Days: {
				StatusCounts:   counts,
				EstimatedHours: hours,
				HoursLogged:    hours,
			},
		},
		SprintMetrics: snapshot.SprintMetricsSet{
			Current: &snapshot.SprintMetrics{StatusCounts: counts, HoursLogged: hours},
		},
	}
}

// Tickets returns n tickets with descending hours.
func Tickets(n int) []snapshot.Ticket {
	out := make([]snapshot.Ticket, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, snapshot.Ticket{
			Key:     fmt.Sprintf("PERF-%d", i+1),
			Summary: fmt.Sprintf("ticket %d", i+1),
			Hours:   float64(n - i),
			Status:  "inProgress",
		})
	}
	return out
}

// Team is a two-board document: "combined" holds Alice and Bob, "alpha"
// holds Alice alone. Alice has 9 of 10 tasks done and 15h logged; Bob has
// 1 of 10 done and 40h logged against a 30h elapsed sprint.
func Team(lastUpdated string) *snapshot.Snapshot {
	alice := Member("Alice Smith", AliceEmail, 10, 9, 15)
	alice.SprintMetrics.Current.AllIssues = Tickets(6)
	bob := Member("Bob Jones", BobEmail, 10, 1, 40)

	summary := map[snapshot.PeriodKey]*snapshot.TeamSummary{
		snapshot.Period7Days: {
			StatusCounts:     snapshot.StatusCounts{Total: 20, Done: 10, InProgress: 4, UAT: 2, ToDo: 4},
			TotalHoursLogged: 55,
		},
	}

	return &snapshot.Snapshot{
		LastUpdated: lastUpdated,
		Version:     "2.0",
		HoursPerDay: 6,
		Periods: map[snapshot.PeriodKey]snapshot.Period{
			snapshot.Period7Days: {Label: "Last 7 Days", StartDate: "2024-12-26", EndDate: "2025-01-02"},
		},
		TeamSummary: summary,
		Members:     []snapshot.Member{alice, bob},
		Sprints: &snapshot.Sprints{
			Current: &snapshot.SprintInfo{
				Label:        "Jan Sprint 1",
				StartDate:    "2024-12-26",
				EndDate:      "2025-01-08",
				WorkingDays:  10,
				SprintDay:    5,
				ElapsedHours: 30,
			},
			Previous: &snapshot.SprintInfo{
				Month:       "Dec",
				Number:      2,
				StartDate:   "2024-12-09",
				EndDate:     "2024-12-20",
				WorkingDays: 10,
				TotalHours:  60,
			},
		},
		AvailableBoards: []snapshot.BoardRef{
			{ID: "combined", Name: "All Teams"},
			{ID: "alpha", Name: "Alpha"},
		},
		BoardsData: map[string]*snapshot.BoardSnapshot{
			"combined": {BoardName: "All Teams", TeamSummary: summary, Members: []snapshot.Member{alice, bob}},
			"alpha":    {BoardName: "Alpha", TeamSummary: summary, Members: []snapshot.Member{alice}},
		},
		DefaultBoardID: "combined",
	}
}
