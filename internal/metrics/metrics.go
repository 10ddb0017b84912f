// Package metrics derives utilization and status figures from a performance snapshot.
// Every function here is pure: no logging, no I/O, no shared state.
package metrics

import (
	"math"

	"github.com/priYanshURaj-ai/performance-dashboard/internal/snapshot"
)

const (
	// fallback elapsed budget for the bandwidth overview when the sprint carries no hours
	defaultOverviewElapsedHours = 30
	defaultPreviousSprintHours  = 60
)

// DefaultWorkingHours is 5/11/22 working days at six hours per day.
var DefaultWorkingHours = map[snapshot.PeriodKey]float64{
	snapshot.Period7Days:  30,
	snapshot.Period15Days: 66,
	snapshot.Period30Days: 132,
}

// Round1 rounds to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Percent returns count/total*100 rounded to one decimal and clamped to [0, 100].
// A non-positive total yields 0.
func Percent(count, total int) float64 {
	if total <= 0 || count <= 0 {
		return 0
	}
	return Round1(math.Min(float64(count)/float64(total)*100, 100))
}

type StatusBreakdown struct {
	snapshot.StatusCounts
	DonePercent       float64
	InProgressPercent float64
	UATPercent        float64
	ToDoPercent       float64
}

func Breakdown(c snapshot.StatusCounts) StatusBreakdown {
	return StatusBreakdown{
		StatusCounts:      c,
		DonePercent:       Percent(c.Done, c.Total),
		InProgressPercent: Percent(c.InProgress, c.Total),
		UATPercent:        Percent(c.UAT, c.Total),
		ToDoPercent:       Percent(c.ToDo, c.Total),
	}
}

// TeamStatusBreakdown reports false when the summary has no entry for the period.
func TeamStatusBreakdown(summary map[snapshot.PeriodKey]*snapshot.TeamSummary, p snapshot.PeriodKey) (StatusBreakdown, bool) {
	ts, ok := summary[p]
	if !ok || ts == nil {
		return StatusBreakdown{}, false
	}
	return Breakdown(ts.StatusCounts), true
}

// Utilization is hours logged against the hours available in a window.
// RawPercent is unclamped and is what rankings sort on; Percent is capped at
// 100 for bar fills.
type Utilization struct {
	HoursLogged    float64
	BudgetHours    float64
	RawPercent     float64
	Percent        float64
	AvailableHours float64
	Overutilized   bool
}

// OverageHours is how far logged hours exceed the budget, 0 when within it.
func (u Utilization) OverageHours() float64 {
	return math.Max(u.HoursLogged-u.BudgetHours, 0)
}

func MemberUtilization(hoursLogged, elapsedHours float64) Utilization {
	u := Utilization{
		HoursLogged:    hoursLogged,
		BudgetHours:    elapsedHours,
		AvailableHours: math.Max(elapsedHours-hoursLogged, 0),
		Overutilized:   hoursLogged > elapsedHours,
	}
	if elapsedHours > 0 {
		u.RawPercent = math.Max(hoursLogged/elapsedHours*100, 0)
		u.Percent = math.Min(u.RawPercent, 100)
	}
	return u
}

// Bandwidth is the task-completion proxy for freed capacity. It is never
// derived from hours.
type Bandwidth struct {
	Total             int
	Done              int
	Open              int
	CompletionPercent float64
	RemainingPercent  float64
}

func TaskCompletionBandwidth(c snapshot.StatusCounts) Bandwidth {
	b := Bandwidth{
		Total: max(c.Total, 0),
		Done:  max(c.Done, 0),
	}
	b.Open = max(b.Total-b.Done, 0)
	if b.Total == 0 {
		return b
	}
	b.CompletionPercent = Percent(b.Done, b.Total)
	b.RemainingPercent = Round1(100 - b.CompletionPercent)
	return b
}

func HoursPerDay(s *snapshot.Snapshot) int {
	if s != nil && s.HoursPerDay > 0 {
		return s.HoursPerDay
	}
	return snapshot.DefaultHoursPerDay
}

// WorkingHoursBudget returns the hours available in a period, preferring the
// document's own table.
func WorkingHoursBudget(p snapshot.PeriodKey, s *snapshot.Snapshot) float64 {
	if s != nil {
		if h, ok := s.WorkingHours[p]; ok && h > 0 {
			return h
		}
	}
	return DefaultWorkingHours[p]
}

// PeriodUtilization measures a member's period hours against the period budget.
func PeriodUtilization(m *snapshot.PeriodMetrics, p snapshot.PeriodKey, s *snapshot.Snapshot) Utilization {
	var logged float64
	if m != nil {
		logged = m.HoursLogged
	}
	return MemberUtilization(logged, WorkingHoursBudget(p, s))
}

// OverviewElapsedHours is the elapsed budget used by the leaderboards.
func OverviewElapsedHours(info *snapshot.SprintInfo, hoursPerDay int) float64 {
	if info == nil {
		return defaultOverviewElapsedHours
	}
	if info.ElapsedHours > 0 {
		return info.ElapsedHours
	}
	if h := float64(info.ElapsedWorkingDays * hoursPerDay); h > 0 {
		return h
	}
	return defaultOverviewElapsedHours
}

// SprintBudget is the hour budget the sprint panel measures against: hours
// elapsed so far for the running sprint, the whole sprint for the previous one.
func SprintBudget(info *snapshot.SprintInfo, v snapshot.SprintView, hoursPerDay int) float64 {
	if info == nil {
		return 0
	}
	if v == snapshot.SprintCurrent {
		return math.Max(info.ElapsedHours, 0)
	}
	if info.TotalHours > 0 {
		return info.TotalHours
	}
	if h := float64(info.WorkingDays * hoursPerDay); h > 0 {
		return h
	}
	return defaultPreviousSprintHours
}

// SprintDay is the 1-based working day of the sprint, 0 when unknown.
func SprintDay(info *snapshot.SprintInfo) int {
	if info == nil {
		return 0
	}
	if info.SprintDay > 0 {
		return info.SprintDay
	}
	return info.ElapsedWorkingDays
}

// MemberBandwidth pairs a roster member with both capacity measures for the
// current sprint.
type MemberBandwidth struct {
	Index       int
	Name        string
	Email       string
	Avatar      string
	Utilization Utilization
	Tasks       Bandwidth
}

func SprintBandwidth(members []snapshot.Member, elapsedHours float64) []MemberBandwidth {
	out := make([]MemberBandwidth, 0, len(members))
	for i := range members {
		m := &members[i]
		var logged float64
		var counts snapshot.StatusCounts
		if sm := m.SprintMetrics.Current; sm != nil {
			logged = sm.HoursLogged
			counts = sm.StatusCounts
		}
		out = append(out, MemberBandwidth{
			Index:       i,
			Name:        m.Name,
			Email:       m.Email,
			Avatar:      m.Avatar,
			Utilization: MemberUtilization(logged, elapsedHours),
			Tasks:       TaskCompletionBandwidth(counts),
		})
	}
	return out
}
