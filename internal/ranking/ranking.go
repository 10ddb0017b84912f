// Package ranking orders and filters roster members for the table and leaderboards.
package ranking

import (
	"sort"
	"strings"

	"github.com/priYanshURaj-ai/performance-dashboard/internal/metrics"
	"github.com/priYanshURaj-ai/performance-dashboard/internal/snapshot"
)

const DefaultLeaderboardSize = 3

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

func (d Direction) Toggle() Direction {
	if d == Asc {
		return Desc
	}
	return Asc
}

const (
	ColumnName           = "name"
	ColumnTotal          = "total"
	ColumnBandwidth      = "bandwidth"
	ColumnDone           = "done"
	ColumnInProgress     = "inProgress"
	ColumnUAT            = "uat"
	ColumnToDo           = "toDo"
	ColumnEstimatedHours = "estimatedHours"
	ColumnHoursLogged    = "hoursLogged"
)

// Columns lists the sortable table columns in header order.
var Columns = []string{
	ColumnName, ColumnTotal, ColumnBandwidth, ColumnDone, ColumnInProgress, ColumnUAT, ColumnToDo,
}

type SortConfig struct {
	Column    string
	Direction Direction
}

func DefaultSort() SortConfig {
	return SortConfig{Column: ColumnTotal, Direction: Desc}
}

// Entry is a roster member tagged with its position in the unfiltered roster.
type Entry struct {
	Index  int
	Member *snapshot.Member
}

// Filter keeps members whose name or email contains term, case-insensitively.
func Filter(members []snapshot.Member, term string) []Entry {
	term = strings.ToLower(strings.TrimSpace(term))
	out := make([]Entry, 0, len(members))
	for i := range members {
		m := &members[i]
		if term == "" ||
			strings.Contains(strings.ToLower(m.Name), term) ||
			strings.Contains(strings.ToLower(m.Email), term) {
			out = append(out, Entry{Index: i, Member: m})
		}
	}
	return out
}

// ColumnValue resolves a numeric column against a member's period metrics.
// Missing metrics and unknown columns read as 0.
func ColumnValue(m *snapshot.Member, p snapshot.PeriodKey, column string) float64 {
	pm := m.PeriodMetrics(p)
	if pm == nil {
		return 0
	}
	switch column {
	case ColumnTotal:
		return float64(pm.Total)
	case ColumnDone:
		return float64(pm.Done)
	case ColumnInProgress:
		return float64(pm.InProgress)
	case ColumnUAT:
		return float64(pm.UAT)
	case ColumnToDo:
		return float64(pm.ToDo)
	case ColumnBandwidth, ColumnHoursLogged:
		return pm.HoursLogged
	case ColumnEstimatedHours:
		return pm.EstimatedHours
	case "estimatedDone":
		return pm.EstimatedDone
	case "loggedDone":
		return pm.LoggedDone
	default:
		return 0
	}
}

// SortMembers returns a new slice ordered by cfg. Entries that compare equal
// keep their input order.
func SortMembers(entries []Entry, p snapshot.PeriodKey, cfg SortConfig) []Entry {
	out := append([]Entry(nil), entries...)

	less := func(i, j int) bool {
		a, b := out[i].Member, out[j].Member
		if cfg.Column == ColumnName {
			an, bn := strings.ToLower(a.Name), strings.ToLower(b.Name)
			if cfg.Direction == Asc {
				return an < bn
			}
			return an > bn
		}
		av, bv := ColumnValue(a, p, cfg.Column), ColumnValue(b, p, cfg.Column)
		if cfg.Direction == Asc {
			return av < bv
		}
		return av > bv
	}

	sort.SliceStable(out, less)
	return out
}

// TopByUtilization ranks members who logged hours by unclamped utilization.
func TopByUtilization(members []metrics.MemberBandwidth, n int) []metrics.MemberBandwidth {
	out := make([]metrics.MemberBandwidth, 0, len(members))
	for _, m := range members {
		if m.Utilization.HoursLogged > 0 {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Utilization.RawPercent > out[j].Utilization.RawPercent
	})
	return head(out, n)
}

// TopByAvailability ranks members with tasks by the share of tasks they have
// completed. "Most available" means most work finished, not fewest tasks open.
func TopByAvailability(members []metrics.MemberBandwidth, n int) []metrics.MemberBandwidth {
	out := make([]metrics.MemberBandwidth, 0, len(members))
	for _, m := range members {
		if m.Tasks.Total > 0 {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Tasks.CompletionPercent > out[j].Tasks.CompletionPercent
	})
	return head(out, n)
}

// TopPerformers ranks the roster by tasks done in the period.
func TopPerformers(members []snapshot.Member, p snapshot.PeriodKey, n int) []Entry {
	sorted := SortMembers(Filter(members, ""), p, SortConfig{Column: ColumnDone, Direction: Desc})
	return head(sorted, n)
}

func head[T any](s []T, n int) []T {
	if n >= 0 && len(s) > n {
		return s[:n]
	}
	return s
}
