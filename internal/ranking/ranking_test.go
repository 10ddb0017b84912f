package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/priYanshURaj-ai/performance-dashboard/internal/metrics"
	"github.com/priYanshURaj-ai/performance-dashboard/internal/snapshot"
)

func member(name, email string, total, done int, hours float64) snapshot.Member {
	return snapshot.Member{
		Name:  name,
		Email: email,
		Metrics: map[snapshot.PeriodKey]*snapshot.PeriodMetrics{
			snapshot.Period7Days: {
				StatusCounts: snapshot.StatusCounts{Total: total, Done: done},
				HoursLogged:  hours,
			},
		},
	}
}

func names(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Member.Name)
	}
	return out
}

func TestFilter(t *testing.T) {
	members := []snapshot.Member{
		member("Alice Smith", "alice@example.com", 1, 0, 0),
		member("Bob Jones", "bob@corp.io", 1, 0, 0),
		member("Carol", "carol@EXAMPLE.com", 1, 0, 0),
	}

	got := Filter(members, "  Example ")
	assert.Equal(t, []string{"Alice Smith", "Carol"}, names(got))
	assert.Equal(t, 0, got[0].Index)
	assert.Equal(t, 2, got[1].Index)

	assert.Len(t, Filter(members, ""), 3)
	assert.Equal(t, []string{"Bob Jones"}, names(Filter(members, "JONES")))
	assert.Empty(t, Filter(members, "zed"))
}

func TestSortMembers_NameIgnoresCase(t *testing.T) {
	members := []snapshot.Member{
		member("bob", "b", 0, 0, 0),
		member("Alice", "a", 0, 0, 0),
		member("carol", "c", 0, 0, 0),
	}
	entries := Filter(members, "")

	asc := SortMembers(entries, snapshot.Period7Days, SortConfig{Column: ColumnName, Direction: Asc})
	assert.Equal(t, []string{"Alice", "bob", "carol"}, names(asc))

	desc := SortMembers(entries, snapshot.Period7Days, SortConfig{Column: ColumnName, Direction: Desc})
	assert.Equal(t, []string{"carol", "bob", "Alice"}, names(desc))

	assert.Equal(t, []string{"bob", "Alice", "carol"}, names(entries), "input must not be reordered")
}

func TestSortMembers_StableOnTies(t *testing.T) {
	members := []snapshot.Member{
		member("First", "1", 5, 0, 0),
		member("Second", "2", 7, 0, 0),
		member("Third", "3", 5, 0, 0),
		{Name: "NoData", Email: "4"},
	}

	got := SortMembers(Filter(members, ""), snapshot.Period7Days, DefaultSort())
	assert.Equal(t, []string{"Second", "First", "Third", "NoData"}, names(got))

	got = SortMembers(Filter(members, ""), snapshot.Period7Days, SortConfig{Column: ColumnTotal, Direction: Asc})
	assert.Equal(t, []string{"NoData", "First", "Third", "Second"}, names(got))
}

func TestColumnValue(t *testing.T) {
	m := member("A", "a", 4, 3, 12.5)
	assert.Equal(t, 4.0, ColumnValue(&m, snapshot.Period7Days, ColumnTotal))
	assert.Equal(t, 3.0, ColumnValue(&m, snapshot.Period7Days, ColumnDone))
	assert.Equal(t, 12.5, ColumnValue(&m, snapshot.Period7Days, ColumnBandwidth))
	assert.Equal(t, 12.5, ColumnValue(&m, snapshot.Period7Days, ColumnHoursLogged))
	assert.Zero(t, ColumnValue(&m, snapshot.Period7Days, "nope"))
	assert.Zero(t, ColumnValue(&m, snapshot.Period30Days, ColumnTotal))
}

func bandwidth(name string, logged, budget float64, total, done int) metrics.MemberBandwidth {
	return metrics.MemberBandwidth{
		Name:        name,
		Utilization: metrics.MemberUtilization(logged, budget),
		Tasks:       metrics.TaskCompletionBandwidth(snapshot.StatusCounts{Total: total, Done: done}),
	}
}

func TestTopByUtilization(t *testing.T) {
	members := []metrics.MemberBandwidth{
		bandwidth("idle", 0, 30, 5, 0),
		bandwidth("half", 15, 30, 5, 0),
		bandwidth("over", 40, 30, 5, 0),
		bandwidth("full", 30, 30, 5, 0),
	}

	got := TopByUtilization(members, 3)
	require.Len(t, got, 3)
	assert.Equal(t, "over", got[0].Name)
	assert.Equal(t, "full", got[1].Name)
	assert.Equal(t, "half", got[2].Name)

	assert.Len(t, TopByUtilization(members, 10), 3, "members without hours are excluded")
}

func TestTopByAvailability(t *testing.T) {
	members := []metrics.MemberBandwidth{
		bandwidth("busy", 0, 30, 10, 1),
		bandwidth("empty", 0, 30, 0, 0),
		bandwidth("free", 0, 30, 10, 9),
	}

	got := TopByAvailability(members, 3)
	require.Len(t, got, 2)
	assert.Equal(t, "free", got[0].Name)
	assert.Equal(t, 90.0, got[0].Tasks.CompletionPercent)
	assert.Equal(t, "busy", got[1].Name)
}

func TestTopPerformers(t *testing.T) {
	members := []snapshot.Member{
		member("A", "a", 10, 2, 0),
		member("B", "b", 10, 8, 0),
		member("C", "c", 10, 5, 0),
	}

	got := TopPerformers(members, snapshot.Period7Days, 2)
	assert.Equal(t, []string{"B", "C"}, names(got))
	assert.Equal(t, 1, got[0].Index)
}

func TestDirectionToggle(t *testing.T) {
	assert.Equal(t, Asc, Desc.Toggle())
	assert.Equal(t, Desc, Asc.Toggle())
}
