package snapshot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_SkipsMistypedFields(t *testing.T) {
	data := []byte(`{
		"lastUpdated": "2025-01-02T03:04:05Z",
		"hoursPerDay": "six",
		"members": [{"name": "Alice", "email": "a@x.io", "metrics": {"7days": {"total": "ten", "done": 3}}}],
		"teamSummary": {"7days": {"total": 12, "done": 4}},
		"sprints": {"current": {"label": "S1", "number": "7", "elapsedHours": 18}}
	}`)

	s, err := Decode(data)
	require.NoError(t, err)

	assert.Equal(t, "2025-01-02T03:04:05Z", s.LastUpdated)
	assert.Equal(t, 0, s.HoursPerDay)
	require.Len(t, s.Members, 1)
	pm := s.Members[0].PeriodMetrics(Period7Days)
	require.NotNil(t, pm)
	assert.Equal(t, 0, pm.Total)
	assert.Equal(t, 3, pm.Done)
	assert.Equal(t, 12, s.TeamSummary[Period7Days].Total)
	assert.Equal(t, 18.0, s.Sprints.Current.ElapsedHours)
}

func TestDecode_RejectsNonObjects(t *testing.T) {
	for _, in := range []string{``, `   `, `[]`, `"text"`, `42`, `null`, `{"members": [`} {
		_, err := Decode([]byte(in))
		assert.ErrorIs(t, err, ErrMalformedDocument, "input %q", in)
	}
}

func TestSprintInfo_DisplayLabel(t *testing.T) {
	assert.Equal(t, "Jan Sprint 1", (&SprintInfo{Label: "Jan Sprint 1", Month: "Feb"}).DisplayLabel())
	assert.Equal(t, "Dec Sprint 2", (&SprintInfo{Month: "Dec", Number: 2}).DisplayLabel())

	s, err := Decode([]byte(`{"sprints": {"previous": {"month": "Dec", "number": "2b"}}}`))
	require.NoError(t, err)
	assert.Equal(t, "Dec Sprint 2b", s.Sprints.Previous.DisplayLabel())
}

func TestSnapshot_UpdatedAt(t *testing.T) {
	s := &Snapshot{LastUpdated: "2025-01-02T03:04:05.123Z"}
	got, ok := s.UpdatedAt()
	require.True(t, ok)
	assert.Equal(t, 2025, got.Year())

	_, ok = (&Snapshot{LastUpdated: "yesterday"}).UpdatedAt()
	assert.False(t, ok)

	var nilSnap *Snapshot
	_, ok = nilSnap.UpdatedAt()
	assert.False(t, ok)
}

func TestSnapshot_InitialBoardID(t *testing.T) {
	assert.Equal(t, "combined", (&Snapshot{}).InitialBoardID())
	assert.Equal(t, "alpha", (&Snapshot{DefaultBoardID: "alpha"}).InitialBoardID())
	assert.Equal(t, "beta", (&Snapshot{DefaultBoardID: "alpha", SelectedBoardID: "beta"}).InitialBoardID())
}

func TestIndexOfMember(t *testing.T) {
	members := []Member{{Email: "a@x.io"}, {Email: "b@x.io"}}
	assert.Equal(t, 1, IndexOfMember(members, "b@x.io"))
	assert.Equal(t, -1, IndexOfMember(members, "c@x.io"))
	assert.Equal(t, -1, IndexOfMember(members, ""))
}

func TestSprintMetrics_Issues(t *testing.T) {
	var nilMetrics *SprintMetrics
	assert.Nil(t, nilMetrics.Issues())

	top := []Ticket{{Key: "T-1"}}
	assert.Equal(t, top, (&SprintMetrics{TopIssues: top}).Issues())

	all := []Ticket{{Key: "A-1"}, {Key: "A-2"}}
	assert.Equal(t, all, (&SprintMetrics{AllIssues: all, TopIssues: top}).Issues())
}

func TestEmpty(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	s := Empty(now)

	assert.Equal(t, "2.0", s.Version)
	assert.Equal(t, "2025-03-10T12:00:00Z", s.LastUpdated)
	assert.Equal(t, DefaultHoursPerDay, s.HoursPerDay)
	assert.NotNil(t, s.Members)
	assert.Empty(t, s.Members)
	assert.Nil(t, s.Sprints)

	assert.Equal(t, 30.0, s.WorkingHours[Period7Days])
	assert.Equal(t, 66.0, s.WorkingHours[Period15Days])
	assert.Equal(t, 132.0, s.WorkingHours[Period30Days])

	assert.Equal(t, Period{Label: "Last 7 Days", StartDate: "2025-03-03", EndDate: "2025-03-10"}, s.Periods[Period7Days])
	assert.Equal(t, "2025-02-08", s.Periods[Period30Days].StartDate)
	for _, p := range Periods {
		require.NotNil(t, s.TeamSummary[p])
		assert.Zero(t, s.TeamSummary[p].Total)
	}

	assert.Equal(t, EmptyBoardID, s.InitialBoardID())
	require.Len(t, s.AvailableBoards, 1)
	assert.Equal(t, EmptyBoardName, s.AvailableBoards[0].Name)
	assert.Equal(t, EmptyBoardName, s.BoardInfo.Name)
}

func TestPeriodKey(t *testing.T) {
	assert.True(t, Period15Days.Valid())
	assert.False(t, PeriodKey("90days").Valid())
	assert.Equal(t, "Last 30 Days", Period30Days.Label())
	assert.Equal(t, 15, Period15Days.Days())
	assert.True(t, SprintPrevious.Valid())
	assert.False(t, SprintView("next").Valid())
}
