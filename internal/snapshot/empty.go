package snapshot

import "time"

const (
	DefaultHoursPerDay = 6
	EmptyBoardID       = "default"
	EmptyBoardName     = "Waiting for Data..."
)

// Empty builds the "no data yet" document shown when no source could be read.
func Empty(now time.Time) *Snapshot {
	day := func(daysAgo int) string {
		return now.AddDate(0, 0, -daysAgo).Format(time.DateOnly)
	}

	periods := make(map[PeriodKey]Period, len(Periods))
	summary := make(map[PeriodKey]*TeamSummary, len(Periods))
	for _, p := range Periods {
		periods[p] = Period{Label: p.Label(), StartDate: day(p.Days()), EndDate: day(0)}
		summary[p] = &TeamSummary{}
	}

	return &Snapshot{
		LastUpdated: now.UTC().Format(time.RFC3339),
		Version:     "2.0",
		HoursPerDay: DefaultHoursPerDay,
		WorkingHours: map[PeriodKey]float64{
			Period7Days:  30,
			Period15Days: 66,
			Period30Days: 132,
		},
		Periods:     periods,
		TeamSummary: summary,
		Members:     []Member{},
		AvailableBoards: []BoardRef{
			{ID: EmptyBoardID, Name: EmptyBoardName, Project: "--", Components: []string{}},
		},
		DefaultBoardID: EmptyBoardID,
		BoardInfo:      &BoardInfo{Name: EmptyBoardName, Project: "--", Components: []string{}},
	}
}
