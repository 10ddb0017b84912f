package view

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/priYanshURaj-ai/performance-dashboard/internal/metrics"
	"github.com/priYanshURaj-ai/performance-dashboard/internal/ranking"
	"github.com/priYanshURaj-ai/performance-dashboard/internal/snapshot"
)

const (
	awaitingSprintText = "Run the sync workflow to load sprint data"
	noMembersText      = "No team members found"
	maxTicketTier      = 4
)

type Options struct {
	LeaderboardSize int
	TopPerformers   int
	Location        *time.Location
}

func (o Options) withDefaults() Options {
	if o.LeaderboardSize <= 0 {
		o.LeaderboardSize = ranking.DefaultLeaderboardSize
	}
	if o.TopPerformers <= 0 {
		o.TopPerformers = 5
	}
	if o.Location == nil {
		o.Location = time.Local
	}
	return o
}

// Project builds the full render model for a snapshot and a view state.
func Project(s *snapshot.Snapshot, st ViewState, opts Options) RenderModel {
	opts = opts.withDefaults()
	board := ResolveBoard(s, st.BoardID)
	return RenderModel{
		Header:   ProjectHeader(s, board, st, opts),
		Boards:   ProjectBoards(s, st),
		Overview: ProjectOverview(s, board, opts),
		Summary:  ProjectSummary(board, st),
		Table:    ProjectTable(board, st),
		Charts:   ProjectCharts(board, st, opts),
		Modal:    ProjectModal(s, board, st),
	}
}

func ProjectHeader(s *snapshot.Snapshot, b Board, st ViewState, opts Options) Header {
	h := Header{BoardName: b.DisplayName(), PeriodLabel: st.Period.Label()}
	if s == nil {
		return h
	}
	if t, ok := s.UpdatedAt(); ok {
		h.LastUpdated = formatDateTime(t, opts.withDefaults().Location)
	}
	if p, ok := s.Periods[st.Period]; ok {
		if p.Label != "" {
			h.PeriodLabel = p.Label
		}
		h.PeriodRange = dateRange(p.StartDate, p.EndDate)
	}
	return h
}

func ProjectBoards(s *snapshot.Snapshot, st ViewState) BoardSelector {
	var sel BoardSelector
	if s == nil {
		return sel
	}
	for _, b := range s.AvailableBoards {
		sel.Options = append(sel.Options, BoardOption{ID: b.ID, Name: b.Name, Selected: b.ID == st.BoardID})
	}
	if len(sel.Options) == 0 {
		name := defaultBoardName
		if s.BoardInfo != nil && s.BoardInfo.Name != "" {
			name = s.BoardInfo.Name
		}
		sel.Options = []BoardOption{{ID: "default", Name: name, Selected: true}}
	}
	return sel
}

// ProjectOverview builds the leadership leaderboards from the running sprint.
func ProjectOverview(s *snapshot.Snapshot, b Board, opts Options) Overview {
	opts = opts.withDefaults()
	if s == nil || s.Sprints == nil || s.Sprints.Current == nil {
		return Overview{
			Awaiting:       true,
			SprintName:     "Awaiting Data...",
			SprintDay:      "--",
			HighEmpty:      awaitingSprintText,
			AvailableEmpty: awaitingSprintText,
		}
	}

	cur := s.Sprints.Current
	ov := Overview{
		SprintName:     cur.Label,
		SprintDay:      fmt.Sprintf("Day %s of %s", intOr(metrics.SprintDay(cur), "--"), intOr(cur.WorkingDays, "--")),
		HighEmpty:      "No hours logged yet",
		AvailableEmpty: "No tasks assigned",
	}
	if ov.SprintName == "" {
		ov.SprintName = "Current Sprint"
	}

	elapsed := metrics.OverviewElapsedHours(cur, metrics.HoursPerDay(s))
	bw := metrics.SprintBandwidth(b.Members, elapsed)

	for i, m := range ranking.TopByUtilization(bw, opts.LeaderboardSize) {
		ov.HighUtilization = append(ov.HighUtilization, LeaderEntry{
			Rank:    i + 1,
			Index:   m.Index,
			Name:    m.Name,
			Avatar:  m.Avatar,
			Percent: metrics.Round1(m.Utilization.RawPercent),
			BarFill: m.Utilization.Percent,
			Detail:  hours(m.Utilization.HoursLogged) + " / " + hours(m.Utilization.BudgetHours),
		})
	}
	for i, m := range ranking.TopByAvailability(bw, opts.LeaderboardSize) {
		ov.MostAvailable = append(ov.MostAvailable, LeaderEntry{
			Rank:    i + 1,
			Index:   m.Index,
			Name:    m.Name,
			Avatar:  m.Avatar,
			Percent: m.Tasks.CompletionPercent,
			BarFill: m.Tasks.CompletionPercent,
			Detail:  fmt.Sprintf("%d/%d done", m.Tasks.Done, m.Tasks.Total),
		})
	}
	return ov
}

func ProjectSummary(b Board, st ViewState) Summary {
	bd, ok := metrics.TeamStatusBreakdown(b.TeamSummary, st.Period)
	if !ok {
		return Summary{Awaiting: true}
	}
	return Summary{StatusBreakdown: bd}
}

// ProjectTable filters by the search term, then sorts.
func ProjectTable(b Board, st ViewState) Table {
	t := Table{Sort: st.Sort}
	entries := ranking.SortMembers(ranking.Filter(b.Members, st.SearchTerm), st.Period, st.Sort)
	for _, e := range entries {
		t.Rows = append(t.Rows, projectRow(e, st.Period))
	}
	if len(t.Rows) == 0 {
		t.Empty = noMembersText
	}
	return t
}

func projectRow(e ranking.Entry, p snapshot.PeriodKey) Row {
	m := e.Member
	r := Row{Index: e.Index, Name: m.Name, Email: m.Email, Avatar: m.Avatar}
	pm := m.PeriodMetrics(p)
	if pm == nil {
		r.NoData = true
		r.ProgressLabel = "No data"
		return r
	}

	bd := metrics.Breakdown(pm.StatusCounts)
	r.Counts = pm.StatusCounts
	r.EstimatedHours = pm.EstimatedHours
	r.HoursLogged = pm.HoursLogged
	r.Segments = Segments{
		Done:       bd.DonePercent,
		InProgress: bd.InProgressPercent,
		UAT:        bd.UATPercent,
		ToDo:       bd.ToDoPercent,
	}
	if pm.Total > 0 {
		r.ProgressLabel = fmt.Sprintf("%.0f%% complete", bd.DonePercent)
	} else {
		r.ProgressLabel = "No tasks"
	}
	return r
}

func ProjectCharts(b Board, st ViewState, opts Options) Charts {
	opts = opts.withDefaults()
	var ch Charts

	ch.Status.Labels = []string{"Done", "In Progress", "UAT", "To Do"}
	if bd, ok := metrics.TeamStatusBreakdown(b.TeamSummary, st.Period); ok {
		ch.Status.Values = []int{bd.Done, bd.InProgress, bd.UAT, bd.ToDo}
		ch.Status.Percents = sharePercents(ch.Status.Values)
	} else {
		ch.Status.Awaiting = true
	}

	ch.TopPerformers.Label = "Tasks Done"
	for _, e := range ranking.TopPerformers(b.Members, st.Period, opts.TopPerformers) {
		ch.TopPerformers.Labels = append(ch.TopPerformers.Labels, firstName(e.Member.Name))
		ch.TopPerformers.Values = append(ch.TopPerformers.Values, int(ranking.ColumnValue(e.Member, st.Period, ranking.ColumnDone)))
	}

	var counts snapshot.StatusCounts
	if ts := b.TeamSummary[st.Period]; ts != nil {
		counts = ts.StatusCounts
	}
	active := 0
	for i := range b.Members {
		if pm := b.Members[i].PeriodMetrics(st.Period); pm != nil && pm.Total > 0 {
			active++
		}
	}
	ch.Trend = SyntheticTrend(counts, active)
	return ch
}

// sharePercents is each value's share of the series sum, so slices always add
// up even when the counts disagree with the stored total.
func sharePercents(values []int) []float64 {
	sum := 0
	for _, v := range values {
		sum += max(v, 0)
	}
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = metrics.Percent(v, sum)
	}
	return out
}

func ProjectModal(s *snapshot.Snapshot, b Board, st ViewState) *Modal {
	if !st.ModalOpen || st.SelectedKey == "" {
		return nil
	}
	idx := snapshot.IndexOfMember(b.Members, st.SelectedKey)
	if idx < 0 {
		return nil
	}
	m := &b.Members[idx]

	md := &Modal{
		Index:       idx,
		Name:        m.Name,
		Email:       m.Email,
		Avatar:      m.Avatar,
		PeriodLabel: st.Period.Label(),
		Sprint:      ProjectSprintPanel(s, m, st.SprintView),
	}

	pm := m.PeriodMetrics(st.Period)
	if pm == nil {
		md.NoData = true
		return md
	}

	u := metrics.PeriodUtilization(pm, st.Period, s)
	md.Utilization = u
	md.BarFill = u.Percent
	md.LoggedText = hours(u.HoursLogged) + " logged"
	md.BudgetText = "of " + hours(u.BudgetHours) + " available"
	md.PercentText = percentText(u.Percent)
	md.AvailableText = availableText(u)
	md.Counts = pm.StatusCounts

	md.Tickets = ticketLines(pm.TopIssues, 0)
	if len(md.Tickets) == 0 {
		md.TicketsEmpty = "No time logged on tickets in this period"
	}
	return md
}

// ProjectSprintPanel builds the per-member sprint section of the modal.
func ProjectSprintPanel(s *snapshot.Snapshot, m *snapshot.Member, v snapshot.SprintView) SprintPanel {
	p := SprintPanel{View: v}
	if s == nil || s.Sprints == nil {
		p.State = SprintAwaitingData
		p.Name = "Awaiting Data..."
		p.Dates = "Run the sync workflow"
		p.Days = "--"
		p.LoggedText = "0h logged"
		p.BudgetText = "of --h available"
		p.PercentText = "0%"
		p.AvailableText = "--"
		p.TicketsEmpty = awaitingSprintText
		return p
	}

	info := s.Sprints.For(v)
	if info == nil {
		p.State = SprintMissing
		p.Name = "No Sprint Data"
		p.Dates = "--"
		p.Days = "--"
		return p
	}

	p.Name = info.DisplayLabel()
	p.Dates = dateRange(info.StartDate, info.EndDate)

	sm := m.SprintMetrics.For(v)
	var logged float64
	if sm != nil {
		logged = sm.HoursLogged
		p.Tasks = sm.StatusCounts
	}

	hpd := metrics.HoursPerDay(s)
	budget := metrics.SprintBudget(info, v, hpd)
	u := metrics.MemberUtilization(logged, budget)

	if v == snapshot.SprintCurrent {
		day := metrics.SprintDay(info)
		if day <= 0 {
			day = 1
		}
		workingDays := info.WorkingDays
		if workingDays <= 0 {
			workingDays = 10
		}
		p.Days = fmt.Sprintf("Day %d of %d", day, workingDays)
		p.BudgetText = fmt.Sprintf("of %s available (%d days × %dh)", hours(budget), day, hpd)
	} else {
		p.Days = fmt.Sprintf("%d working days (completed)", info.WorkingDays)
		p.BudgetText = "of " + hours(budget) + " total"
	}
	p.BarFill = u.Percent
	p.Overutilized = u.Overutilized
	p.LoggedText = hours(logged) + " logged"
	p.PercentText = percentText(u.Percent)
	p.AvailableText = availableText(u)

	issues := append([]snapshot.Ticket(nil), sm.Issues()...)
	sort.SliceStable(issues, func(i, j int) bool { return issues[i].Hours > issues[j].Hours })
	p.Tickets = ticketLines(issues, maxTicketTier)
	if len(p.Tickets) == 0 {
		p.TicketsEmpty = "No tasks assigned in this sprint period"
	}
	return p
}

// ticketLines numbers tickets from 1. Tier follows the rank up to tierCap and
// stays there for the rest; a zero tierCap leaves every tier equal to its rank.
func ticketLines(tickets []snapshot.Ticket, tierCap int) []TicketLine {
	out := make([]TicketLine, 0, len(tickets))
	for i, t := range tickets {
		rank := i + 1
		tier := rank
		if tierCap > 0 {
			tier = min(tier, tierCap)
		}
		summary := t.Summary
		if summary == "" {
			summary = "No summary"
		}
		out = append(out, TicketLine{
			Rank:        rank,
			Tier:        tier,
			Key:         t.Key,
			Summary:     summary,
			Hours:       t.Hours,
			Status:      t.Status,
			StatusLabel: statusLabel(t.Status, t.StatusName),
		})
	}
	return out
}

func firstName(name string) string {
	if f := strings.Fields(name); len(f) > 0 {
		return f[0]
	}
	return name
}

func intOr(v int, fallback string) string {
	if v > 0 {
		return fmt.Sprint(v)
	}
	return fallback
}
