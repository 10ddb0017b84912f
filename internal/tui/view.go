package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/priYanshURaj-ai/performance-dashboard/internal/ranking"
	"github.com/priYanshURaj-ai/performance-dashboard/internal/view"
)

const (
	nameWidth = 24
	barWidth  = 20
)

func renderHeader(h view.Header) string {
	var b strings.Builder
	title := fmt.Sprintf("📊 %s │ %s", h.BoardName, h.PeriodLabel)
	if h.PeriodRange != "" {
		title += " (" + h.PeriodRange + ")"
	}
	b.WriteString(headerStyle.Render(title))
	b.WriteString("\n")

	updated := h.LastUpdated
	if updated == "" {
		updated = "--"
	}
	b.WriteString(footerStyle.UnsetMarginTop().Render(" Last updated: " + updated))
	return b.String()
}

func renderBoards(bs view.BoardSelector) string {
	if len(bs.Options) <= 1 {
		return ""
	}
	parts := make([]string, 0, len(bs.Options))
	for _, o := range bs.Options {
		if o.Selected {
			parts = append(parts, activeBoardStyle.Render(o.Name))
		} else {
			parts = append(parts, boardStyle.Render(o.Name))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func renderOverview(o view.Overview) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render(fmt.Sprintf("🏃 %s │ %s", o.SprintName, o.SprintDay)))
	b.WriteString("\n")

	b.WriteString(" High utilization\n")
	b.WriteString(renderLeaders(o.HighUtilization, o.HighEmpty, colorUAT))
	b.WriteString(" Most available\n")
	b.WriteString(renderLeaders(o.MostAvailable, o.AvailableEmpty, colorDone))
	return strings.TrimRight(b.String(), "\n")
}

func renderLeaders(entries []view.LeaderEntry, empty string, color lipgloss.Color) string {
	if len(entries) == 0 {
		return emptyStyle.Render("   "+empty) + "\n"
	}
	var b strings.Builder
	for _, e := range entries {
		fill := color
		if e.Percent > 100 {
			fill = colorOver
		}
		fmt.Fprintf(&b, "   %d. %s %s %5.1f%%  %s\n",
			e.Rank, pad(e.Name, nameWidth), bar(e.BarFill, barWidth, fill), e.Percent, e.Detail)
	}
	return b.String()
}

func renderSummary(s view.Summary) string {
	if s.Awaiting {
		return sectionStyle.Render("📋 Team summary") + "\n" + emptyStyle.Render("   Awaiting data...")
	}
	cells := []string{
		fmt.Sprintf("Total %d", s.Total),
		lipgloss.NewStyle().Foreground(colorDone).Render(fmt.Sprintf("Done %d (%.1f%%)", s.Done, s.DonePercent)),
		lipgloss.NewStyle().Foreground(colorInProgress).Render(fmt.Sprintf("In Progress %d (%.1f%%)", s.InProgress, s.InProgressPercent)),
		lipgloss.NewStyle().Foreground(colorUAT).Render(fmt.Sprintf("UAT %d (%.1f%%)", s.UAT, s.UATPercent)),
		lipgloss.NewStyle().Foreground(colorToDo).Render(fmt.Sprintf("To Do %d (%.1f%%)", s.ToDo, s.ToDoPercent)),
	}
	return sectionStyle.Render("📋 Team summary") + "\n   " + strings.Join(cells, " │ ")
}

var columnTitles = map[string]string{
	ranking.ColumnName:       "Member",
	ranking.ColumnTotal:      "Total",
	ranking.ColumnBandwidth:  "Logged",
	ranking.ColumnDone:       "Done",
	ranking.ColumnInProgress: "InProg",
	ranking.ColumnUAT:        "UAT",
	ranking.ColumnToDo:       "ToDo",
}

func renderTable(t view.Table, cursor int, search string) string {
	var b strings.Builder
	title := "👥 Team members"
	if search != "" {
		title += fmt.Sprintf(" (filter: %q)", search)
	}
	b.WriteString(sectionStyle.Render(title))
	b.WriteString("\n")

	b.WriteString(tableHeaderStyle.Render(tableHeader(t.Sort)))
	b.WriteString("\n")

	if len(t.Rows) == 0 {
		b.WriteString(emptyStyle.Render("   " + t.Empty))
		return b.String()
	}

	for i, r := range t.Rows {
		line := renderRow(r)
		if i == cursor {
			b.WriteString(selectedRowStyle.Render("▸" + line))
		} else {
			b.WriteString(rowStyle.Render(" " + line))
		}
		if i < len(t.Rows)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func tableHeader(sc ranking.SortConfig) string {
	arrow := "↓"
	if sc.Direction == ranking.Asc {
		arrow = "↑"
	}
	title := func(col string, width int) string {
		s := columnTitles[col]
		if sc.Column == col {
			s += arrow
		}
		return pad(s, width)
	}
	return " " + title(ranking.ColumnName, nameWidth) + " " +
		title(ranking.ColumnTotal, 6) + " " +
		title(ranking.ColumnDone, 6) + " " +
		title(ranking.ColumnInProgress, 7) + " " +
		title(ranking.ColumnUAT, 5) + " " +
		title(ranking.ColumnToDo, 6) + " " +
		title(ranking.ColumnBandwidth, 8) + " " +
		pad("Progress", barWidth+14)
}

func renderRow(r view.Row) string {
	if r.NoData {
		return pad(r.Name, nameWidth) + " " + emptyStyle.Render(r.ProgressLabel)
	}
	return fmt.Sprintf("%s %-6d %-6d %-7d %-5d %-6d %-8s %s %s",
		pad(r.Name, nameWidth),
		r.Counts.Total, r.Counts.Done, r.Counts.InProgress, r.Counts.UAT, r.Counts.ToDo,
		fmt.Sprintf("%.1fh", r.HoursLogged),
		segmentBar(r.Segments, barWidth),
		r.ProgressLabel)
}

func renderCharts(c view.Charts) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("📈 Status distribution"))
	b.WriteString("\n")
	if c.Status.Awaiting {
		b.WriteString(emptyStyle.Render("   Awaiting data..."))
	} else {
		statuses := []string{"done", "inProgress", "uat", "toDo"}
		for i, label := range c.Status.Labels {
			fmt.Fprintf(&b, "   %-12s %s %3d (%.1f%%)\n",
				label, bar(c.Status.Percents[i], barWidth, statusColor(statuses[i])), c.Status.Values[i], c.Status.Percents[i])
		}
	}

	b.WriteString(sectionStyle.Render("🏆 Top performers (" + c.TopPerformers.Label + ")"))
	b.WriteString("\n")
	if len(c.TopPerformers.Values) == 0 {
		b.WriteString(emptyStyle.Render("   " + "No tasks completed yet"))
		b.WriteString("\n")
	}
	top := 0
	for _, v := range c.TopPerformers.Values {
		top = max(top, v)
	}
	for i, v := range c.TopPerformers.Values {
		fill := 0.0
		if top > 0 {
			fill = float64(v) / float64(top) * 100
		}
		fmt.Fprintf(&b, "   %s %s %d\n", pad(c.TopPerformers.Labels[i], 12), bar(fill, barWidth, colorDone), v)
	}

	title := "📉 Activity trend"
	if c.Trend.Synthetic {
		title += " (illustrative)"
	}
	b.WriteString(sectionStyle.Render(title))
	b.WriteString("\n")
	b.WriteString("   " + pad("", 16))
	for _, l := range c.Trend.Labels {
		b.WriteString(pad(l, 4))
	}
	for _, s := range c.Trend.Series {
		b.WriteString("\n   " + pad(s.Name, 16))
		for _, v := range s.Values {
			b.WriteString(pad(fmt.Sprint(v), 4))
		}
	}
	return b.String()
}

func renderModal(m *view.Modal) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(m.Name))
	b.WriteString("\n")
	b.WriteString(" " + m.Email + "\n")

	b.WriteString(sectionStyle.Render("⏱ Utilization (" + m.PeriodLabel + ")"))
	b.WriteString("\n")
	if m.NoData {
		b.WriteString(emptyStyle.Render("   No data for this period"))
		b.WriteString("\n")
	} else {
		fill := colorDone
		if m.Utilization.Overutilized {
			fill = colorOver
		}
		fmt.Fprintf(&b, "   %s %s\n", bar(m.BarFill, barWidth*2, fill), m.PercentText)
		fmt.Fprintf(&b, "   %s %s │ available: %s\n", m.LoggedText, m.BudgetText, m.AvailableText)
		fmt.Fprintf(&b, "   Total %d │ Done %d │ In Progress %d │ UAT %d │ To Do %d\n",
			m.Counts.Total, m.Counts.Done, m.Counts.InProgress, m.Counts.UAT, m.Counts.ToDo)

		b.WriteString(sectionStyle.Render("🎫 Top tickets"))
		b.WriteString("\n")
		b.WriteString(renderTickets(m.Tickets, m.TicketsEmpty))
	}

	b.WriteString(renderSprintPanel(m.Sprint))
	return b.String()
}

func renderSprintPanel(p view.SprintPanel) string {
	var b strings.Builder
	tabs := []string{"current", "previous"}
	for i, t := range tabs {
		if string(p.View) == t {
			tabs[i] = activeBoardStyle.Render(t)
		} else {
			tabs[i] = boardStyle.Render(t)
		}
	}
	b.WriteString(sectionStyle.Render("🏃 Sprint "))
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n")
	fmt.Fprintf(&b, "   %s │ %s │ %s\n", p.Name, p.Dates, p.Days)

	if p.State == view.SprintMissing {
		return b.String()
	}

	fill := colorDone
	if p.Overutilized {
		fill = colorOver
	}
	fmt.Fprintf(&b, "   %s %s\n", bar(p.BarFill, barWidth*2, fill), p.PercentText)
	fmt.Fprintf(&b, "   %s %s │ available: %s\n", p.LoggedText, p.BudgetText, p.AvailableText)
	if p.State == view.SprintReady {
		fmt.Fprintf(&b, "   Tasks: %d total │ %d done │ %d in progress │ %d UAT │ %d to do\n",
			p.Tasks.Total, p.Tasks.Done, p.Tasks.InProgress, p.Tasks.UAT, p.Tasks.ToDo)
	}
	b.WriteString(renderTickets(p.Tickets, p.TicketsEmpty))
	return b.String()
}

func renderTickets(lines []view.TicketLine, empty string) string {
	if len(lines) == 0 {
		return emptyStyle.Render("   "+empty) + "\n"
	}
	var b strings.Builder
	for _, t := range lines {
		status := lipgloss.NewStyle().Foreground(statusColor(t.Status)).Render(t.StatusLabel)
		rank := lipgloss.NewStyle().Foreground(tierColor(t.Tier)).Render(fmt.Sprintf("#%-2d", t.Rank))
		fmt.Fprintf(&b, "   %s %-10s %s %6.1fh  %s\n", rank, t.Key, pad(t.Summary, 40), t.Hours, status)
	}
	return b.String()
}

// bar draws a horizontal bar filled to percent of width.
func bar(percent float64, width int, color lipgloss.Color) string {
	filled := int(math.Round(math.Max(0, math.Min(percent, 100)) / 100 * float64(width)))
	return lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(colorMuted).Render(strings.Repeat("░", width-filled))
}

// segmentBar splits width across the four status shares; rounding leftovers
// go to the to-do segment.
func segmentBar(s view.Segments, width int) string {
	cells := func(p float64) int { return int(math.Round(p / 100 * float64(width))) }
	done, prog, uat := cells(s.Done), cells(s.InProgress), cells(s.UAT)
	todo := max(width-done-prog-uat, 0)
	return lipgloss.NewStyle().Foreground(colorDone).Render(strings.Repeat("█", done)) +
		lipgloss.NewStyle().Foreground(colorInProgress).Render(strings.Repeat("█", prog)) +
		lipgloss.NewStyle().Foreground(colorUAT).Render(strings.Repeat("█", uat)) +
		lipgloss.NewStyle().Foreground(colorToDo).Render(strings.Repeat("░", todo))
}

// pad truncates or right-pads s to exactly width terminal cells.
func pad(s string, width int) string {
	if runewidth.StringWidth(s) > width {
		s = runewidth.Truncate(s, width, "…")
	}
	return runewidth.FillRight(s, width)
}
