package tui

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/priYanshURaj-ai/performance-dashboard/internal/ranking"
	"github.com/priYanshURaj-ai/performance-dashboard/internal/snapshot"
	"github.com/priYanshURaj-ai/performance-dashboard/internal/view"
)

const noticeDuration = 3 * time.Second

type Loader interface {
	Load(ctx context.Context) (*snapshot.Snapshot, string, error)
}

type Options struct {
	PollInterval   time.Duration
	SearchDebounce time.Duration
	FetchTimeout   time.Duration
	// Changes, when set, triggers a refresh on every receive.
	Changes <-chan struct{}
}

type Model struct {
	ctx    context.Context
	ctrl   *view.Controller
	loader Loader
	opts   Options
	logger *slog.Logger

	keys      keyMap
	help      help.Model
	search    textinput.Model
	searching bool
	searchGen int
	body      viewport.Model
	modal     viewport.Model

	rm       view.RenderModel
	sections map[view.Section]string
	cursor   int

	notice    string
	noticeErr bool
	noticeGen int
}

type (
	tickMsg           time.Time
	fetchedMsg        view.FetchResult
	watchMsg          struct{}
	searchDebounceMsg struct {
		gen  int
		term string
	}
	noticeExpiredMsg struct{ gen int }
)

// sectionOrder is the top-to-bottom layout of the dashboard body.
var sectionOrder = []view.Section{
	view.SectionHeader,
	view.SectionBoards,
	view.SectionOverview,
	view.SectionSummary,
	view.SectionTable,
	view.SectionCharts,
}

func NewModel(ctx context.Context, ctrl *view.Controller, ld Loader, opts Options, logger *slog.Logger) Model {
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = 30 * time.Second
	}

	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "search by name or email"
	ti.CharLimit = 64

	body := viewport.New(100, 30)
	body.KeyMap.Up.SetEnabled(false)
	body.KeyMap.Down.SetEnabled(false)

	return Model{
		ctx:      ctx,
		ctrl:     ctrl,
		loader:   ld,
		opts:     opts,
		logger:   logger,
		keys:     newKeyMap(),
		help:     help.New(),
		search:   ti,
		body:     body,
		modal:    viewport.New(96, 26),
		sections: make(map[view.Section]string),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetch(false), tickCmd(m.opts.PollInterval), waitForChange(m.opts.Changes))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		m.body.Width = msg.Width
		m.body.Height = max(msg.Height-3, 1)
		m.modal.Width = max(msg.Width-4, 1)
		m.modal.Height = max(msg.Height-5, 1)
		return m, nil

	case tea.KeyMsg:
		switch {
		case m.searching:
			return m.updateSearch(msg)
		case m.rm.Modal != nil:
			return m.updateModal(msg)
		default:
			return m.updateDashboard(msg)
		}

	case tickMsg:
		return m, tea.Batch(m.fetch(false), tickCmd(m.opts.PollInterval))

	case watchMsg:
		return m, tea.Batch(m.fetch(false), waitForChange(m.opts.Changes))

	case fetchedMsg:
		cmd := m.apply(m.ctrl.Apply(view.FetchResult(msg)))
		return m, cmd

	case searchDebounceMsg:
		if msg.gen != m.searchGen {
			return m, nil
		}
		cmd := m.apply(m.ctrl.SetSearch(msg.term))
		return m, cmd

	case noticeExpiredMsg:
		if msg.gen == m.noticeGen {
			m.notice = ""
		}
		return m, nil
	}

	return m, nil
}

func (m Model) updateDashboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if p, ok := m.periodKey(msg); ok {
		cmd := m.switchPeriod(p)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Refresh):
		return m, m.fetch(true)
	case key.Matches(msg, m.keys.NextBoard):
		cmd := m.cycleBoard(1)
		return m, cmd
	case key.Matches(msg, m.keys.PrevBoard):
		cmd := m.cycleBoard(-1)
		return m, cmd
	case key.Matches(msg, m.keys.SortColumn):
		cmd := m.apply(m.ctrl.SetSort(nextColumn(m.ctrl.State().Sort.Column)))
		return m, cmd
	case key.Matches(msg, m.keys.SortOrder):
		cmd := m.apply(m.ctrl.SetSort(m.ctrl.State().Sort.Column))
		return m, cmd
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.search.SetValue(m.ctrl.State().SearchTerm)
		m.search.CursorEnd()
		cmd := m.search.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.Close):
		if m.ctrl.State().SearchTerm != "" {
			m.searchGen++
			m.search.SetValue("")
			cmd := m.apply(m.ctrl.SetSearch(""))
			return m, cmd
		}
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
			m.rebuild(view.SectionTable)
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.rm.Table.Rows)-1 {
			m.cursor++
			m.rebuild(view.SectionTable)
		}
	case key.Matches(msg, m.keys.Open):
		if m.cursor < 0 || m.cursor >= len(m.rm.Table.Rows) {
			return m, nil
		}
		u, err := m.ctrl.OpenMember(m.rm.Table.Rows[m.cursor].Index)
		if err != nil {
			cmd := m.showNotice(err.Error(), true)
			return m, cmd
		}
		cmd := m.apply(u)
		m.modal.GotoTop()
		return m, cmd
	default:
		var cmd tea.Cmd
		m.body, cmd = m.body.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if p, ok := m.periodKey(msg); ok {
		cmd := m.switchPeriod(p)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Close):
		cmd := m.apply(m.ctrl.CloseModal())
		return m, cmd
	case key.Matches(msg, m.keys.Refresh):
		return m, m.fetch(true)
	case key.Matches(msg, m.keys.Sprint):
		target := snapshot.SprintCurrent
		switch msg.String() {
		case "p":
			target = snapshot.SprintPrevious
		case "tab":
			if m.ctrl.State().SprintView == snapshot.SprintCurrent {
				target = snapshot.SprintPrevious
			}
		}
		u, err := m.ctrl.SwitchSprintView(target)
		if err != nil {
			cmd := m.showNotice(err.Error(), true)
			return m, cmd
		}
		cmd := m.apply(u)
		return m, cmd
	}

	var cmd tea.Cmd
	m.modal, cmd = m.modal.Update(msg)
	return m, cmd
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.searching = false
		m.searchGen++
		m.search.Blur()
		m.search.SetValue("")
		cmd := m.apply(m.ctrl.SetSearch(""))
		return m, cmd
	case tea.KeyEnter:
		m.searching = false
		m.searchGen++
		m.search.Blur()
		cmd := m.apply(m.ctrl.SetSearch(m.search.Value()))
		return m, cmd
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	term := m.search.Value()
	if term == before {
		return m, cmd
	}

	m.searchGen++
	if m.opts.SearchDebounce <= 0 {
		applyCmd := m.apply(m.ctrl.SetSearch(term))
		return m, tea.Batch(cmd, applyCmd)
	}
	gen := m.searchGen
	debounce := tea.Tick(m.opts.SearchDebounce, func(time.Time) tea.Msg {
		return searchDebounceMsg{gen: gen, term: term}
	})
	return m, tea.Batch(cmd, debounce)
}

func (m Model) periodKey(msg tea.KeyMsg) (snapshot.PeriodKey, bool) {
	switch {
	case key.Matches(msg, m.keys.Period7):
		return snapshot.Period7Days, true
	case key.Matches(msg, m.keys.Period15):
		return snapshot.Period15Days, true
	case key.Matches(msg, m.keys.Period30):
		return snapshot.Period30Days, true
	}
	return "", false
}

func (m *Model) switchPeriod(p snapshot.PeriodKey) tea.Cmd {
	u, err := m.ctrl.SwitchPeriod(p)
	if err != nil {
		return m.showNotice(err.Error(), true)
	}
	return m.apply(u)
}

func (m *Model) cycleBoard(step int) tea.Cmd {
	ids := m.ctrl.BoardIDs()
	if len(ids) < 2 {
		return nil
	}
	// Boards listed without data are skipped rather than switched to.
	snap := m.ctrl.Snapshot()
	n := len(ids)
	i := slices.Index(ids, m.ctrl.State().BoardID)
	for range n - 1 {
		i = ((i+step)%n + n) % n
		if !view.HasBoard(snap, ids[i]) {
			continue
		}
		u, err := m.ctrl.SwitchBoard(ids[i])
		if err != nil {
			return nil
		}
		m.cursor = 0
		return m.apply(u)
	}
	return nil
}

// apply re-projects after a controller update and repaints only the sections
// the update marked dirty.
func (m *Model) apply(u view.Update) tea.Cmd {
	if u.Dirty != 0 {
		m.rm = m.ctrl.Render()
		m.cursor = min(m.cursor, max(len(m.rm.Table.Rows)-1, 0))
		m.rebuild(u.Dirty)
	}
	if u.Notice == "" {
		return nil
	}
	return m.showNotice(u.Notice, u.NoticeError)
}

func (m *Model) rebuild(dirty view.Section) {
	for _, s := range sectionOrder {
		if dirty.Has(s) {
			m.sections[s] = m.renderSection(s)
		}
	}
	m.body.SetContent(m.dashboard())

	if dirty.Has(view.SectionModal|view.SectionSprint) && m.rm.Modal != nil {
		m.modal.SetContent(renderModal(m.rm.Modal))
	}
}

func (m *Model) renderSection(s view.Section) string {
	switch s {
	case view.SectionHeader:
		return renderHeader(m.rm.Header)
	case view.SectionBoards:
		return renderBoards(m.rm.Boards)
	case view.SectionOverview:
		return renderOverview(m.rm.Overview)
	case view.SectionSummary:
		return renderSummary(m.rm.Summary)
	case view.SectionTable:
		return renderTable(m.rm.Table, m.cursor, m.ctrl.State().SearchTerm)
	case view.SectionCharts:
		return renderCharts(m.rm.Charts)
	}
	return ""
}

func (m *Model) dashboard() string {
	parts := make([]string, 0, len(sectionOrder))
	for _, s := range sectionOrder {
		if out := m.sections[s]; out != "" {
			parts = append(parts, out)
		}
	}
	return strings.Join(parts, "\n")
}

func (m *Model) showNotice(text string, isErr bool) tea.Cmd {
	m.notice = text
	m.noticeErr = isErr
	m.noticeGen++
	gen := m.noticeGen
	return tea.Tick(noticeDuration, func(time.Time) tea.Msg {
		return noticeExpiredMsg{gen: gen}
	})
}

func (m Model) View() string {
	if !m.ctrl.Loaded() {
		return headerStyle.Render("📊 Loading performance data...")
	}

	var main string
	if m.rm.Modal != nil {
		main = modalStyle.Render(m.modal.View())
	} else {
		main = m.body.View()
	}

	var footer []string
	if m.notice != "" {
		if m.noticeErr {
			footer = append(footer, noticeErrorStyle.Render(m.notice))
		} else {
			footer = append(footer, noticeStyle.Render(m.notice))
		}
	}
	switch {
	case m.searching:
		footer = append(footer, m.search.View())
	case m.rm.Modal != nil:
		footer = append(footer, m.help.View(modalKeys{m.keys}))
	default:
		footer = append(footer, m.help.View(m.keys))
	}

	return lipgloss.JoinVertical(lipgloss.Left, main, strings.Join(footer, "  "))
}

// fetch starts a load in the background; the controller sequences the result.
func (m Model) fetch(manual bool) tea.Cmd {
	seq := m.ctrl.BeginFetch()
	ctx, ld, timeout := m.ctx, m.loader, m.opts.FetchTimeout
	return func() tea.Msg {
		fetchCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		snap, origin, err := ld.Load(fetchCtx)
		return fetchedMsg{Seq: seq, Manual: manual, Snapshot: snap, Origin: origin, Err: err}
	}
}

func tickCmd(interval time.Duration) tea.Cmd {
	if interval <= 0 {
		return nil
	}
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func waitForChange(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return watchMsg{}
	}
}

func nextColumn(current string) string {
	i := slices.Index(ranking.Columns, current)
	return ranking.Columns[(i+1)%len(ranking.Columns)]
}
