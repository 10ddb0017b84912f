package tui

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/priYanshURaj-ai/performance-dashboard/internal/ranking"
	"github.com/priYanshURaj-ai/performance-dashboard/internal/snapshot"
	"github.com/priYanshURaj-ai/performance-dashboard/internal/snapshot/snapshottest"
	"github.com/priYanshURaj-ai/performance-dashboard/internal/view"
)

type staticLoader struct {
	snap *snapshot.Snapshot
	err  error
}

func (l staticLoader) Load(context.Context) (*snapshot.Snapshot, string, error) {
	return l.snap, "file", l.err
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(t *testing.T, opts Options) Model {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctrl := view.NewController(view.Options{Location: time.UTC}, logger)
	ld := staticLoader{snap: snapshottest.Team(snapshottest.LastUpdated)}
	return NewModel(context.Background(), ctrl, ld, opts, logger)
}

// loaded feeds the model one successful fetch.
func loaded(t *testing.T, opts Options) Model {
	t.Helper()
	m := newTestModel(t, opts)
	return update(t, m, fetchedMsg{
		Seq:      m.ctrl.BeginFetch(),
		Snapshot: snapshottest.Team(snapshottest.LastUpdated),
		Origin:   "file",
	})
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out
}

func TestModel_LoadingView(t *testing.T) {
	m := newTestModel(t, Options{})
	assert.Contains(t, m.View(), "Loading performance data")
}

func TestModel_Fetched(t *testing.T) {
	m := loaded(t, Options{})

	require.True(t, m.ctrl.Loaded())
	require.Len(t, m.rm.Table.Rows, 2)
	assert.Contains(t, m.View(), "Alice Smith")
	assert.Contains(t, m.View(), "All Teams")
}

func TestModel_FetchCmd(t *testing.T) {
	m := newTestModel(t, Options{})

	msg := m.fetch(true)()
	res, ok := msg.(fetchedMsg)
	require.True(t, ok)
	assert.True(t, res.Manual)
	assert.Equal(t, "file", res.Origin)
	assert.NotZero(t, res.Seq)
}

func TestModel_StaleFetchIgnored(t *testing.T) {
	m := newTestModel(t, Options{})
	stale := m.ctrl.BeginFetch()
	fresh := m.ctrl.BeginFetch()

	newer := snapshottest.Team("2025-02-01T00:00:00Z")
	m = update(t, m, fetchedMsg{Seq: fresh, Snapshot: newer})
	m = update(t, m, fetchedMsg{Seq: stale, Snapshot: snapshottest.Team(snapshottest.LastUpdated)})

	assert.Equal(t, "2025-02-01T00:00:00Z", m.ctrl.Snapshot().LastUpdated)
}

func TestModel_ManualRefreshFailureNotice(t *testing.T) {
	m := loaded(t, Options{})

	m = update(t, m, fetchedMsg{Seq: m.ctrl.BeginFetch(), Manual: true, Err: errors.New("offline")})
	assert.Equal(t, view.NoticeFailed, m.notice)
	assert.True(t, m.noticeErr)
	assert.Len(t, m.rm.Table.Rows, 2, "previous data stays on screen")
}

func TestModel_PeriodKeys(t *testing.T) {
	m := loaded(t, Options{})

	m = update(t, m, runes("2"))
	assert.Equal(t, snapshot.Period15Days, m.ctrl.State().Period)
	assert.True(t, m.rm.Table.Rows[0].NoData)

	m = update(t, m, runes("1"))
	assert.Equal(t, snapshot.Period7Days, m.ctrl.State().Period)
}

func TestModel_SortKeys(t *testing.T) {
	m := loaded(t, Options{})

	m = update(t, m, runes("s"))
	assert.Equal(t, ranking.ColumnBandwidth, m.ctrl.State().Sort.Column)
	assert.Equal(t, "Bob Jones", m.rm.Table.Rows[0].Name)

	m = update(t, m, runes("o"))
	assert.Equal(t, ranking.Asc, m.ctrl.State().Sort.Direction)
	assert.Equal(t, "Alice Smith", m.rm.Table.Rows[0].Name)
}

func TestModel_BoardCycling(t *testing.T) {
	m := loaded(t, Options{})

	m = update(t, m, runes("b"))
	assert.Equal(t, "alpha", m.ctrl.State().BoardID)
	assert.Len(t, m.rm.Table.Rows, 1)
	assert.Equal(t, "Viewing: Alpha", m.notice)

	m = update(t, m, runes("B"))
	assert.Equal(t, "combined", m.ctrl.State().BoardID)
}

func TestModel_BoardCyclingSkipsBoardsWithoutData(t *testing.T) {
	m := newTestModel(t, Options{})
	snap := snapshottest.Team(snapshottest.LastUpdated)
	snap.AvailableBoards = append(snap.AvailableBoards,
		snapshot.BoardRef{ID: "ghost", Name: "Ghost"},
		snapshot.BoardRef{ID: "beta", Name: "Beta"},
	)
	snap.BoardsData["beta"] = &snapshot.BoardSnapshot{BoardName: "Beta", Members: snap.Members[1:]}
	m = update(t, m, fetchedMsg{Seq: m.ctrl.BeginFetch(), Snapshot: snap, Origin: "file"})

	var visited []string
	for range 3 {
		m = update(t, m, runes("b"))
		visited = append(visited, m.ctrl.State().BoardID)
		assert.False(t, m.noticeErr, "cycling never surfaces an error")
	}
	assert.Equal(t, []string{"alpha", "beta", "combined"}, visited)

	m = update(t, m, runes("B"))
	assert.Equal(t, "beta", m.ctrl.State().BoardID)
	assert.Equal(t, "Viewing: Beta", m.notice)
}

func TestModel_SearchDebounce(t *testing.T) {
	m := loaded(t, Options{SearchDebounce: time.Hour})

	m = update(t, m, runes("/"))
	require.True(t, m.searching)
	m = update(t, m, runes("b"))
	m = update(t, m, runes("o"))
	assert.Empty(t, m.ctrl.State().SearchTerm, "typing waits for the debounce")

	m = update(t, m, searchDebounceMsg{gen: m.searchGen - 1, term: "b"})
	assert.Empty(t, m.ctrl.State().SearchTerm, "stale debounce is dropped")

	m = update(t, m, searchDebounceMsg{gen: m.searchGen, term: "bo"})
	assert.Equal(t, "bo", m.ctrl.State().SearchTerm)
	require.Len(t, m.rm.Table.Rows, 1)
	assert.Equal(t, "Bob Jones", m.rm.Table.Rows[0].Name)
}

func TestModel_SearchEnterAndEsc(t *testing.T) {
	m := loaded(t, Options{SearchDebounce: time.Hour})

	m = update(t, m, runes("/"))
	m = update(t, m, runes("alice"))
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.searching)
	assert.Equal(t, "alice", m.ctrl.State().SearchTerm)
	assert.Len(t, m.rm.Table.Rows, 1)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Empty(t, m.ctrl.State().SearchTerm)
	assert.Len(t, m.rm.Table.Rows, 2)
}

func TestModel_SearchWithoutDebounce(t *testing.T) {
	m := loaded(t, Options{})

	m = update(t, m, runes("/"))
	m = update(t, m, runes("bob"))
	assert.Equal(t, "bob", m.ctrl.State().SearchTerm)
}

func TestModel_Modal(t *testing.T) {
	m := loaded(t, Options{})

	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, m.rm.Modal)
	assert.Equal(t, "Alice Smith", m.rm.Modal.Name)
	assert.Equal(t, snapshot.SprintCurrent, m.rm.Modal.Sprint.View)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, snapshot.SprintPrevious, m.ctrl.State().SprintView)
	assert.Equal(t, "Dec Sprint 2", m.rm.Modal.Sprint.Name)

	m = update(t, m, runes("c"))
	assert.Equal(t, snapshot.SprintCurrent, m.ctrl.State().SprintView)

	m = update(t, m, runes("p"))
	assert.Equal(t, snapshot.SprintPrevious, m.ctrl.State().SprintView)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, m.rm.Modal)
	assert.False(t, m.ctrl.State().ModalOpen)
}

func TestModel_CursorOpensSelectedRow(t *testing.T) {
	m := loaded(t, Options{})

	m = update(t, m, runes("j"))
	assert.Equal(t, 1, m.cursor)
	m = update(t, m, runes("j"))
	assert.Equal(t, 1, m.cursor, "cursor stops at the last row")

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, m.rm.Modal)
	assert.Equal(t, "Bob Jones", m.rm.Modal.Name)
	assert.Equal(t, "+10h over", m.rm.Modal.AvailableText)
}

func TestModel_Quit(t *testing.T) {
	m := loaded(t, Options{})

	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_NoticeExpiry(t *testing.T) {
	m := loaded(t, Options{})
	m = update(t, m, runes("b"))
	require.NotEmpty(t, m.notice)

	m = update(t, m, noticeExpiredMsg{gen: m.noticeGen - 1})
	assert.NotEmpty(t, m.notice, "an older notice timer must not clear a newer notice")

	m = update(t, m, noticeExpiredMsg{gen: m.noticeGen})
	assert.Empty(t, m.notice)
}

func TestNextColumn(t *testing.T) {
	assert.Equal(t, ranking.ColumnTotal, nextColumn(ranking.ColumnName))
	assert.Equal(t, ranking.ColumnName, nextColumn(ranking.ColumnToDo))
	assert.Equal(t, ranking.ColumnName, nextColumn("unknown"))
}

func TestModel_Program(t *testing.T) {
	m := newTestModel(t, Options{})
	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(120, 40))

	teatest.WaitFor(t, tm.Output(), func(b []byte) bool {
		return bytes.Contains(b, []byte("Alice"))
	}, teatest.WithDuration(3*time.Second))

	tm.Send(runes("q"))
	tm.WaitFinished(t, teatest.WithFinalTimeout(3*time.Second))
}
