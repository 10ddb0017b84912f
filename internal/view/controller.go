package view

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/priYanshURaj-ai/performance-dashboard/internal/ranking"
	"github.com/priYanshURaj-ai/performance-dashboard/internal/snapshot"
)

var (
	ErrBoardNotFound  = errors.New("board not found")
	ErrMemberNotFound = errors.New("member not found")
	ErrInvalidPeriod  = errors.New("invalid period")
	ErrInvalidSprint  = errors.New("invalid sprint view")
)

const (
	NoticeUpdated   = "Dashboard updated with new data!"
	NoticeRefreshed = "Dashboard refreshed!"
	NoticeFailed    = "Refresh failed"
)

// FetchResult is the outcome of one snapshot load. Seq must come from
// Controller.BeginFetch.
type FetchResult struct {
	Seq      uint64
	Manual   bool
	Snapshot *snapshot.Snapshot
	Origin   string
	Err      error
}

// Controller owns the current snapshot and the view state. It is not safe for
// concurrent use: fetches run elsewhere and hand their results to Apply from
// the single goroutine that owns the controller.
type Controller struct {
	snap    *snapshot.Snapshot
	state   ViewState
	opts    Options
	logger  *slog.Logger
	issued  uint64
	applied uint64
}

func NewController(opts Options, logger *slog.Logger) *Controller {
	return &Controller{
		state:  DefaultState(),
		opts:   opts.withDefaults(),
		logger: logger,
	}
}

func (c *Controller) Snapshot() *snapshot.Snapshot { return c.snap }

func (c *Controller) State() ViewState { return c.state }

func (c *Controller) Loaded() bool { return c.snap != nil }

// Board returns the roster currently on screen.
func (c *Controller) Board() Board {
	return ResolveBoard(c.snap, c.state.BoardID)
}

// SelectedMember resolves the selection by email against the active roster.
func (c *Controller) SelectedMember() (*snapshot.Member, int) {
	if c.state.SelectedKey == "" {
		return nil, -1
	}
	members := c.Board().Members
	idx := snapshot.IndexOfMember(members, c.state.SelectedKey)
	if idx < 0 {
		return nil, -1
	}
	return &members[idx], idx
}

// Render projects the current snapshot and state.
func (c *Controller) Render() RenderModel {
	return Project(c.snap, c.state, c.opts)
}

// BeginFetch issues the sequence number for a new fetch. Numbers increase
// monotonically; Apply discards results older than the newest one applied.
func (c *Controller) BeginFetch() uint64 {
	c.issued++
	return c.issued
}

// Apply installs a completed fetch. A failed fetch keeps the previous
// snapshot, unless there is none yet, in which case the fallback document
// carried by the result is shown. A timer refresh whose lastUpdated matches
// the current snapshot changes nothing.
func (c *Controller) Apply(res FetchResult) Update {
	if res.Seq <= c.applied {
		c.logger.Debug("discarding stale fetch", "seq", res.Seq, "applied", c.applied)
		return Update{}
	}

	if res.Err != nil {
		if c.snap != nil || res.Snapshot == nil {
			c.logger.Warn("refresh failed, keeping previous data", "seq", res.Seq, "err", res.Err)
			if res.Manual {
				return Update{Notice: NoticeFailed, NoticeError: true}
			}
			return Update{}
		}
		c.logger.Warn("no data source available, showing empty dashboard", "err", res.Err)
	}
	if res.Snapshot == nil {
		return Update{}
	}

	prev := c.snap
	changed := prev == nil || prev.LastUpdated != res.Snapshot.LastUpdated
	c.applied = res.Seq
	if !changed && !res.Manual {
		return Update{}
	}

	c.snap = res.Snapshot
	u := Update{Dirty: SectionAll}
	u.ModalClosed = c.reconcile(prev == nil)

	switch {
	case res.Manual:
		u.Notice = NoticeRefreshed
	case prev != nil:
		u.Notice = NoticeUpdated
	}

	c.logger.Info("snapshot applied",
		"seq", res.Seq,
		"origin", res.Origin,
		"last_updated", c.snap.LastUpdated,
		"board", c.state.BoardID,
		"members", len(c.Board().Members),
		"total_7days", sevenDayTotal(c.Board()))
	return u
}

// reconcile re-resolves board and member selections against a new snapshot
// and reports whether an open modal had to be closed.
func (c *Controller) reconcile(first bool) bool {
	if first || !HasBoard(c.snap, c.state.BoardID) {
		c.state.BoardID = c.snap.InitialBoardID()
	}
	return c.resolveSelection()
}

func (c *Controller) resolveSelection() bool {
	if c.state.SelectedKey == "" {
		return false
	}
	if m, _ := c.SelectedMember(); m != nil {
		return false
	}
	c.logger.Info("selected member no longer present", "email", c.state.SelectedKey)
	wasOpen := c.state.ModalOpen
	c.state.SelectedKey = ""
	c.state.ModalOpen = false
	return wasOpen
}

// SwitchBoard swaps the active roster. Unknown ids leave every field untouched.
func (c *Controller) SwitchBoard(id string) (Update, error) {
	if !HasBoard(c.snap, id) {
		c.logger.Warn("board not found in data", "board", id)
		return Update{}, fmt.Errorf("%w: %s", ErrBoardNotFound, id)
	}

	c.state.BoardID = id
	closed := c.resolveSelection()
	board := c.Board()
	c.logger.Info("switched board", "board", id, "name", board.DisplayName())
	return Update{
		Dirty:       SectionAll,
		Notice:      "Viewing: " + board.DisplayName(),
		ModalClosed: closed,
	}, nil
}

// BoardIDs lists the selectable board ids in selector order.
func (c *Controller) BoardIDs() []string {
	opts := ProjectBoards(c.snap, c.state)
	ids := make([]string, 0, len(opts.Options))
	for _, o := range opts.Options {
		ids = append(ids, o.ID)
	}
	return ids
}

func (c *Controller) SwitchPeriod(p snapshot.PeriodKey) (Update, error) {
	if !p.Valid() {
		return Update{}, fmt.Errorf("%w: %s", ErrInvalidPeriod, p)
	}
	c.state.Period = p
	dirty := SectionHeader | SectionSummary | SectionTable | SectionCharts
	if c.state.ModalOpen {
		dirty |= SectionModal
	}
	return Update{Dirty: dirty}, nil
}

func (c *Controller) SwitchSprintView(v snapshot.SprintView) (Update, error) {
	if !v.Valid() {
		return Update{}, fmt.Errorf("%w: %s", ErrInvalidSprint, v)
	}
	c.state.SprintView = v
	return Update{Dirty: SectionSprint}, nil
}

// SetSort toggles direction when column is already the sort column, otherwise
// switches to it in descending order.
func (c *Controller) SetSort(column string) Update {
	if c.state.Sort.Column == column {
		c.state.Sort.Direction = c.state.Sort.Direction.Toggle()
	} else {
		c.state.Sort = ranking.SortConfig{Column: column, Direction: ranking.Desc}
	}
	return Update{Dirty: SectionTable}
}

func (c *Controller) SetSearch(term string) Update {
	if strings.EqualFold(c.state.SearchTerm, term) {
		c.state.SearchTerm = term
		return Update{}
	}
	c.state.SearchTerm = term
	return Update{Dirty: SectionTable}
}

// OpenMember opens the detail modal for the member at index in the active
// roster and resets the sprint panel to the running sprint.
func (c *Controller) OpenMember(index int) (Update, error) {
	members := c.Board().Members
	if index < 0 || index >= len(members) {
		return Update{}, fmt.Errorf("%w: index %d", ErrMemberNotFound, index)
	}
	c.state.SelectedKey = members[index].Email
	c.state.ModalOpen = true
	c.state.SprintView = snapshot.SprintCurrent
	return Update{Dirty: SectionModal | SectionSprint}, nil
}

func (c *Controller) CloseModal() Update {
	if !c.state.ModalOpen && c.state.SelectedKey == "" {
		return Update{}
	}
	c.state.ModalOpen = false
	c.state.SelectedKey = ""
	return Update{Dirty: SectionModal | SectionSprint}
}

func sevenDayTotal(b Board) int {
	if ts := b.TeamSummary[snapshot.Period7Days]; ts != nil {
		return ts.Total
	}
	return 0
}
