package view

import (
	"github.com/priYanshURaj-ai/performance-dashboard/internal/ranking"
	"github.com/priYanshURaj-ai/performance-dashboard/internal/snapshot"
)

// Section identifies an independently repaintable part of the dashboard.
type Section uint16

const (
	SectionHeader Section = 1 << iota
	SectionBoards
	SectionOverview
	SectionSummary
	SectionTable
	SectionCharts
	SectionModal
	SectionSprint
)

const SectionAll = SectionHeader | SectionBoards | SectionOverview | SectionSummary |
	SectionTable | SectionCharts | SectionModal | SectionSprint

func (s Section) Has(other Section) bool {
	return s&other != 0
}

// ViewState is everything the user has selected. It is a plain value so the
// projections can be called with any state, not just the controller's.
type ViewState struct {
	BoardID     string
	Period      snapshot.PeriodKey
	SprintView  snapshot.SprintView
	Sort        ranking.SortConfig
	SelectedKey string // member email; empty when nothing is selected
	ModalOpen   bool
	SearchTerm  string
}

func DefaultState() ViewState {
	return ViewState{
		Period:     snapshot.Period7Days,
		SprintView: snapshot.SprintCurrent,
		Sort:       ranking.DefaultSort(),
	}
}

// Update tells the render adapter which sections went stale and whether to
// show a transient notice.
type Update struct {
	Dirty       Section
	Notice      string
	NoticeError bool
	ModalClosed bool
}
