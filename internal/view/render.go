package view

import (
	"github.com/priYanshURaj-ai/performance-dashboard/internal/metrics"
	"github.com/priYanshURaj-ai/performance-dashboard/internal/ranking"
	"github.com/priYanshURaj-ai/performance-dashboard/internal/snapshot"
)

// RenderModel is everything a render adapter needs to paint the dashboard.
// Adapters must not reach back into the snapshot.
type RenderModel struct {
	Header   Header
	Boards   BoardSelector
	Overview Overview
	Summary  Summary
	Table    Table
	Charts   Charts
	Modal    *Modal // nil when the modal is closed
}

type Header struct {
	LastUpdated string
	BoardName   string
	PeriodLabel string
	PeriodRange string
}

type BoardOption struct {
	ID       string
	Name     string
	Selected bool
}

type BoardSelector struct {
	Options []BoardOption
}

type LeaderEntry struct {
	Rank    int
	Index   int // roster index, for opening the modal
	Name    string
	Avatar  string
	Percent float64
	BarFill float64
	Detail  string
}

type Overview struct {
	Awaiting        bool
	SprintName      string
	SprintDay       string
	HighUtilization []LeaderEntry
	MostAvailable   []LeaderEntry
	HighEmpty       string
	AvailableEmpty  string
}

type Summary struct {
	Awaiting bool
	metrics.StatusBreakdown
}

type Segments struct {
	Done       float64
	InProgress float64
	UAT        float64
	ToDo       float64
}

type Row struct {
	Index          int
	Name           string
	Email          string
	Avatar         string
	NoData         bool
	Counts         snapshot.StatusCounts
	EstimatedHours float64
	HoursLogged    float64
	Segments       Segments
	ProgressLabel  string
}

type Table struct {
	Rows  []Row
	Empty string
	Sort  ranking.SortConfig
}

type StatusSeries struct {
	Awaiting bool
	Labels   []string
	Values   []int
	Percents []float64
}

type BarSeries struct {
	Label  string
	Labels []string
	Values []int
}

type NamedSeries struct {
	Name   string
	Values []int
}

// TrendSeries is illustrative only. With Synthetic set, the values are shaped
// from aggregate counts and carry no historical signal.
type TrendSeries struct {
	Synthetic bool
	Labels    []string
	Series    []NamedSeries
}

type Charts struct {
	Status        StatusSeries
	TopPerformers BarSeries
	Trend         TrendSeries
}

type TicketLine struct {
	Rank        int
	Tier        int // highlight level; ranks past the top few share one
	Key         string
	Summary     string
	Hours       float64
	Status      string
	StatusLabel string
}

type SprintState int

const (
	SprintReady SprintState = iota
	SprintAwaitingData
	SprintMissing
)

type SprintPanel struct {
	State         SprintState
	View          snapshot.SprintView
	Name          string
	Dates         string
	Days          string
	BarFill       float64
	Overutilized  bool
	LoggedText    string
	BudgetText    string
	PercentText   string
	AvailableText string
	Tasks         snapshot.StatusCounts
	Tickets       []TicketLine
	TicketsEmpty  string
}

type Modal struct {
	Index         int
	Name          string
	Email         string
	Avatar        string
	PeriodLabel   string
	NoData        bool
	Utilization   metrics.Utilization
	BarFill       float64
	LoggedText    string
	BudgetText    string
	PercentText   string
	AvailableText string
	Counts        snapshot.StatusCounts
	Tickets       []TicketLine
	TicketsEmpty  string
	Sprint        SprintPanel
}
