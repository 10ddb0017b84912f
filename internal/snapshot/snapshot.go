// Package snapshot holds the performance document produced by the offline workflow.
package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var ErrMalformedDocument = errors.New("malformed performance document")

type PeriodKey string

const (
	Period7Days  PeriodKey = "7days"
	Period15Days PeriodKey = "15days"
	Period30Days PeriodKey = "30days"
)

// Periods lists the selectable periods in display order.
var Periods = []PeriodKey{Period7Days, Period15Days, Period30Days}

func (p PeriodKey) Valid() bool {
	switch p {
	case Period7Days, Period15Days, Period30Days:
		return true
	}
	return false
}

func (p PeriodKey) Label() string {
	switch p {
	case Period7Days:
		return "Last 7 Days"
	case Period15Days:
		return "Last 15 Days"
	case Period30Days:
		return "Last 30 Days"
	default:
		return string(p)
	}
}

// Days returns the calendar length of the rolling window.
func (p PeriodKey) Days() int {
	switch p {
	case Period7Days:
		return 7
	case Period15Days:
		return 15
	case Period30Days:
		return 30
	default:
		return 0
	}
}

type SprintView string

const (
	SprintCurrent  SprintView = "current"
	SprintPrevious SprintView = "previous"
)

func (v SprintView) Valid() bool {
	return v == SprintCurrent || v == SprintPrevious
}

type StatusCounts struct {
	Total      int `json:"total"`
	Done       int `json:"done"`
	InProgress int `json:"inProgress"`
	UAT        int `json:"uat"`
	ToDo       int `json:"toDo"`
}

type TeamSummary struct {
	StatusCounts
	TotalHoursLogged float64 `json:"totalHoursLogged"`
}

type Ticket struct {
	Key        string  `json:"key"`
	Summary    string  `json:"summary"`
	Hours      float64 `json:"hours"`
	Status     string  `json:"status"` // done|inProgress|uat|toDo
	StatusName string  `json:"statusName"`
}

type PeriodMetrics struct {
	StatusCounts
	EstimatedHours float64  `json:"estimatedHours"`
	HoursLogged    float64  `json:"hoursLogged"`
	EstimatedDone  float64  `json:"estimatedDone"`
	LoggedDone     float64  `json:"loggedDone"`
	TopIssues      []Ticket `json:"topIssues"`
}

type SprintMetrics struct {
	StatusCounts
	HoursLogged   float64  `json:"hoursLogged"`
	EstimatedDone float64  `json:"estimatedDone"`
	LoggedDone    float64  `json:"loggedDone"`
	AllIssues     []Ticket `json:"allIssues"`
	TopIssues     []Ticket `json:"topIssues"`
}

// Issues prefers the full sprint issue list and falls back to the top issues.
func (m *SprintMetrics) Issues() []Ticket {
	if m == nil {
		return nil
	}
	if len(m.AllIssues) > 0 {
		return m.AllIssues
	}
	return m.TopIssues
}

type SprintMetricsSet struct {
	Current  *SprintMetrics `json:"current"`
	Previous *SprintMetrics `json:"previous"`
}

func (s SprintMetricsSet) For(v SprintView) *SprintMetrics {
	if v == SprintPrevious {
		return s.Previous
	}
	return s.Current
}

type Member struct {
	Name          string                       `json:"name"`
	Email         string                       `json:"email"`
	Avatar        string                       `json:"avatar"`
	Metrics       map[PeriodKey]*PeriodMetrics `json:"metrics"`
	SprintMetrics SprintMetricsSet             `json:"sprintMetrics"`
}

// PeriodMetrics returns nil when the member has no data for the period.
func (m *Member) PeriodMetrics(p PeriodKey) *PeriodMetrics {
	if m == nil || m.Metrics == nil {
		return nil
	}
	return m.Metrics[p]
}

type Period struct {
	Label     string `json:"label"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type SprintInfo struct {
	Label              string  `json:"label"`
	Month              string  `json:"month"`
	Number             any     `json:"number"`
	StartDate          string  `json:"startDate"`
	EndDate            string  `json:"endDate"`
	WorkingDays        int     `json:"workingDays"`
	SprintDay          int     `json:"sprintDay"`
	ElapsedWorkingDays int     `json:"elapsedWorkingDays"`
	ElapsedHours       float64 `json:"elapsedHours"`
	TotalHours         float64 `json:"totalHours"`
}

// DisplayLabel falls back to "<month> Sprint <number>" for documents without a label.
func (s *SprintInfo) DisplayLabel() string {
	if s.Label != "" {
		return s.Label
	}
	return fmt.Sprintf("%s Sprint %v", s.Month, s.Number)
}

type Sprints struct {
	Current  *SprintInfo `json:"current"`
	Previous *SprintInfo `json:"previous"`
}

func (s *Sprints) For(v SprintView) *SprintInfo {
	if s == nil {
		return nil
	}
	if v == SprintPrevious {
		return s.Previous
	}
	return s.Current
}

type BoardRef struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Project    string   `json:"project"`
	Components []string `json:"components"`
}

type BoardInfo struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Project    string   `json:"project"`
	Components []string `json:"components"`
}

type BoardSnapshot struct {
	BoardName   string                     `json:"boardName"`
	Project     string                     `json:"project"`
	Components  []string                   `json:"components"`
	TeamSummary map[PeriodKey]*TeamSummary `json:"teamSummary"`
	Members     []Member                   `json:"members"`
}

// Snapshot is the root performance document. It is replaced wholesale on every
// successful fetch and never mutated after decoding.
type Snapshot struct {
	LastUpdated     string                     `json:"lastUpdated"`
	Version         string                     `json:"version"`
	HoursPerDay     int                        `json:"hoursPerDay"`
	WorkingHours    map[PeriodKey]float64      `json:"workingHours"`
	Periods         map[PeriodKey]Period       `json:"periods"`
	TeamSummary     map[PeriodKey]*TeamSummary `json:"teamSummary"`
	Members         []Member                   `json:"members"`
	Sprints         *Sprints                   `json:"sprints"`
	AvailableBoards []BoardRef                 `json:"availableBoards"`
	BoardsData      map[string]*BoardSnapshot  `json:"boardsData"`
	SelectedBoardID string                     `json:"selectedBoardId"`
	DefaultBoardID  string                     `json:"defaultBoardId"`
	BoardInfo       *BoardInfo                 `json:"boardInfo"`
}

// Decode parses a performance document. Fields whose JSON type does not match
// the model are left at their zero value; only a document that is not a JSON
// object is rejected.
func Decode(data []byte) (*Snapshot, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, ErrMalformedDocument
	}

	var s Snapshot
	if err := json.Unmarshal(trimmed, &s); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
		}
	}
	return &s, nil
}

// UpdatedAt parses LastUpdated.
func (s *Snapshot) UpdatedAt() (time.Time, bool) {
	if s == nil || s.LastUpdated == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", time.DateOnly} {
		if t, err := time.Parse(layout, s.LastUpdated); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// InitialBoardID is the board a freshly loaded document asks to be shown.
func (s *Snapshot) InitialBoardID() string {
	switch {
	case s.SelectedBoardID != "":
		return s.SelectedBoardID
	case s.DefaultBoardID != "":
		return s.DefaultBoardID
	default:
		return "combined"
	}
}

// IndexOfMember returns the position of the member with the given email, or -1.
func IndexOfMember(members []Member, email string) int {
	if email == "" {
		return -1
	}
	for i := range members {
		if members[i].Email == email {
			return i
		}
	}
	return -1
}
