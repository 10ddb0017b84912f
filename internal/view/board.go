package view

import "github.com/priYanshURaj-ai/performance-dashboard/internal/snapshot"

const defaultBoardName = "Team Dashboard"

// Board is the roster and summary currently on screen. Switching boards swaps
// all of it; nothing is merged across boards.
type Board struct {
	ID          string
	Info        snapshot.BoardInfo
	TeamSummary map[snapshot.PeriodKey]*snapshot.TeamSummary
	Members     []snapshot.Member
}

// HasBoard reports whether id names an entry in boardsData.
func HasBoard(s *snapshot.Snapshot, id string) bool {
	if s == nil || s.BoardsData == nil {
		return false
	}
	b, ok := s.BoardsData[id]
	return ok && b != nil
}

// ResolveBoard projects the snapshot onto one board. Ids without a boardsData
// entry resolve to the document's top-level roster.
func ResolveBoard(s *snapshot.Snapshot, id string) Board {
	if s == nil {
		return Board{ID: id}
	}
	if HasBoard(s, id) {
		bd := s.BoardsData[id]
		return Board{
			ID: id,
			Info: snapshot.BoardInfo{
				ID:         id,
				Name:       bd.BoardName,
				Project:    bd.Project,
				Components: bd.Components,
			},
			TeamSummary: bd.TeamSummary,
			Members:     bd.Members,
		}
	}

	b := Board{ID: id, TeamSummary: s.TeamSummary, Members: s.Members}
	if s.BoardInfo != nil {
		b.Info = *s.BoardInfo
	}
	return b
}

// DisplayName falls back to a generic title for boards without a name.
func (b Board) DisplayName() string {
	if b.Info.Name != "" {
		return b.Info.Name
	}
	return defaultBoardName
}
