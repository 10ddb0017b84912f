package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit       key.Binding
	Refresh    key.Binding
	Period7    key.Binding
	Period15   key.Binding
	Period30   key.Binding
	NextBoard  key.Binding
	PrevBoard  key.Binding
	SortColumn key.Binding
	SortOrder  key.Binding
	Search     key.Binding
	Up         key.Binding
	Down       key.Binding
	Open       key.Binding
	Close      key.Binding
	Sprint     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Period7: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "7 days"),
		),
		Period15: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "15 days"),
		),
		Period30: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "30 days"),
		),
		NextBoard: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b/B", "board"),
		),
		PrevBoard: key.NewBinding(
			key.WithKeys("B"),
		),
		SortColumn: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sort column"),
		),
		SortOrder: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "sort order"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "details"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		Sprint: key.NewBinding(
			key.WithKeys("tab", "c", "p"),
			key.WithHelp("tab", "sprint"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Refresh, k.Period7, k.Period15, k.Period30, k.NextBoard, k.SortColumn, k.Search, k.Open}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Open, k.Close},
		{k.Period7, k.Period15, k.Period30, k.NextBoard},
		{k.SortColumn, k.SortOrder, k.Search, k.Sprint},
		{k.Refresh, k.Quit},
	}
}

// modalKeys is the help shown while the member modal is open.
type modalKeys struct {
	keyMap
}

func (k modalKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Close, k.Sprint, k.Up, k.Down, k.Period7, k.Period15, k.Period30, k.Quit}
}
