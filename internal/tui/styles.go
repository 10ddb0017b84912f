package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Status colors
	colorDone       = lipgloss.Color("46")  // green
	colorInProgress = lipgloss.Color("33")  // blue
	colorUAT        = lipgloss.Color("214") // orange
	colorToDo       = lipgloss.Color("240") // gray
	colorOver       = lipgloss.Color("196") // red
	colorAccent     = lipgloss.Color("39")
	colorMuted      = lipgloss.Color("240")

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent).
			PaddingLeft(1).
			PaddingRight(1)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")).
			MarginTop(1)

	boardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			PaddingLeft(1).
			PaddingRight(1)

	activeBoardStyle = boardStyle.
				Bold(true).
				Foreground(lipgloss.Color("16")).
				Background(colorAccent)

	tableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("252")).
				Underline(true)

	rowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	selectedRowStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorAccent).
				Background(lipgloss.Color("237"))

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(0, 1)

	noticeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("16")).
			Background(colorDone).
			Padding(0, 1)

	noticeErrorStyle = noticeStyle.
				Background(colorOver)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			MarginTop(1)

	emptyStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Italic(true)
)

func tierColor(tier int) lipgloss.Color {
	switch tier {
	case 1:
		return lipgloss.Color("220") // gold
	case 2:
		return lipgloss.Color("250") // silver
	case 3:
		return lipgloss.Color("173") // bronze
	default:
		return colorMuted
	}
}

func statusColor(status string) lipgloss.Color {
	switch status {
	case "done":
		return colorDone
	case "inProgress":
		return colorInProgress
	case "uat":
		return colorUAT
	case "toDo":
		return colorToDo
	default:
		return lipgloss.Color("252")
	}
}
