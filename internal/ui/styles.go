package ui

import "github.com/charmbracelet/lipgloss"

var (
	primaryColor = lipgloss.Color("62")
	grayColor    = lipgloss.Color("240")
	accentColor  = lipgloss.Color("205")

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(primaryColor).
			Padding(0, 1).
			Bold(true)

	systemStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(grayColor)

	selectedRowStyle = lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	rowStyle         = lipgloss.NewStyle()

	focusedWidgetStyle   = lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	unfocusedWidgetStyle = lipgloss.NewStyle()
)

// styleFor maps a Styled() tag to a lipgloss style, matching what the
// instruction/question variants pass.
func styleFor(tag string) lipgloss.Style {
	switch tag {
	case "header":
		return headerStyle
	case "system":
		return systemStyle
	case "error":
		return errorStyle
	default:
		return rowStyle
	}
}
