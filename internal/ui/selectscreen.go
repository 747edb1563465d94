package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// viewSelect renders the block-selection listing backed by
// task.Task.BlockSummaries().
func (m *Model) viewSelect() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf(" %s ", m.task.Name)))
	b.WriteString("\n")
	if m.task.Description != "" {
		b.WriteString(dimStyle.Render(m.task.Description))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for i, s := range m.task.BlockSummaries() {
		line := fmt.Sprintf("%s  %s", s.Name, dimStyle.Render(s.Description))
		if i == m.cursor {
			line = selectedRowStyle.Render("> " + line)
		} else {
			line = rowStyle.Render("  " + line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("↑/↓ select · enter run · q quit"))
	return b.String()
}

func (m *Model) handleSelectKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	summaries := m.task.BlockSummaries()
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(summaries)-1 {
			m.cursor++
		}
	case "enter":
		if m.cursor >= 0 && m.cursor < len(summaries) {
			b, err := m.task.Find(summaries[m.cursor].Name)
			if err != nil {
				m.status = err.Error()
				return m, nil
			}
			return m, m.launch(b)
		}
	case "q":
		return m, tea.Quit
	}
	return m, nil
}
