package ui

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/wrap"
)

// defaultWrapWidth is used before the first WindowSizeMsg arrives, when
// Model.width is still its zero value.
const defaultWrapWidth = 80

func (m *Model) View() string {
	switch m.screen {
	case screenRunning:
		return m.viewRunning()
	default:
		return m.viewSelect()
	}
}

func (m *Model) viewRunning() string {
	var b strings.Builder
	if m.sc == nil {
		return "loading..."
	}
	width := m.width
	if width <= 0 {
		width = defaultWrapWidth
	}
	for _, d := range m.sc.items {
		b.WriteString(renderDrawn(d, width))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("tab cycle focus · esc esc interrupts"))
	return b.String()
}

func renderDrawn(d drawn, width int) string {
	prefix := indent(d.depth)
	style := unfocusedWidgetStyle
	if d.active {
		style = focusedWidgetStyle
	}

	// Instruction/Question panels route arbitrarily long prose through
	// Text/Styled; wrap it to the available width before rendering rather
	// than letting the terminal hard-truncate or line-wrap mid-word.
	textWidth := width - len(prefix)
	if textWidth < 10 {
		textWidth = 10
	}

	switch d.kind {
	case widgetText:
		return indentLines(prefix, styleFor(d.style).Render(wrap.String(d.text, textWidth)))
	case widgetButton:
		return prefix + style.Render(fmt.Sprintf("[ %s ]", d.text))
	case widgetImage:
		return prefix + dimStyle.Render(d.text)
	case widgetSlider:
		filled := int(d.value * 20)
		bar := strings.Repeat("=", filled) + strings.Repeat("-", 20-filled)
		return prefix + style.Render(fmt.Sprintf("%s [%s] %.2f", d.text, bar, d.value))
	case widgetRadio:
		var opts []string
		for i, o := range d.options {
			mark := "( )"
			if i == d.radio {
				mark = "(x)"
			}
			opts = append(opts, mark+" "+o)
		}
		return prefix + style.Render(d.text+": "+strings.Join(opts, "  "))
	case widgetCheck:
		var opts []string
		for i, o := range d.options {
			mark := "[ ]"
			if d.checked[i] {
				mark = "[x]"
			}
			opts = append(opts, mark+" "+o)
		}
		return prefix + style.Render(d.text+": "+strings.Join(opts, "  "))
	case widgetInput:
		return prefix + style.Render(d.text)
	default:
		return prefix
	}
}

// indentLines prepends prefix to every line of s, so a word-wrapped
// multi-line block stays aligned under its Rect nesting depth.
func indentLines(prefix, s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}
