package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case frameMsg:
		if m.screen == screenRunning {
			m.render()
		}
		return m, tickCmd()

	case blockFinishedMsg:
		m.finishBlock("")
		return m, nil

	case blockCrashedMsg:
		m.finishBlock("crashed: " + msg.err.Error())
		return m, nil

	case blockInterruptedMsg:
		m.finishBlock("interrupted: " + msg.reason)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// finishBlock tears down the running scheduler and returns to the
// selection screen with status as the reported outcome.
func (m *Model) finishBlock(status string) {
	if m.sched != nil {
		m.sched.Finish()
	}
	m.sched = nil
	m.cb = nil
	m.sc = nil
	m.screen = screenSelect
	m.status = status
}

// render asks the Scheduler to draw the current frame into a fresh scene,
// consuming the pending key edit recorded since the last frame.
func (m *Model) render() {
	sc := &scene{focus: m.focusCount, key: m.pendingKey, textEdit: m.pendingText}
	m.pendingKey = ""
	m.pendingText = ""

	if err := m.sched.Frame(newSceneUI(sc)); err != nil {
		m.status = "frame: " + err.Error()
	}
	m.sc = sc
	if m.sc.next > 0 {
		m.focusCount %= m.sc.next
	} else {
		m.focusCount = 0
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.screen == screenSelect {
		return m.handleSelectKey(msg)
	}
	return m.handleRunningKey(msg)
}

func (m *Model) handleRunningKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if m.sched != nil {
		keys := map[string]struct{}{key: {}}
		m.sched.KeyPress(time.Since(m.blockStart), keys)
	}

	switch key {
	case "tab":
		m.focusCount++
	case "shift+tab":
		m.focusCount--
		if m.focusCount < 0 {
			if m.sc != nil && m.sc.next > 0 {
				m.focusCount = m.sc.next - 1
			} else {
				m.focusCount = 0
			}
		}
	case "up", "down", "left", "right", "enter", "backspace", " ":
		if key == " " {
			m.pendingKey = "space"
		} else {
			m.pendingKey = key
		}
	case "esc":
		// escape is forwarded to the scheduler above; the double-press
		// interrupt decision lives in scheduler.Scheduler.KeyPress.
	default:
		if msg.Type == tea.KeyRunes {
			m.pendingText += string(msg.Runes)
		}
	}
	return m, nil
}
