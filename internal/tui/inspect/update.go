package inspect

import tea "github.com/charmbracelet/bubbletea"

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.content.Width = msg.Width
		m.content.Height = msg.Height - 4
		return m, nil

	case tea.KeyMsg:
		next, cmd := m.handleKeyPress(msg)
		nm := next.(Model)
		if nm.viewMode == ViewDetail {
			nm.content.SetContent(nm.renderDetailBody())
		}
		var vpCmd tea.Cmd
		nm.content, vpCmd = nm.content.Update(msg)
		return nm, tea.Batch(cmd, vpCmd)
	}
	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.viewMode == ViewHelp {
		switch msg.String() {
		case "?", "esc":
			m.viewMode = ViewList
		case "q", "ctrl+c":
			return m, tea.Quit
		}
		return m, nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.viewMode == ViewList {
			m.moveCursor(-1)
		}
	case "down", "j":
		if m.viewMode == ViewList {
			m.moveCursor(1)
		}
	case "enter":
		if m.viewMode == ViewList {
			m.viewMode = ViewDetail
		}
	case "esc":
		m.viewMode = ViewList
	case "?":
		m.viewMode = ViewHelp
	}
	return m, nil
}

func (m *Model) moveCursor(delta int) {
	if len(m.order) == 0 {
		return
	}
	m.cursor = (m.cursor + delta + len(m.order)) % len(m.order)
}
