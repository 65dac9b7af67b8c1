package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// refreshMsg asks the update loop to start a fetch. Init cannot mutate
// the model, so the initial load is routed through Update like any other
// refresh.
type refreshMsg struct{}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, func() tea.Msg { return refreshMsg{} })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		if m.loading {
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil

	case refreshMsg:
		return m, m.startFetch()

	case dashboardMsg:
		if m.sessionExpired(msg) {
			m.notice = "Your session has expired. Please log in again."
			m.quitting = true
			return m, tea.Quit
		}
		m.applyFetch(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)
	}

	return m, nil
}

func (m Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case ModeDetail, ModeHelp:
		switch {
		case key.Matches(msg, keys.Escape), key.Matches(msg, keys.Enter):
			m.mode = ModeList
			m.detail = nil
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Quit):
		if m.cancel != nil {
			m.cancel()
		}
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, keys.Refresh):
		return m, tea.Batch(m.spin.Tick, m.startFetch())

	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.txs)-1 {
			m.cursor++
		}

	case key.Matches(msg, keys.Enter):
		if m.cursor < len(m.txs) {
			tx := m.txs[m.cursor]
			m.detail = &tx
			m.mode = ModeDetail
		}

	case key.Matches(msg, keys.Help):
		m.mode = ModeHelp
	}

	return m, nil
}
