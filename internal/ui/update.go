package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// RefreshInterval is how often the dashboard polls the keeper.
const RefreshInterval = time.Second

// tickMsg is sent when the refresh timer fires.
type tickMsg time.Time

// Update handles messages and updates the model accordingly.
func Update(msg tea.Msg, m Model) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		m.refresh()
		if !m.running {
			// A timed run expired or the keeper was stopped elsewhere.
			m.quitting = true
			return m, tea.Quit
		}
		return m, tick()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			if err := m.keeper.Stop(); err != nil {
				m.ErrorMessage = err.Error()
			}
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.ToggleHelp):
			m.ShowHelp = !m.ShowHelp
			m.help.ShowAll = m.ShowHelp
			return m, nil
		case key.Matches(msg, m.keys.Pause):
			m.keeper.SetSimulateActivity(!m.keeper.SimulateActivity())
			m.refresh()
			return m, nil
		}
	}

	return m, nil
}

func tick() tea.Cmd {
	return tea.Tick(RefreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
