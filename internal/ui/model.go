package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/stigoleg/mousemover/internal/keepalive"
)

// Controller is the part of the keeper the dashboard drives.
type Controller interface {
	IsRunning() bool
	Snapshot() keepalive.Status
	TimeRemaining() time.Duration
	SimulateActivity() bool
	SetSimulateActivity(bool)
	Stop() error
}

// Model is the dashboard state. It reads the keeper on every tick and never
// writes to it except through the pause and quit keys.
type Model struct {
	keeper Controller
	keys   KeyMap
	help   help.Model

	status    keepalive.Status
	running   bool
	remaining time.Duration
	// total is the length of a timed run; zero for indefinite runs.
	total time.Duration

	version      string
	ShowHelp     bool
	ErrorMessage string
	quitting     bool
}

// NewModel returns a dashboard for a keeper that is already running.
func NewModel(keeper Controller, total time.Duration) Model {
	m := Model{
		keeper: keeper,
		keys:   DefaultKeys(),
		help:   NewHelpModel(),
		total:  total,
	}
	m.refresh()
	return m
}

// SetVersion sets the version shown in the title.
func (m *Model) SetVersion(v string) {
	m.version = v
}

// State returns the headline state as of the last refresh.
func (m Model) State() State {
	return stateOf(m.running, m.status)
}

func (m *Model) refresh() {
	m.running = m.keeper.IsRunning()
	m.status = m.keeper.Snapshot()
	m.remaining = m.keeper.TimeRemaining()
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tick()
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return Update(msg, m)
}

// View implements tea.Model
func (m Model) View() string {
	return View(m)
}
