package ui

import "github.com/stigoleg/mousemover/internal/keepalive"

// State is what the dashboard shows as the headline.
type State int

const (
	StateMonitoring State = iota
	StateIntervening
	StatePaused
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateMonitoring:
		return "Monitoring"
	case StateIntervening:
		return "Moving mouse"
	case StatePaused:
		return "Paused"
	case StateStopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}

// stateOf derives the headline state from a loop snapshot.
func stateOf(running bool, s keepalive.Status) State {
	switch {
	case !running:
		return StateStopped
	case s.Intervening:
		return StateIntervening
	case !s.Enabled:
		return StatePaused
	default:
		return StateMonitoring
	}
}
