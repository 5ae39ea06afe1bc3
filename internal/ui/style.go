// Package ui provides the status dashboard shown with --tui.
package ui

import "github.com/charmbracelet/lipgloss"

// Colors defines the color scheme used throughout the application
type Colors struct {
	Subtle    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Special   lipgloss.AdaptiveColor
	Warning   lipgloss.AdaptiveColor
	Error     lipgloss.AdaptiveColor
}

var defaultColors = Colors{
	Subtle:    lipgloss.AdaptiveColor{Light: "#666666", Dark: "#999999"},
	Highlight: lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"},
	Special:   lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"},
	Warning:   lipgloss.AdaptiveColor{Light: "#C98A00", Dark: "#F5C542"},
	Error:     lipgloss.AdaptiveColor{Light: "#FF0000", Dark: "#FF4040"},
}

// Style represents a collection of styles used in the application
type Style struct {
	Title                lipgloss.Style
	Version              lipgloss.Style
	Monitoring           lipgloss.Style
	Intervening          lipgloss.Style
	Paused               lipgloss.Style
	Label                lipgloss.Style
	Value                lipgloss.Style
	Warning              lipgloss.Style
	Help                 lipgloss.Style
	Error                lipgloss.Style
	ErrorBox             lipgloss.Style
	ProgressBar          lipgloss.Style
	ProgressBarContainer lipgloss.Style
}

// DefaultStyle returns the default style configuration
func DefaultStyle() Style {
	base := lipgloss.NewStyle().
		PaddingLeft(1).
		PaddingRight(1)

	return Style{
		Title: base.
			Bold(true).
			Foreground(defaultColors.Highlight),

		Version: lipgloss.NewStyle().
			Foreground(defaultColors.Subtle),

		Monitoring: base.
			Bold(true).
			Foreground(defaultColors.Special),

		Intervening: base.
			Bold(true).
			Foreground(defaultColors.Highlight),

		Paused: base.
			Bold(true).
			Foreground(defaultColors.Subtle),

		Label: base.
			Width(16).
			Foreground(defaultColors.Subtle),

		Value: lipgloss.NewStyle(),

		Warning: base.
			Foreground(defaultColors.Warning),

		Help: base.
			Foreground(defaultColors.Subtle),

		Error: base.
			Foreground(defaultColors.Error),

		ErrorBox: base.
			Border(lipgloss.RoundedBorder()).
			BorderForeground(defaultColors.Error).
			Padding(0, 1),

		ProgressBar: lipgloss.NewStyle().
			Background(lipgloss.Color("#3C3C3C")),

		ProgressBarContainer: base,
	}
}

// Current holds the current style configuration
var Current = DefaultStyle()
