package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// FormatError renders an error for the terminal. Errors carrying format help
// after a blank line are boxed with the help dimmed below the headline.
func FormatError(err error) string {
	msg := err.Error()
	parts := strings.SplitN(msg, "\n\n", 2)
	if len(parts) != 2 {
		return Current.Error.Render("Error: " + msg)
	}

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(defaultColors.Error).
		Render(parts[0])

	details := lipgloss.NewStyle().
		Foreground(defaultColors.Subtle).
		Render(parts[1])

	return Current.ErrorBox.Render(fmt.Sprintf("%s\n\n%s", header, details))
}
