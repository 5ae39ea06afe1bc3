package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/stigoleg/mousemover/internal/keepalive"
)

// progressWidth matches the width of the help line.
const progressWidth = 30

// gradientColors runs from the highlight purple to the special green.
var gradientColors = []string{
	"#7D56F4", "#6E5AF5", "#5F5FF7", "#5063F8", "#4168FA",
	"#326CFB", "#2371FD", "#1475FE", "#057AFF", "#007FF5",
	"#0085E6", "#008BD7", "#0091C8", "#0097B9", "#009DAA",
	"#00A39B", "#00A98C", "#00AF7D", "#00B56E", "#00BB5F",
	"#43BF6D",
}

// View renders the current state of the model to a string.
func View(m Model) string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	title := Current.Title.Render("Mouse Mover")
	if m.version != "" {
		title += Current.Version.Render("v" + m.version)
	}
	b.WriteString(title + "\n\n")

	b.WriteString(stateLine(m.State()) + "\n\n")
	b.WriteString(statusView(m.status))

	if m.total > 0 {
		b.WriteString("\n")
		b.WriteString(row("Remaining", formatRemaining(m.remaining)))
		b.WriteString(Current.ProgressBarContainer.Render(progressBar(m.remaining, m.total)))
		b.WriteString("\n")
	}

	if m.status.Mode == keepalive.ModePollOnly {
		b.WriteString("\n" + Current.Warning.Render("Global input hook unavailable; only pointer movement counts as activity."))
		b.WriteString("\n")
	}

	if m.ErrorMessage != "" {
		b.WriteString("\n" + Current.Error.Render(m.ErrorMessage) + "\n")
	}

	b.WriteString("\n" + Current.Help.Render(m.help.View(m.keys)))
	return b.String()
}

func stateLine(s State) string {
	switch s {
	case StateIntervening:
		return Current.Intervening.Render("● " + s.String())
	case StatePaused:
		return Current.Paused.Render("‖ " + s.String())
	case StateStopped:
		return Current.Paused.Render("■ " + s.String())
	default:
		return Current.Monitoring.Render("● " + s.String())
	}
}

func statusView(s keepalive.Status) string {
	var b strings.Builder

	b.WriteString(row("Idle", fmt.Sprintf("%s / %s", s.Idle.Truncate(time.Second), s.Threshold)))
	b.WriteString(row("Detection", s.Mode.String()))

	episodes := fmt.Sprintf("%d", s.Episodes)
	if s.FailedEpisodes > 0 {
		episodes = fmt.Sprintf("%d (%d failed)", s.Episodes, s.FailedEpisodes)
	}
	b.WriteString(row("Movements", episodes))

	last := "never"
	if !s.LastEpisode.IsZero() {
		last = s.LastEpisode.Format("15:04:05")
	}
	b.WriteString(row("Last movement", last))
	b.WriteString(row("Cursor health", s.Health.String()))
	b.WriteString(row("Input events", fmt.Sprintf("%d hook, %d polled", s.Activity.Notifications, s.Activity.PointerMoves)))

	if s.LastError != "" {
		b.WriteString(row("Last error", Current.Error.Render(s.LastError)))
	}
	return b.String()
}

func row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, Current.Label.Render(label), Current.Value.Render(value)) + "\n"
}

func formatRemaining(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

func progressBar(remaining, total time.Duration) string {
	progress := 1.0 - float64(remaining)/float64(total)
	filled := min(max(int(progress*progressWidth), 0), progressWidth)

	var bar strings.Builder
	for i := range progressWidth {
		if i >= filled {
			bar.WriteString(Current.ProgressBar.Render(" "))
			continue
		}
		idx := i * (len(gradientColors) - 1) / progressWidth
		bar.WriteString(Current.ProgressBar.Background(lipgloss.Color(gradientColors[idx])).Render(" "))
	}
	return bar.String()
}
