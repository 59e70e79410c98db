package tui

import (
	"github.com/charmbracelet/lipgloss"

	"marketpulse/pkg/ui"
)

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ui.NeonMagenta).
			Padding(0, 2)

	titleStyle = lipgloss.NewStyle().
			Background(ui.NeonMagenta).
			Foreground(ui.DarkBg).
			Bold(true).
			Padding(0, 1)

	statsLabelStyle = ui.LabelStyle
	statsValueStyle = ui.ValueStyle

	activeStyle = lipgloss.NewStyle().
			Foreground(ui.NeonGreen).
			Bold(true)

	doneStyle = lipgloss.NewStyle().
			Foreground(ui.DimWhite).
			Faint(true)

	pendingStyle = lipgloss.NewStyle().
			Foreground(ui.DimWhite)

	cooldownStyle = lipgloss.NewStyle().
			Foreground(ui.NeonOrange).
			Bold(true)

	logTimeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")).
			PaddingLeft(2)
)

// levelStyle colors a log line by its level
func levelStyle(level string) lipgloss.Style {
	switch level {
	case "ERROR":
		return ui.ErrorStyle
	case "WARN":
		return ui.WarningStyle
	case "SUCCESS":
		return ui.SuccessStyle
	default:
		return ui.DimStyle
	}
}
