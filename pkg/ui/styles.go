package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	// Neon palette shared by the plain output and the progress view
	NeonCyan    = lipgloss.Color("#00FFFF")
	NeonMagenta = lipgloss.Color("#FF00FF")
	NeonGreen   = lipgloss.Color("#39FF14")
	NeonYellow  = lipgloss.Color("#FFFF00")
	NeonOrange  = lipgloss.Color("#FF6700")
	AlertRed    = lipgloss.Color("#FF0000")
	DarkBg      = lipgloss.Color("#0A0E27")
	DimWhite    = lipgloss.Color("#B0B0B0")

	logoStyle = lipgloss.NewStyle().
			Foreground(NeonCyan).
			Bold(true)

	headingStyle = lipgloss.NewStyle().
			Foreground(NeonMagenta).
			Bold(true).
			MarginTop(1)

	// LabelStyle renders the left side of a label/value pair
	LabelStyle = lipgloss.NewStyle().
			Foreground(NeonCyan).
			Bold(true)

	// ValueStyle renders the right side of a label/value pair
	ValueStyle = lipgloss.NewStyle().
			Foreground(NeonYellow)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(NeonGreen).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(AlertRed).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(NeonOrange).
			Bold(true)

	DimStyle = lipgloss.NewStyle().
			Foreground(DimWhite)

	// Tables
	tableBorderStyle = lipgloss.NewStyle().
				Foreground(NeonMagenta)

	tableHeaderStyle = lipgloss.NewStyle().
				Foreground(NeonCyan).
				Bold(true).
				Padding(0, 1)

	tableCellStyle = lipgloss.NewStyle().
			Foreground(DimWhite).
			Padding(0, 1)

	tableAbortedStyle = tableCellStyle.
				Foreground(NeonOrange)
)
