package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary = lipgloss.Color("#8B5CF6")
	colorMuted   = lipgloss.Color("#666666")
	colorSuccess = lipgloss.Color("#2ECC71")
	colorWarning = lipgloss.Color("#F39C12")
	colorError   = lipgloss.Color("#E74C3C")
	colorSubtle  = lipgloss.Color("#414868")
)

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSubtle).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	elapsedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorSuccess)

	pendingStyle = lipgloss.NewStyle().
			Foreground(colorWarning)

	subtleStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	statusStyle = lipgloss.NewStyle().
			Foreground(colorSuccess)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError)
)
