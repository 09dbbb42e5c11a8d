package tui

import "github.com/charmbracelet/lipgloss"

var (
	primary = lipgloss.Color("#7C3AED")
	success = lipgloss.Color("#10B981")
	muted   = lipgloss.Color("#6B7280")
	warning = lipgloss.Color("#F59E0B")
	danger  = lipgloss.Color("#EF4444")
	white   = lipgloss.Color("#FFFFFF")

	appStyle = lipgloss.NewStyle().
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primary)

	labelStyle = lipgloss.NewStyle().
			Foreground(muted)

	fieldStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(muted).
			Padding(0, 1)

	focusedFieldStyle = fieldStyle.
				BorderForeground(primary).
				Foreground(white).
				Bold(true)

	freshStyle = lipgloss.NewStyle().Foreground(success)
	staleStyle = lipgloss.NewStyle().Foreground(warning)

	messageStyle = lipgloss.NewStyle().Foreground(success)
	errorStyle   = lipgloss.NewStyle().Foreground(danger)

	helpKeyStyle  = lipgloss.NewStyle().Foreground(primary).Bold(true)
	helpDescStyle = lipgloss.NewStyle().Foreground(muted)
	helpSeparator = lipgloss.NewStyle().Foreground(muted).SetString(" • ")
)
