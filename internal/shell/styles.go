package shell

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent  = lipgloss.Color("#2CD7C7")
	colorWarning = lipgloss.Color("#F4D03F")
	colorMuted   = lipgloss.Color("#6C7A89")

	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	successStyle   = lipgloss.NewStyle().Foreground(colorAccent)
	warningStyle   = lipgloss.NewStyle().Foreground(colorWarning)
	mutedStyle     = lipgloss.NewStyle().Foreground(colorMuted)
	highlightStyle = lipgloss.NewStyle().Bold(true)
)
