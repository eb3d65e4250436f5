package tui

import "github.com/charmbracelet/lipgloss"

// Palette mirrors the CLI's style package (success/warning/error), kept
// separate since bubbletea styles render against a full-screen frame
// rather than a single line.
var (
	colorSuccess = lipgloss.AdaptiveColor{Light: "#2e7d32", Dark: "#7ec699"}
	colorWarning = lipgloss.AdaptiveColor{Light: "#b26a00", Dark: "#e5c07b"}
	colorError   = lipgloss.AdaptiveColor{Light: "#b00020", Dark: "#e06c75"}
	colorDim     = lipgloss.AdaptiveColor{Light: "#6b6b6b", Dark: "#6b7280"}
	colorAccent  = lipgloss.AdaptiveColor{Light: "#1565c0", Dark: "#59c2ff"}

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Padding(0, 1)
	rowStyle    = lipgloss.NewStyle().Padding(0, 1)
	dimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	helpStyle   = lipgloss.NewStyle().Foreground(colorDim).Padding(1, 1, 0)

	statusRunningStyle = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	statusStoppedStyle = lipgloss.NewStyle().Foreground(colorDim)
	statusOtherStyle   = lipgloss.NewStyle().Foreground(colorWarning)

	selectedRowStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	errorStyle       = lipgloss.NewStyle().Foreground(colorError).Bold(true)
)
