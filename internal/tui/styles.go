package tui

import "github.com/charmbracelet/lipgloss"

// Layout constants shared by the views.
const (
	defaultWidth  = 100
	defaultHeight = 24
	borderPadding = 4
	minHeight     = 5
	chromeHeight  = 7
)

// Palette.
var (
	colorAccent  = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7D79F6"}
	colorSubtle  = lipgloss.AdaptiveColor{Light: "#8A8A8A", Dark: "#6C6C6C"}
	colorWarning = lipgloss.AdaptiveColor{Light: "#B58900", Dark: "#E5C07B"}
	colorError   = lipgloss.AdaptiveColor{Light: "#C0392B", Dark: "#E06C75"}
	colorOK      = lipgloss.AdaptiveColor{Light: "#2E8B57", Dark: "#98C379"}
)

// Styles used across the browser and the styled CLI renderer.
var (
	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	LabelStyle  = lipgloss.NewStyle().Foreground(colorSubtle)
	ValueStyle  = lipgloss.NewStyle()
	SubtleStyle = lipgloss.NewStyle().Foreground(colorSubtle)
	InfoStyle   = lipgloss.NewStyle().Foreground(colorAccent)

	WarningStyle  = lipgloss.NewStyle().Foreground(colorWarning)
	CriticalStyle = lipgloss.NewStyle().Bold(true).Foreground(colorError)
	OKStyle       = lipgloss.NewStyle().Foreground(colorOK)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(0, 1)

	TabStyle       = lipgloss.NewStyle().Padding(0, 1).Foreground(colorSubtle)
	ActiveTabStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true).Underline(true).Foreground(colorAccent)

	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderBottom(true).
				BorderForeground(colorSubtle)
	TableSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)

	CurrentPageStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
)
