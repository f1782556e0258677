package tui

import "github.com/charmbracelet/lipgloss"

// trackLeftPad is the column where the track starts; mouse X positions are
// shifted by it before hitting the timeline.
const trackLeftPad = 2

// Color palette
const (
	colorPrimary   = "#7D56F4"
	colorSelection = "#04B575"
	colorPlayhead  = "#FAFAFA"
	colorInfo      = "#626262"
	colorBorder    = "#874BFD"
)

// Styles for the scrubber
var (
	TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colorPrimary)).
		MarginTop(1).
		MarginBottom(1)

	TrackStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(colorInfo))

	SelectionStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(colorSelection))

	HandleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colorSelection))

	PlayheadStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colorPlayhead))

	InfoStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(colorInfo))

	BoxStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(colorBorder)).
		Padding(1, 2)
)
