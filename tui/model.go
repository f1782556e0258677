package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"clipforge/editor"
)

// defaultTrackWidth is used until the first window size message arrives.
const defaultTrackWidth = 60

// Model is the interactive timeline scrubber. It is a thin shell around the
// editor.Timeline state machine: mouse events become pointer events, the
// frame tick drives the coalescer, and View renders whatever the state
// machine currently holds.
type Model struct {
	timeline *editor.Timeline
	path     string

	trackWidth int
	mouseDown  bool

	// selected is the handle keyboard nudges apply to.
	selected editor.Handle

	quitting bool
}

// NewModel creates a scrubber for a local media file of the given duration.
func NewModel(path string, duration float64) Model {
	return Model{
		timeline:   editor.NewTimeline(duration, float64(defaultTrackWidth)),
		path:       path,
		trackWidth: defaultTrackWidth,
		selected:   editor.HandlePlayhead,
	}
}

// Init implements tea.Model interface
func (m Model) Init() tea.Cmd {
	return frameTick()
}

// cellOf converts a timeline percentage to a track cell index.
func (m Model) cellOf(pct float64) int {
	cell := int(pct / 100 * float64(m.trackWidth-1))
	if cell < 0 {
		cell = 0
	}
	if cell > m.trackWidth-1 {
		cell = m.trackWidth - 1
	}
	return cell
}

func (m Model) startCell() int { return m.cellOf(m.timeline.StartPct()) }
func (m Model) endCell() int   { return m.cellOf(m.timeline.EndPct()) }

func (m Model) playheadCell() int {
	d := m.timeline.Duration()
	if d <= 0 {
		return 0
	}
	return m.cellOf(m.timeline.PlayheadSec() / d * 100)
}

// hitTest picks the handle under a track cell, favoring the playhead so a
// fully collapsed view stays scrubbable; a miss means the track body.
func (m Model) hitTest(cell int) editor.Handle {
	abs := func(n int) int {
		if n < 0 {
			return -n
		}
		return n
	}
	if abs(cell-m.playheadCell()) <= 1 {
		return editor.HandlePlayhead
	}
	if abs(cell-m.startCell()) <= 1 {
		return editor.HandleStart
	}
	if abs(cell-m.endCell()) <= 1 {
		return editor.HandleEnd
	}
	return editor.HandleNone
}
