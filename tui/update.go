package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"clipforge/editor"
)

// Update implements tea.Model interface
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case tea.WindowSizeMsg:
		return m.handleResize(msg)
	case FrameTickMsg:
		m.timeline.FrameTick()
		return m, frameTick()
	}
	return m, nil
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit
	case "s":
		m.selected = editor.HandleStart
	case "e":
		m.selected = editor.HandleEnd
	case "p":
		m.selected = editor.HandlePlayhead
	case "left":
		m.nudge(-1)
	case "right":
		m.nudge(1)
	}
	return m, nil
}

// nudge moves the keyboard-selected handle by one track cell, going through
// the same pointer path the mouse uses so all clamping applies.
func (m *Model) nudge(cells int) {
	if m.timeline.Dragging() != editor.HandleNone {
		return
	}
	var cell int
	switch m.selected {
	case editor.HandleStart:
		cell = m.startCell()
	case editor.HandleEnd:
		cell = m.endCell()
	default:
		cell = m.playheadCell()
	}
	x := float64(cell + cells)
	if m.timeline.PointerDown(m.selected, x) {
		m.timeline.PointerUp(x)
	}
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	x := float64(msg.X - trackLeftPad)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		m.mouseDown = true
		cell := msg.X - trackLeftPad
		m.timeline.PointerDown(m.hitTest(cell), x)
	case tea.MouseActionMotion:
		if m.mouseDown {
			m.timeline.PointerMove(x)
		}
	case tea.MouseActionRelease:
		if m.mouseDown {
			m.mouseDown = false
			// Releases outside the track still end the drag; the position
			// clamps inside the state machine.
			m.timeline.PointerUp(x)
		}
	}
	return m, nil
}

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	w := msg.Width - 2*trackLeftPad
	if w < 10 {
		w = 10
	}
	m.trackWidth = w
	m.timeline.SetTrackWidth(float64(w))
	return m, nil
}
