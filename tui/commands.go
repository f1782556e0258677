package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// frameRate approximates one animation frame; start/end handle moves are
// applied at most once per tick.
const frameRate = 50 * time.Millisecond

// frameTick creates a command that ticks once per frame
func frameTick() tea.Cmd {
	return tea.Tick(frameRate, func(t time.Time) tea.Msg {
		return FrameTickMsg{Time: t}
	})
}
