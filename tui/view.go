package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"clipforge/editor"
	"clipforge/timeutil"
)

// View implements tea.Model interface
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	title := fmt.Sprintf("%s  (%s)", filepath.Base(m.path), timeutil.FormatClock(m.timeline.Duration()))
	b.WriteString(TitleStyle.Render(title))
	b.WriteString("\n")

	b.WriteString(strings.Repeat(" ", trackLeftPad))
	b.WriteString(m.renderTrack())
	b.WriteString("\n\n")

	b.WriteString(m.renderReadout())
	b.WriteString("\n")
	b.WriteString(InfoStyle.Render("mouse: drag handles / click to seek  ·  s/e/p: select handle  ·  ←/→: nudge  ·  q: quit"))
	b.WriteString("\n")

	return b.String()
}

func (m Model) renderTrack() string {
	start := m.startCell()
	end := m.endCell()
	playhead := m.playheadCell()

	var track strings.Builder
	for cell := 0; cell < m.trackWidth; cell++ {
		switch {
		case cell == playhead:
			track.WriteString(PlayheadStyle.Render("█"))
		case cell == start:
			track.WriteString(HandleStyle.Render("┣"))
		case cell == end:
			track.WriteString(HandleStyle.Render("┫"))
		case cell > start && cell < end:
			track.WriteString(SelectionStyle.Render("━"))
		default:
			track.WriteString(TrackStyle.Render("─"))
		}
	}
	return track.String()
}

func (m Model) renderReadout() string {
	mark := func(h editor.Handle, label string) string {
		if m.selected == h {
			return "▸ " + label
		}
		return "  " + label
	}

	lines := []string{
		fmt.Sprintf("%s  %s", mark(editor.HandleStart, "start"), timeutil.FormatPrecise(m.timeline.StartSec())),
		fmt.Sprintf("%s    %s", mark(editor.HandleEnd, "end"), timeutil.FormatPrecise(m.timeline.EndSec())),
		fmt.Sprintf("%s   %s", mark(editor.HandlePlayhead, "play"), timeutil.FormatPrecise(m.timeline.PlayheadSec())),
	}
	if drag := m.timeline.Dragging(); drag != editor.HandleNone {
		lines = append(lines, InfoStyle.Render(fmt.Sprintf("dragging %s", drag)))
	}
	return BoxStyle.Render(strings.Join(lines, "\n"))
}
