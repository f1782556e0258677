package tui

import "time"

// FrameTickMsg drives the timeline's drag coalescer: one apply of pending
// start/end handle moves per frame.
type FrameTickMsg struct {
	Time time.Time
}
