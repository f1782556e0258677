package editor

import (
	"clipforge/timeutil"
)

// Handle identifies a draggable timeline control.
type Handle int

const (
	HandleNone Handle = iota
	HandleStart
	HandleEnd
	HandlePlayhead
)

func (h Handle) String() string {
	switch h {
	case HandleStart:
		return "start"
	case HandleEnd:
		return "end"
	case HandlePlayhead:
		return "playhead"
	default:
		return "none"
	}
}

// Timeline keeps the trim selection and playhead for one loaded video
// mutually consistent while the user scrubs. It is a plain state machine:
// callers feed it pointer events (in track-local X coordinates) and a frame
// tick, and read positions back out.
//
// Start/End handle moves are coalesced to at most one apply per frame tick
// to bound work under fast pointer movement; playhead moves are applied
// immediately and track the pointer at full responsiveness. The position
// carried by a pointer-up is always applied, even when frame ticks were
// skipped.
type Timeline struct {
	duration   float64
	trackWidth float64

	startPct    float64
	endPct      float64
	playheadSec float64

	disabled bool
	drag     Handle

	pendingSec float64
	pendingSet bool
}

// NewTimeline creates a timeline for a video of the given duration rendered
// over a track of the given width. The selection starts at the full range
// with the playhead at zero.
func NewTimeline(duration, trackWidth float64) *Timeline {
	return &Timeline{
		duration:   duration,
		trackWidth: trackWidth,
		startPct:   0,
		endPct:     100,
	}
}

// SetTrackWidth updates the pixel width used to convert pointer positions
// (e.g. after a window resize).
func (t *Timeline) SetTrackWidth(w float64) { t.trackWidth = w }

func (t *Timeline) Duration() float64    { return t.duration }
func (t *Timeline) StartPct() float64    { return t.startPct }
func (t *Timeline) EndPct() float64      { return t.endPct }
func (t *Timeline) PlayheadSec() float64 { return t.playheadSec }
func (t *Timeline) Dragging() Handle     { return t.drag }
func (t *Timeline) Disabled() bool       { return t.disabled }

// StartSec resolves the selection start to absolute seconds.
func (t *Timeline) StartSec() float64 { return timeutil.ToSec(t.startPct, t.duration) }

// EndSec resolves the selection end to absolute seconds.
func (t *Timeline) EndSec() float64 { return timeutil.ToSec(t.endPct, t.duration) }

// MinSelectableSec is the smallest allowed selection, a fixed fraction of
// the total duration. Zero-duration media cannot satisfy it, so its handles
// are not draggable.
func (t *Timeline) MinSelectableSec() float64 {
	return t.duration * MinSelectablePct / 100
}

// Selection returns the current trim range.
func (t *Timeline) Selection() TrimRange {
	return TrimRange{StartPct: t.startPct, EndPct: t.endPct}
}

// SetDisabled toggles pointer input. Disabling force-ends any active drag;
// a coalesced move that was still pending is applied first so the last
// observed position is not lost.
func (t *Timeline) SetDisabled(disabled bool) {
	if disabled && t.drag != HandleNone {
		t.applyPending()
		t.drag = HandleNone
	}
	t.disabled = disabled
}

// PointerDown begins a drag on the given handle, or seeks when the press
// lands on the track body (HandleNone). Returns true if a drag started.
// Zero-duration media never starts a drag: the minimum selection cannot be
// satisfied.
func (t *Timeline) PointerDown(h Handle, x float64) bool {
	if t.disabled || t.drag != HandleNone || t.duration <= 0 {
		return false
	}
	if h == HandleNone {
		t.seek(t.timeAt(x))
		return false
	}
	t.drag = h
	t.PointerMove(x)
	return true
}

// PointerMove feeds a pointer position while a drag is active. Playhead
// drags apply immediately; Start/End drags record a pending position that
// FrameTick applies.
func (t *Timeline) PointerMove(x float64) {
	if t.disabled || t.drag == HandleNone {
		return
	}
	sec := t.timeAt(x)
	if t.drag == HandlePlayhead {
		t.seek(sec)
		return
	}
	t.pendingSec = sec
	t.pendingSet = true
}

// FrameTick applies at most one coalesced Start/End move. Call once per
// animation frame while a drag is active.
func (t *Timeline) FrameTick() {
	t.applyPending()
}

// PointerUp ends the active drag. The release position is applied
// unconditionally, so a burst of moves followed by a release converges to
// the same final state as uncoalesced handling — including releases outside
// the track bounds, which clamp like any other position.
func (t *Timeline) PointerUp(x float64) {
	if t.drag == HandleNone {
		return
	}
	if t.drag == HandlePlayhead {
		t.seek(t.timeAt(x))
	} else {
		t.pendingSec = t.timeAt(x)
		t.pendingSet = true
		t.applyPending()
	}
	t.drag = HandleNone
}

func (t *Timeline) applyPending() {
	if !t.pendingSet {
		return
	}
	sec := t.pendingSec
	t.pendingSet = false
	switch t.drag {
	case HandleStart:
		t.moveStart(sec)
	case HandleEnd:
		t.moveEnd(sec)
	}
}

// timeAt converts a track-local X offset into media seconds, clamping to
// the track bounds first so pointer positions outside the widget never
// extrapolate past either edge.
func (t *Timeline) timeAt(x float64) float64 {
	if t.trackWidth <= 0 || t.duration <= 0 {
		return 0
	}
	x = timeutil.Clamp(x, 0, t.trackWidth)
	return x / t.trackWidth * t.duration
}

func (t *Timeline) moveStart(sec float64) {
	sec = timeutil.Clamp(sec, 0, t.EndSec()-t.MinSelectableSec())
	t.startPct = timeutil.ToPct(sec, t.duration)
	if t.playheadSec < sec {
		t.playheadSec = sec
	}
}

func (t *Timeline) moveEnd(sec float64) {
	sec = timeutil.Clamp(sec, t.StartSec()+t.MinSelectableSec(), t.duration)
	t.endPct = timeutil.ToPct(sec, t.duration)
	if t.playheadSec > sec {
		t.playheadSec = sec
	}
}

func (t *Timeline) seek(sec float64) {
	t.playheadSec = timeutil.Clamp(sec, t.StartSec(), t.EndSec())
}
