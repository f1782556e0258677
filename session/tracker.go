package session

import (
	"math/rand"
	"sync"

	"clipforge/config"
)

// ProcessingState is a snapshot of one processing run as the UI sees it.
type ProcessingState struct {
	IsProcessing bool    `json:"is_processing"`
	ProgressPct  float64 `json:"progress_pct"`
	Stage        string  `json:"stage"`
}

// Tracker merges engine-reported progress with a monotonic fallback
// estimator so the user always sees forward-moving progress, even when the
// engine's own reporting is sparse or delayed. Emitted progress never
// decreases within one run.
type Tracker struct {
	mu       sync.Mutex
	running  bool
	progress float64
	stage    string

	// step yields one bounded fallback increment per tick; swappable so
	// tests are deterministic.
	step func() float64
}

// NewTracker returns an idle tracker.
func NewTracker() *Tracker {
	return &Tracker{
		step: func() float64 { return rand.Float64() * config.FallbackMaxStepPct },
	}
}

// State returns the current snapshot.
func (t *Tracker) State() ProcessingState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return ProcessingState{IsProcessing: t.running, ProgressPct: t.progress, Stage: t.stage}
}

// Start resets the tracker for a new run. This is the only point besides a
// terminal transition at which progress may go backwards.
func (t *Tracker) Start(stage string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.running = true
	t.progress = 0
	t.stage = stage
}

// SetStage updates the stage label without touching progress.
func (t *Tracker) SetStage(stage string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stage = stage
}

// ReportEngine feeds a fractional completion in [0,1] from the engine.
// Progress only moves forward: a stale or decreasing report is ignored.
func (t *Tracker) ReportEngine(fraction float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		return
	}
	pct := fraction * 100
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	if pct > t.progress {
		t.progress = pct
	}
}

// Tick advances the fallback estimate by one bounded random increment,
// capped below the point where it could overtake a genuine completion
// signal.
func (t *Tracker) Tick() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running || t.progress >= config.FallbackCapPct {
		return
	}
	t.progress += t.step()
	if t.progress > config.FallbackCapPct {
		t.progress = config.FallbackCapPct
	}
}

// Complete moves the run to its terminal success state: progress forced to
// 100 under the given stage label.
func (t *Tracker) Complete(stage string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.running = false
	t.progress = 100
	t.stage = stage
}

// Fail moves the run to its terminal failure state: processing cleared and
// progress reset to 0 under an error stage label.
func (t *Tracker) Fail(stage string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.running = false
	t.progress = 0
	t.stage = stage
}
