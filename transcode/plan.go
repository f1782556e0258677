package transcode

import (
	"strconv"

	"clipforge/editor"
)

// Op is one typed step of the operation sequence handed to the engine.
// The sequence order is fixed and significant: trim runs first so every
// downstream offset is relative to the post-trim zero point, and encode is
// always last.
type Op interface {
	op()
}

// Trim seeks to StartSec before decoding (fast seek) and limits the output
// to DurationSec.
type Trim struct {
	StartSec    float64
	DurationSec float64
}

// VolumeScale multiplies audio amplitude linearly. Factor 1.5 means 150%.
type VolumeScale struct {
	Factor float64
}

// FadeDirection distinguishes a fade-in from a fade-out.
type FadeDirection string

const (
	FadeIn  FadeDirection = "in"
	FadeOut FadeDirection = "out"
)

// Fade fades video and audio over DurationSec starting at StartSec on the
// trimmed timeline.
type Fade struct {
	Direction   FadeDirection
	StartSec    float64
	DurationSec float64
}

// SpeedChange rescales video presentation timestamps and audio tempo
// together so image and sound stay in sync. The two factors are coupled:
// VideoPTSFactor is always 1/AudioTempo.
type SpeedChange struct {
	VideoPTSFactor float64
	AudioTempo     float64
}

// Encode carries the quality-derived compression factor and effort preset,
// and requests progressive-playback metadata at the front of the container.
type Encode struct {
	CRF       int
	Preset    string
	FastStart bool
}

func (Trim) op()        {}
func (VolumeScale) op() {}
func (Fade) op()        {}
func (SpeedChange) op() {}
func (Encode) op()      {}

// Plan is the full, ordered operation sequence for one edit, plus the
// timings the progress tracker needs to weight engine reports.
type Plan struct {
	Ops []Op

	// TrimmedDurationSec is the selected length before any speed change.
	TrimmedDurationSec float64
	// OutputDurationSec is the expected output length after the speed
	// change, used to convert engine time reports into fractions.
	OutputDurationSec float64
}

// BuildPlan translates canonical edit options and a resolved media duration
// into the operation sequence. The translation is deterministic: identical
// inputs always produce identical operations, so a plan can be rebuilt and
// re-run (e.g. after a quality change) without reloading source media.
func BuildPlan(opts editor.Options, duration float64) (Plan, error) {
	opts, err := editor.Normalize(opts)
	if err != nil {
		return Plan{}, err
	}

	startSec := opts.Trim.StartSec(duration)
	endSec := opts.Trim.EndSec(duration)
	trimmed := endSec - startSec

	p := Plan{
		TrimmedDurationSec: trimmed,
		OutputDurationSec:  trimmed / opts.Speed,
	}

	if startSec > 0 || endSec < duration {
		p.Ops = append(p.Ops, Trim{StartSec: startSec, DurationSec: trimmed})
	}

	if opts.VolumePct != 100 {
		p.Ops = append(p.Ops, VolumeScale{Factor: opts.VolumePct / 100})
	}

	if opts.FadeInSec > 0 {
		p.Ops = append(p.Ops, Fade{Direction: FadeIn, StartSec: 0, DurationSec: opts.FadeInSec})
	}
	if opts.FadeOutSec > 0 {
		// The offset lives on the trimmed timeline. When the fade is longer
		// than the selection the offset would go negative, which the engine
		// rejects, so it is pinned at 0 and the fade passes through otherwise
		// unmodified.
		offset := trimmed - opts.FadeOutSec
		if offset < 0 {
			offset = 0
		}
		p.Ops = append(p.Ops, Fade{Direction: FadeOut, StartSec: offset, DurationSec: opts.FadeOutSec})
	}

	if opts.Speed != 1.0 {
		p.Ops = append(p.Ops, SpeedChange{
			VideoPTSFactor: 1 / opts.Speed,
			AudioTempo:     opts.Speed,
		})
	}

	p.Ops = append(p.Ops, Encode{
		CRF:       opts.Quality.CRF(),
		Preset:    opts.Quality.Preset(),
		FastStart: true,
	})

	return p, nil
}

// formatNum renders a float with the shortest exact representation, keeping
// rendered filter arguments byte-stable across invocations.
func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
