package editor

import (
	"fmt"

	"clipforge/timeutil"
)

// Bounds for the user-tunable edit parameters. Raw UI values outside these
// ranges are clamped, never rejected.
const (
	VolumeMinPct = 0
	VolumeMaxPct = 200
	FadeMaxSec   = 10
	SpeedMin     = 0.5
	SpeedMax     = 2.0

	// MinSelectablePct guards against an empty trim selection: start and end
	// can never be closer than this percentage of the total duration.
	MinSelectablePct = 0.1
)

// Quality selects the encode quality level. The scale is inverse: a lower
// compression factor (CRF) means higher visual quality and a larger file.
type Quality string

const (
	QualityLow    Quality = "low"
	QualityMedium Quality = "medium"
	QualityHigh   Quality = "high"
)

type qualityParams struct {
	CRF    int
	Preset string
}

var qualityLadder = map[Quality]qualityParams{
	QualityLow:    {CRF: 28, Preset: "fast"},
	QualityMedium: {CRF: 23, Preset: "medium"},
	QualityHigh:   {CRF: 18, Preset: "slow"},
}

// CRF returns the compression factor for the quality level.
func (q Quality) CRF() int { return qualityLadder[q].CRF }

// Preset returns the encoding effort preset for the quality level.
func (q Quality) Preset() string { return qualityLadder[q].Preset }

func (q Quality) valid() bool {
	_, ok := qualityLadder[q]
	return ok
}

// TrimRange is the selected sub-interval of the source media, expressed as
// percentages of the total duration.
type TrimRange struct {
	StartPct float64 `json:"start_pct"`
	EndPct   float64 `json:"end_pct"`
}

// StartSec resolves the range start to absolute seconds.
func (r TrimRange) StartSec(duration float64) float64 {
	return timeutil.ToSec(r.StartPct, duration)
}

// EndSec resolves the range end to absolute seconds.
func (r TrimRange) EndSec(duration float64) float64 {
	return timeutil.ToSec(r.EndPct, duration)
}

// Options is the canonical record of all user-tunable edit parameters.
type Options struct {
	Trim       TrimRange `json:"trim"`
	VolumePct  float64   `json:"volume_pct"`
	FadeInSec  float64   `json:"fade_in_sec"`
	FadeOutSec float64   `json:"fade_out_sec"`
	Speed      float64   `json:"speed"`
	Quality    Quality   `json:"quality"`
}

// DefaultOptions returns the options a freshly loaded video starts with:
// full range, unchanged volume, no fades, normal speed, medium quality.
func DefaultOptions() Options {
	return Options{
		Trim:      TrimRange{StartPct: 0, EndPct: 100},
		VolumePct: 100,
		Speed:     1.0,
		Quality:   QualityMedium,
	}
}

// ValidationError reports a trim selection that is empty after clamping.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid edit options: %s", e.Reason)
}

// Normalize clamps raw UI values into a canonical Options record. Numeric
// out-of-range input is silently clamped; an unknown quality falls back to
// medium. The only failure is a trim range with no non-empty selection left
// after clamping.
func Normalize(raw Options) (Options, error) {
	opts := raw

	opts.Trim.StartPct = timeutil.Clamp(raw.Trim.StartPct, 0, 100)
	opts.Trim.EndPct = timeutil.Clamp(raw.Trim.EndPct, 0, 100)
	opts.VolumePct = timeutil.Clamp(raw.VolumePct, VolumeMinPct, VolumeMaxPct)
	opts.FadeInSec = timeutil.Clamp(raw.FadeInSec, 0, FadeMaxSec)
	opts.FadeOutSec = timeutil.Clamp(raw.FadeOutSec, 0, FadeMaxSec)
	opts.Speed = timeutil.Clamp(raw.Speed, SpeedMin, SpeedMax)
	if !opts.Quality.valid() {
		opts.Quality = QualityMedium
	}

	if opts.Trim.StartPct >= opts.Trim.EndPct {
		return Options{}, &ValidationError{
			Reason: fmt.Sprintf("trim start %.2f%% must be before end %.2f%%", opts.Trim.StartPct, opts.Trim.EndPct),
		}
	}

	return opts, nil
}
