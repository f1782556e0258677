package timeutil

import (
	"fmt"
	"math"
)

// ToPct converts an absolute position in seconds into a normalized [0,100]
// percentage of the given duration. A zero or non-finite duration yields 0
// instead of NaN/Infinity.
func ToPct(sec, duration float64) float64 {
	if !validDuration(duration) {
		return 0
	}
	return sec / duration * 100
}

// ToSec converts a normalized [0,100] percentage into absolute seconds.
// A zero or non-finite duration yields 0.
func ToSec(pct, duration float64) float64 {
	if !validDuration(duration) {
		return 0
	}
	return pct / 100 * duration
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// FormatClock renders seconds as minutes:seconds, zero-padded (e.g. "2:05").
func FormatClock(sec float64) string {
	if sec < 0 || math.IsNaN(sec) || math.IsInf(sec, 0) {
		sec = 0
	}
	total := int(sec)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// FormatPrecise renders seconds as minutes:seconds.centiseconds for
// timeline labels where sub-second precision matters (e.g. "2:05.40").
func FormatPrecise(sec float64) string {
	if sec < 0 || math.IsNaN(sec) || math.IsInf(sec, 0) {
		sec = 0
	}
	total := int(sec)
	centis := int(math.Round((sec - float64(total)) * 100))
	if centis >= 100 {
		centis = 0
		total++
	}
	return fmt.Sprintf("%d:%02d.%02d", total/60, total%60, centis)
}

func validDuration(duration float64) bool {
	return duration > 0 && !math.IsNaN(duration) && !math.IsInf(duration, 0)
}
