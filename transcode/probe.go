package transcode

import (
	"encoding/json"
	"fmt"
	"strconv"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

type probeFormat struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// ProbeDuration reads the container duration of a local media file in
// seconds. Used as a fallback when the remote object carries no duration
// metadata.
func ProbeDuration(path string) (float64, error) {
	out, err := ffmpeg.Probe(path)
	if err != nil {
		return 0, fmt.Errorf("probe failed: %w", err)
	}

	var pf probeFormat
	if err := json.Unmarshal([]byte(out), &pf); err != nil {
		return 0, fmt.Errorf("failed to parse probe output: %w", err)
	}
	if pf.Format.Duration == "" {
		return 0, fmt.Errorf("probe output has no duration")
	}

	dur, err := strconv.ParseFloat(pf.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid probe duration %q: %w", pf.Format.Duration, err)
	}
	return dur, nil
}
