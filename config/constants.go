package config

import "time"

// Encode Output Constants
const (
	// VideoCodec is the video encoding codec
	VideoCodec = "libx264"

	// AudioCodec is the audio encoding codec
	AudioCodec = "aac"

	// AudioBitrate is the audio quality bitrate
	AudioBitrate = "192k"
)

// Progress Tracking Constants
const (
	// FallbackTickInterval is how often the fallback progress estimator bumps
	FallbackTickInterval = 500 * time.Millisecond

	// FallbackCapPct caps the fallback estimate so it never overtakes a
	// genuine completion signal from the engine
	FallbackCapPct = 90.0

	// FallbackMaxStepPct bounds the random increment of one fallback tick
	FallbackMaxStepPct = 2.0
)

// Directory Constants
const (
	// OutputDir is the local directory for rendered results before upload
	OutputDir = "output"
)
