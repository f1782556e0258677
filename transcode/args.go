package transcode

import (
	"fmt"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"clipforge/config"
)

// InputKwArgs renders the input-side arguments of the plan. The trim seek
// goes before -i so the engine seeks before decoding; seeking after the
// input would decode and discard everything up to the start point.
func (p Plan) InputKwArgs() ffmpeg.KwArgs {
	args := ffmpeg.KwArgs{}
	for _, op := range p.Ops {
		if t, ok := op.(Trim); ok {
			args["ss"] = formatNum(t.StartSec)
			args["t"] = formatNum(t.DurationSec)
		}
	}
	return args
}

// VideoFilter returns the comma-joined video filter chain, empty when no
// video filters apply. Filters appear in operation order: fades first (on
// the trimmed timeline), then the timestamp rescale.
func (p Plan) VideoFilter() string {
	var filters []string
	for _, op := range p.Ops {
		switch o := op.(type) {
		case Fade:
			filters = append(filters, fmt.Sprintf("fade=t=%s:st=%s:d=%s",
				o.Direction, formatNum(o.StartSec), formatNum(o.DurationSec)))
		case SpeedChange:
			filters = append(filters, fmt.Sprintf("setpts=%s*PTS", formatNum(o.VideoPTSFactor)))
		}
	}
	return strings.Join(filters, ",")
}

// AudioFilter returns the comma-joined audio filter chain, empty when no
// audio filters apply: volume scale, fades mirroring the video fades, then
// the tempo rescale paired with the video timestamp rescale.
func (p Plan) AudioFilter() string {
	var filters []string
	for _, op := range p.Ops {
		switch o := op.(type) {
		case VolumeScale:
			filters = append(filters, fmt.Sprintf("volume=%s", formatNum(o.Factor)))
		case Fade:
			filters = append(filters, fmt.Sprintf("afade=t=%s:st=%s:d=%s",
				o.Direction, formatNum(o.StartSec), formatNum(o.DurationSec)))
		case SpeedChange:
			filters = append(filters, fmt.Sprintf("atempo=%s", formatNum(o.AudioTempo)))
		}
	}
	return strings.Join(filters, ",")
}

// OutputKwArgs renders the output-side arguments: the filter chains plus
// the fixed codec, quality, and container flags.
func (p Plan) OutputKwArgs() ffmpeg.KwArgs {
	args := ffmpeg.KwArgs{
		"c:v": config.VideoCodec,
		"c:a": config.AudioCodec,
		"b:a": config.AudioBitrate,
	}
	if vf := p.VideoFilter(); vf != "" {
		args["vf"] = vf
	}
	if af := p.AudioFilter(); af != "" {
		args["af"] = af
	}
	for _, op := range p.Ops {
		if e, ok := op.(Encode); ok {
			args["crf"] = e.CRF
			args["preset"] = e.Preset
			if e.FastStart {
				args["movflags"] = "+faststart"
			}
		}
	}
	return args
}
