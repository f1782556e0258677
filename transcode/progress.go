package transcode

import (
	"bufio"
	"net"
	"strconv"
	"strings"
)

// progressReport is the decoded state of ffmpeg's -progress key=value
// stream at one reporting interval.
type progressReport struct {
	OutTimeMS int64
	Done      bool
}

func (p *progressReport) applyKV(k, v string) {
	switch k {
	case "out_time_ms", "out_time_us":
		// Both keys carry microseconds; ffmpeg emits out_time_ms with the
		// microsecond value for historical reasons.
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			p.OutTimeMS = n / 1000
		}
	case "progress":
		p.Done = v == "end"
	}
}

func parseProgressLine(line string, p *progressReport) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	i := strings.IndexByte(line, '=')
	if i <= 0 {
		return
	}
	p.applyKV(line[:i], line[i+1:])
}

// fraction converts the report into a [0,1] completion fraction of the
// expected output duration. A finished report is always 1.
func (p *progressReport) fraction(outputDurationSec float64) float64 {
	if p.Done {
		return 1
	}
	if outputDurationSec <= 0 {
		return 0
	}
	f := float64(p.OutTimeMS) / 1000 / outputDurationSec
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// serveProgress accepts one connection on l and streams parsed completion
// fractions to onProgress until the engine closes the socket.
func serveProgress(l net.Listener, outputDurationSec float64, onProgress func(float64)) {
	conn, err := l.Accept()
	if err != nil {
		return
	}
	defer conn.Close()

	var report progressReport
	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		parseProgressLine(scanner.Text(), &report)
		// ffmpeg terminates each report block with a progress= line.
		if strings.HasPrefix(strings.TrimSpace(scanner.Text()), "progress=") {
			if onProgress != nil {
				onProgress(report.fraction(outputDurationSec))
			}
		}
	}
}
