package transcode

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// ErrNotReady is returned when a run is requested before Init succeeded or
// after Dispose.
var ErrNotReady = errors.New("transcode engine not initialized")

// Engine wraps the ffmpeg binary behind an explicit lifecycle so one
// initialized handle can be reused across runs within a session. Callers
// must Init once before Run and should gate processing actions on IsReady.
type Engine struct {
	mu      sync.Mutex
	ready   bool
	tempDir string
}

// NewEngine creates an engine that keeps its progress sockets under
// tempDir (the OS temp dir when empty).
func NewEngine(tempDir string) *Engine {
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	return &Engine{tempDir: tempDir}
}

// Init verifies the ffmpeg and ffprobe binaries are available and marks the
// engine ready. Cheap to call; does not spawn a process.
func (e *Engine) Init(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for _, bin := range []string{"ffmpeg", "ffprobe"} {
		if _, err := exec.LookPath(bin); err != nil {
			return fmt.Errorf("%s not found: %w", bin, err)
		}
	}

	e.mu.Lock()
	e.ready = true
	e.mu.Unlock()
	return nil
}

// IsReady reports whether the engine can accept runs.
func (e *Engine) IsReady() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ready
}

// Dispose releases the engine handle. Subsequent runs fail with ErrNotReady
// until Init is called again.
func (e *Engine) Dispose() {
	e.mu.Lock()
	e.ready = false
	e.mu.Unlock()
}

// Probe reads the duration of a local media file in seconds.
func (e *Engine) Probe(ctx context.Context, path string) (float64, error) {
	if !e.IsReady() {
		return 0, ErrNotReady
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return ProbeDuration(path)
}

// Run executes the plan against inputPath, writing outputPath. Fractional
// completion in [0,1] is reported through onProgress as ffmpeg emits
// progress frames. Run blocks until the engine exits; there is no mid-run
// cancellation once the process has been handed the plan.
func (e *Engine) Run(ctx context.Context, plan Plan, inputPath, outputPath string, onProgress func(float64)) error {
	if !e.IsReady() {
		return ErrNotReady
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	sockPath := filepath.Join(e.tempDir, fmt.Sprintf("progress_%s.sock", uuid.NewString()))
	l, err := net.Listen("unix", sockPath)
	if err != nil {
		return fmt.Errorf("failed to open progress socket: %w", err)
	}
	defer l.Close()
	defer os.Remove(sockPath)

	go serveProgress(l, plan.OutputDurationSec, onProgress)

	err = ffmpeg.Input(inputPath, plan.InputKwArgs()).
		Output(outputPath, plan.OutputKwArgs()).
		GlobalArgs("-progress", "unix://"+sockPath).
		OverWriteOutput().
		Run()
	if err != nil {
		return fmt.Errorf("ffmpeg failed: %w", err)
	}

	if onProgress != nil {
		onProgress(1)
	}
	return nil
}
