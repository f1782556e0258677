package session

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"clipforge/config"
	"clipforge/editor"
	"clipforge/storage"
	"clipforge/transcode"
)

// Storage is the narrow remote file service contract the session needs.
type Storage interface {
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Upload(ctx context.Context, key string, body io.Reader, contentType string) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Metadata(ctx context.Context, key string) (storage.Metadata, error)
}

// Engine is the transcoding engine handle contract. One initialized handle
// is injected and reused across runs within a session.
type Engine interface {
	IsReady() bool
	Probe(ctx context.Context, path string) (float64, error)
	Run(ctx context.Context, plan transcode.Plan, inputPath, outputPath string, onProgress func(float64)) error
}

// ErrBusy rejects a process request while a run is already in flight. One
// edit session processes at most one operation sequence at a time.
var ErrBusy = fmt.Errorf("a processing run is already in flight")

// ErrUnauthorized rejects remote operations for an unauthorized session.
var ErrUnauthorized = fmt.Errorf("session is not authorized")

// Session owns the editing state for one loaded video: the canonical edit
// options and the processing state. Both are session-local, never persisted,
// and discarded when the session ends.
type Session struct {
	ID       string
	VideoKey string
	Duration float64

	store     Storage
	engine    Engine
	tracker   *Tracker
	tempDir   string
	authorize func() bool

	mu        sync.Mutex
	opts      editor.Options
	resultKey string
}

func newSession(videoKey string, duration float64, store Storage, engine Engine, tempDir string, authorize func() bool) *Session {
	if authorize == nil {
		authorize = func() bool { return true }
	}
	return &Session{
		ID:        uuid.NewString(),
		VideoKey:  videoKey,
		Duration:  duration,
		store:     store,
		engine:    engine,
		tracker:   NewTracker(),
		tempDir:   tempDir,
		authorize: authorize,
		opts:      editor.DefaultOptions(),
	}
}

// Options returns the current canonical edit options.
func (s *Session) Options() editor.Options {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opts
}

// UpdateOptions normalizes raw UI values and stores the result. On a
// validation failure the previous valid options are kept untouched.
func (s *Session) UpdateOptions(raw editor.Options) (editor.Options, error) {
	opts, err := editor.Normalize(raw)
	if err != nil {
		return s.Options(), &Error{Kind: KindValidation, Err: err}
	}
	s.mu.Lock()
	s.opts = opts
	s.mu.Unlock()
	return opts, nil
}

// State returns the processing state snapshot.
func (s *Session) State() ProcessingState {
	return s.tracker.State()
}

// ResultKey returns the storage key of the last completed run, or "".
func (s *Session) ResultKey() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resultKey
}

// Process runs the full pipeline: download the source, translate the
// current options into an operation sequence, execute it on the engine with
// live progress, and upload the result. It blocks until the run reaches a
// terminal state; there is no mid-run cancellation. Exactly one run may be
// in flight per session.
func (s *Session) Process(ctx context.Context) (string, error) {
	if err := s.Claim(); err != nil {
		return "", err
	}
	return s.RunClaimed(ctx)
}

// Claim performs the admission checks for a processing run and reserves
// the session's single run slot: the engine must be initialized, the
// session authorized, and no run already in flight. Callers that accept a
// request before running asynchronously must Claim first so refusals reach
// the requester; a successful Claim must be followed by RunClaimed.
func (s *Session) Claim() error {
	if !s.engine.IsReady() {
		return Errorf(KindResource, "transcoding engine is not initialized")
	}
	if !s.authorize() {
		return ErrUnauthorized
	}

	s.tracker.mu.Lock()
	defer s.tracker.mu.Unlock()
	if s.tracker.running {
		return ErrBusy
	}
	s.tracker.running = true
	s.tracker.progress = 0
	s.tracker.stage = "preparing"
	return nil
}

// RunClaimed executes the pipeline for a run slot already reserved by
// Claim. It always drives the tracker to a terminal state.
func (s *Session) RunClaimed(ctx context.Context) (string, error) {
	key, err := s.run(ctx)
	if err != nil {
		// Terminal failure must never leave isProcessing stuck true.
		s.tracker.Fail(fmt.Sprintf("failed: %s", KindOf(err)))
		return "", err
	}

	s.tracker.Complete("done")
	s.mu.Lock()
	s.resultKey = key
	s.mu.Unlock()
	return key, nil
}

func (s *Session) run(ctx context.Context) (string, error) {
	opts := s.Options()
	plan, err := transcode.BuildPlan(opts, s.Duration)
	if err != nil {
		return "", &Error{Kind: KindValidation, Err: err}
	}

	done := make(chan struct{})
	defer close(done)
	go s.fallbackTicks(done)

	s.tracker.SetStage("downloading")
	inputPath := filepath.Join(s.tempDir, fmt.Sprintf("%s_input", s.ID))
	if err := s.fetchSource(ctx, inputPath); err != nil {
		return "", &Error{Kind: KindTransport, Err: err}
	}
	defer os.Remove(inputPath)

	s.tracker.SetStage("transcoding")
	outputPath := filepath.Join(s.tempDir, fmt.Sprintf("%s_output.mp4", s.ID))
	err = s.engine.Run(ctx, plan, inputPath, outputPath, func(f float64) {
		s.tracker.ReportEngine(f)
	})
	if err != nil {
		// Artifacts from a failed run are never reused.
		os.Remove(outputPath)
		return "", &Error{Kind: KindEngine, Err: err}
	}
	defer os.Remove(outputPath)

	s.tracker.SetStage("uploading")
	resultKey := fmt.Sprintf("%s/%s.mp4", config.OutputDir, s.ID)
	if err := s.uploadResult(ctx, outputPath, resultKey); err != nil {
		return "", &Error{Kind: KindTransport, Err: err}
	}

	return resultKey, nil
}

func (s *Session) fetchSource(ctx context.Context, localPath string) error {
	body, err := s.store.Download(ctx, s.VideoKey)
	if err != nil {
		return fmt.Errorf("failed to download source: %w", err)
	}
	defer body.Close()

	out, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, body); err != nil {
		os.Remove(localPath)
		return fmt.Errorf("failed to write source: %w", err)
	}
	return nil
}

func (s *Session) uploadResult(ctx context.Context, localPath, key string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open result: %w", err)
	}
	defer f.Close()

	if err := s.store.Upload(ctx, key, f, "video/mp4"); err != nil {
		return fmt.Errorf("failed to upload result: %w", err)
	}
	return nil
}

// fallbackTicks bumps the fallback estimator until the run finishes.
func (s *Session) fallbackTicks(done <-chan struct{}) {
	ticker := time.NewTicker(config.FallbackTickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			s.tracker.Tick()
		}
	}
}

// Manager tracks live edit sessions by ID. Sessions are in-memory only and
// vanish with the process, matching their discard-on-navigation lifecycle.
type Manager struct {
	store     Storage
	engine    Engine
	tempDir   string
	authorize func() bool

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager wires a session factory around the shared storage and engine
// collaborators. authorize gates remote work; nil means always authorized.
func NewManager(store Storage, engine Engine, tempDir string, authorize func() bool) *Manager {
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	return &Manager{
		store:     store,
		engine:    engine,
		tempDir:   tempDir,
		authorize: authorize,
		sessions:  make(map[string]*Session),
	}
}

// Create opens an edit session for the stored video at videoKey. The
// duration from object metadata is authoritative when present; otherwise
// the source is downloaded once and probed locally.
func (m *Manager) Create(ctx context.Context, videoKey string) (*Session, error) {
	if m.authorize != nil && !m.authorize() {
		return nil, ErrUnauthorized
	}

	ok, err := m.store.Exists(ctx, videoKey)
	if err != nil {
		return nil, Errorf(KindTransport, "failed to check %s: %w", videoKey, err)
	}
	if !ok {
		return nil, Errorf(KindValidation, "no such video %s", videoKey)
	}

	md, err := m.store.Metadata(ctx, videoKey)
	if err != nil {
		return nil, Errorf(KindTransport, "failed to read metadata for %s: %w", videoKey, err)
	}

	var duration float64
	if md.DurationMS != nil {
		duration = float64(*md.DurationMS) / 1000
	} else {
		duration, err = m.probeDuration(ctx, videoKey)
		if err != nil {
			return nil, err
		}
		log.Printf("no duration metadata for %s, probed %.2fs", videoKey, duration)
	}

	sess := newSession(videoKey, duration, m.store, m.engine, m.tempDir, m.authorize)
	m.mu.Lock()
	m.sessions[sess.ID] = sess
	m.mu.Unlock()
	return sess, nil
}

// Get looks up a live session.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Close discards a session's editing state. Nothing is persisted.
func (m *Manager) Close(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

func (m *Manager) probeDuration(ctx context.Context, videoKey string) (float64, error) {
	if !m.engine.IsReady() {
		return 0, Errorf(KindResource, "cannot probe %s: engine not initialized", videoKey)
	}

	body, err := m.store.Download(ctx, videoKey)
	if err != nil {
		return 0, Errorf(KindTransport, "failed to download %s for probing: %w", videoKey, err)
	}
	defer body.Close()

	tmp, err := os.CreateTemp(m.tempDir, "probe_*.mp4")
	if err != nil {
		return 0, Errorf(KindResource, "failed to create probe temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if _, err := io.Copy(tmp, body); err != nil {
		return 0, Errorf(KindTransport, "failed to buffer %s for probing: %w", videoKey, err)
	}

	duration, err := m.engine.Probe(ctx, tmp.Name())
	if err != nil {
		return 0, Errorf(KindEngine, "failed to probe %s: %w", videoKey, err)
	}
	return duration, nil
}
