package session

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"clipforge/editor"
	"clipforge/storage"
	"clipforge/transcode"
)

type fakeStorage struct {
	mu       sync.Mutex
	objects  map[string][]byte
	meta     map[string]storage.Metadata
	failGet  bool
	failPut  bool
	uploaded []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		objects: make(map[string][]byte),
		meta:    make(map[string]storage.Metadata),
	}
}

func (f *fakeStorage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failGet {
		return nil, fmt.Errorf("connection reset")
	}
	data, ok := f.objects[key]
	if !ok {
		return nil, fmt.Errorf("no such key %s", key)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeStorage) Upload(ctx context.Context, key string, body io.Reader, contentType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failPut {
		return fmt.Errorf("connection reset")
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.objects[key] = data
	f.uploaded = append(f.uploaded, key)
	return nil
}

func (f *fakeStorage) Exists(ctx context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failGet {
		return false, fmt.Errorf("connection reset")
	}
	_, ok := f.objects[key]
	return ok, nil
}

func (f *fakeStorage) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	return nil
}

func (f *fakeStorage) Metadata(ctx context.Context, key string) (storage.Metadata, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	md, ok := f.meta[key]
	if !ok {
		return storage.Metadata{}, fmt.Errorf("no such key %s", key)
	}
	return md, nil
}

type fakeEngine struct {
	ready       bool
	failRun     bool
	probeResult float64
	gotPlan     transcode.Plan
	reports     []float64
}

func (f *fakeEngine) IsReady() bool { return f.ready }

func (f *fakeEngine) Probe(ctx context.Context, path string) (float64, error) {
	if !f.ready {
		return 0, transcode.ErrNotReady
	}
	return f.probeResult, nil
}

func (f *fakeEngine) Run(ctx context.Context, plan transcode.Plan, inputPath, outputPath string, onProgress func(float64)) error {
	f.gotPlan = plan
	if f.failRun {
		return fmt.Errorf("ffmpeg exited with code 1")
	}
	for _, fr := range []float64{0.25, 0.5, 0.75, 1} {
		f.reports = append(f.reports, fr)
		onProgress(fr)
	}
	return os.WriteFile(outputPath, []byte("rendered"), 0o644)
}

func durationMS(ms int64) *int64 { return &ms }

func newTestManager(t *testing.T) (*Manager, *fakeStorage, *fakeEngine) {
	t.Helper()
	store := newFakeStorage()
	store.objects["videos/cat.mp4"] = []byte("source bytes")
	store.meta["videos/cat.mp4"] = storage.Metadata{Name: "cat.mp4", Size: 12, DurationMS: durationMS(120000)}
	engine := &fakeEngine{ready: true, probeResult: 90}
	return NewManager(store, engine, t.TempDir(), nil), store, engine
}

func TestCreateUsesMetadataDuration(t *testing.T) {
	mgr, _, _ := newTestManager(t)
	sess, err := mgr.Create(context.Background(), "videos/cat.mp4")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if sess.Duration != 120 {
		t.Fatalf("Duration = %v; want 120 from metadata", sess.Duration)
	}
	if got := sess.Options(); got != editor.DefaultOptions() {
		t.Fatalf("fresh session options = %+v; want defaults", got)
	}
	if _, ok := mgr.Get(sess.ID); !ok {
		t.Fatal("session not registered")
	}
}

func TestCreateFallsBackToProbe(t *testing.T) {
	mgr, store, _ := newTestManager(t)
	store.meta["videos/cat.mp4"] = storage.Metadata{Name: "cat.mp4", Size: 12}

	sess, err := mgr.Create(context.Background(), "videos/cat.mp4")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if sess.Duration != 90 {
		t.Fatalf("Duration = %v; want 90 from probe", sess.Duration)
	}
}

func TestProcessHappyPath(t *testing.T) {
	mgr, store, engine := newTestManager(t)
	sess, err := mgr.Create(context.Background(), "videos/cat.mp4")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := sess.UpdateOptions(editor.Options{
		Trim:      editor.TrimRange{StartPct: 25, EndPct: 75},
		VolumePct: 100,
		Speed:     1,
		Quality:   editor.QualityMedium,
	}); err != nil {
		t.Fatalf("UpdateOptions failed: %v", err)
	}

	key, err := sess.Process(context.Background())
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if !strings.HasSuffix(key, ".mp4") {
		t.Fatalf("result key = %q", key)
	}
	if string(store.objects[key]) != "rendered" {
		t.Fatal("rendered output was not uploaded")
	}
	if sess.ResultKey() != key {
		t.Fatalf("ResultKey = %q; want %q", sess.ResultKey(), key)
	}

	st := sess.State()
	if st.IsProcessing || st.ProgressPct != 100 || st.Stage != "done" {
		t.Fatalf("terminal state = %+v", st)
	}

	// The engine received the translated selection.
	if len(engine.gotPlan.Ops) == 0 {
		t.Fatal("engine saw no plan")
	}
	trim, ok := engine.gotPlan.Ops[0].(transcode.Trim)
	if !ok || trim.StartSec != 30 || trim.DurationSec != 60 {
		t.Fatalf("engine plan trim = %+v", engine.gotPlan.Ops[0])
	}
}

func TestProcessEngineFailure(t *testing.T) {
	mgr, store, engine := newTestManager(t)
	engine.failRun = true
	sess, _ := mgr.Create(context.Background(), "videos/cat.mp4")

	_, err := sess.Process(context.Background())
	if KindOf(err) != KindEngine {
		t.Fatalf("error kind = %v (%v); want engine", KindOf(err), err)
	}

	st := sess.State()
	if st.IsProcessing {
		t.Fatal("IsProcessing stuck true after engine failure")
	}
	if st.ProgressPct != 0 {
		t.Fatalf("progress = %v after failure; want 0", st.ProgressPct)
	}
	if len(store.uploaded) != 0 {
		t.Fatal("artifacts from a failed run were uploaded")
	}

	// The session recovers: a new run can start.
	engine.failRun = false
	if _, err := sess.Process(context.Background()); err != nil {
		t.Fatalf("re-process after failure: %v", err)
	}
}

func TestProcessTransportFailure(t *testing.T) {
	mgr, store, _ := newTestManager(t)
	sess, _ := mgr.Create(context.Background(), "videos/cat.mp4")
	store.failGet = true

	_, err := sess.Process(context.Background())
	if KindOf(err) != KindTransport {
		t.Fatalf("error kind = %v (%v); want transport", KindOf(err), err)
	}
	if sess.State().IsProcessing {
		t.Fatal("IsProcessing stuck true after transport failure")
	}
}

func TestProcessRequiresReadyEngine(t *testing.T) {
	mgr, _, engine := newTestManager(t)
	sess, _ := mgr.Create(context.Background(), "videos/cat.mp4")
	engine.ready = false

	_, err := sess.Process(context.Background())
	if KindOf(err) != KindResource {
		t.Fatalf("error kind = %v (%v); want resource", KindOf(err), err)
	}
}

func TestProcessAdmissionControl(t *testing.T) {
	mgr, _, _ := newTestManager(t)
	sess, _ := mgr.Create(context.Background(), "videos/cat.mp4")

	// Claim the run slot manually to simulate an in-flight run.
	sess.tracker.Start("transcoding")
	_, err := sess.Process(context.Background())
	if !errors.Is(err, ErrBusy) {
		t.Fatalf("error = %v; want ErrBusy", err)
	}
}

func TestClaimAdmitsExactlyOne(t *testing.T) {
	mgr, _, _ := newTestManager(t)
	sess, _ := mgr.Create(context.Background(), "videos/cat.mp4")

	var wg sync.WaitGroup
	var admitted int32
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := sess.Claim(); err == nil {
				atomic.AddInt32(&admitted, 1)
			} else if !errors.Is(err, ErrBusy) {
				t.Errorf("Claim error = %v; want ErrBusy", err)
			}
		}()
	}
	wg.Wait()
	if admitted != 1 {
		t.Fatalf("admitted %d concurrent claims; want 1", admitted)
	}

	// The winning claim still carries a full run to completion.
	if _, err := sess.RunClaimed(context.Background()); err != nil {
		t.Fatalf("RunClaimed failed: %v", err)
	}
	if sess.State().IsProcessing {
		t.Fatal("IsProcessing stuck true after claimed run")
	}
}

func TestClaimRequiresReadyEngine(t *testing.T) {
	mgr, _, engine := newTestManager(t)
	sess, _ := mgr.Create(context.Background(), "videos/cat.mp4")
	engine.ready = false

	err := sess.Claim()
	if KindOf(err) != KindResource {
		t.Fatalf("error kind = %v (%v); want resource", KindOf(err), err)
	}
	if sess.State().IsProcessing {
		t.Fatal("refused claim marked the session processing")
	}
}

func TestCreateRejectsMissingVideo(t *testing.T) {
	mgr, _, _ := newTestManager(t)

	_, err := mgr.Create(context.Background(), "videos/nope.mp4")
	if KindOf(err) != KindValidation {
		t.Fatalf("error kind = %v (%v); want validation", KindOf(err), err)
	}
}

func TestUpdateOptionsKeepsPriorStateOnValidationError(t *testing.T) {
	mgr, _, _ := newTestManager(t)
	sess, _ := mgr.Create(context.Background(), "videos/cat.mp4")

	good := editor.Options{Trim: editor.TrimRange{StartPct: 10, EndPct: 90}, VolumePct: 120, Speed: 1, Quality: editor.QualityLow}
	if _, err := sess.UpdateOptions(good); err != nil {
		t.Fatalf("UpdateOptions failed: %v", err)
	}

	bad := good
	bad.Trim = editor.TrimRange{StartPct: 90, EndPct: 10}
	kept, err := sess.UpdateOptions(bad)
	if KindOf(err) != KindValidation {
		t.Fatalf("error kind = %v; want validation", KindOf(err))
	}
	if kept.Trim != good.Trim {
		t.Fatalf("prior options not kept: %+v", kept)
	}
}

func TestUnauthorizedSession(t *testing.T) {
	store := newFakeStorage()
	store.meta["videos/cat.mp4"] = storage.Metadata{DurationMS: durationMS(1000)}
	engine := &fakeEngine{ready: true}
	mgr := NewManager(store, engine, t.TempDir(), func() bool { return false })

	if _, err := mgr.Create(context.Background(), "videos/cat.mp4"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("Create error = %v; want ErrUnauthorized", err)
	}
}
