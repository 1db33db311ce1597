package track

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hazyhaar/revue/overlay"
	"github.com/hazyhaar/revue/report"
	"github.com/hazyhaar/revue/track/internal/sink"
)

type fakeChime struct {
	mu    sync.Mutex
	plays int
}

func (f *fakeChime) Play(context.Context, float64, time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.plays++
	return nil
}

func (f *fakeChime) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.plays
}

type nullSurface struct{}

func (nullSurface) Render(context.Context, []overlay.DrawOp) error { return nil }
func (nullSurface) Wipe(context.Context) error                     { return nil }

type captureSink struct {
	mu   sync.Mutex
	envs []sink.Envelope
}

func (c *captureSink) SendReport(_ context.Context, env sink.Envelope) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.envs = append(c.envs, env)
	return nil
}

func (c *captureSink) Close() error { return nil }

func (c *captureSink) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.envs)
}

type trackerFixture struct {
	tracker *Tracker
	ovl     *overlay.Renderer
	chime   *fakeChime
	out     *captureSink
	logs    *bytes.Buffer
}

func newFixture(t *testing.T, opts report.Options) *trackerFixture {
	t.Helper()

	logs := &bytes.Buffer{}
	logger := slog.New(slog.NewJSONHandler(logs, nil))
	chime := &fakeChime{}
	out := &captureSink{}
	ovl := overlay.New(nullSurface{}, overlay.WithFrameInterval(2*time.Millisecond))
	t.Cleanup(ovl.Clear)

	tracker := NewTracker(TrackerConfig{
		Options:   opts,
		Overlay:   ovl,
		Chime:     chime,
		Sink:      out,
		AutoClear: 20 * time.Millisecond,
		Fade:      time.Minute,
		PageID:    "page-1",
		PageURL:   "http://localhost:5173",
		Logger:    logger,
	})

	return &trackerFixture{tracker: tracker, ovl: ovl, chime: chime, out: out, logs: logs}
}

func mountEvent(uid, name string) Event {
	return Event{Kind: KindMount, UID: uid, Name: name}
}

func updateEvent(uid, name string) Event {
	return Event{Kind: KindUpdate, UID: uid, Name: name}
}

func TestMountStartsAtZero(t *testing.T) {
	f := newFixture(t, report.DefaultOptions())
	ctx := context.Background()

	f.tracker.HandleEvent(ctx, mountEvent("c1", "App"))

	rec, ok := f.tracker.Store().GetRenderInfo("App")
	if !ok {
		t.Fatal("record not stored")
	}
	if rec.UpdateCount != 0 {
		t.Errorf("mount UpdateCount: got %d, want 0", rec.UpdateCount)
	}
	if rec.Timestamp == 0 {
		t.Error("timestamp not set")
	}
	if len(rec.Changes) != 0 {
		t.Errorf("changes must stay empty: %+v", rec.Changes)
	}
}

func TestUpdateCountReflectsCompletedUpdates(t *testing.T) {
	f := newFixture(t, report.DefaultOptions())
	ctx := context.Background()

	f.tracker.HandleEvent(ctx, mountEvent("c1", "TodoList"))
	for i := 0; i < 3; i++ {
		f.tracker.HandleEvent(ctx, updateEvent("c1", "TodoList"))
	}

	rec, _ := f.tracker.Store().GetRenderInfo("TodoList")
	if rec.UpdateCount != 3 {
		t.Errorf("after 3 updates: got %d, want 3", rec.UpdateCount)
	}

	// A different identity mounting starts fresh regardless of prior events.
	f.tracker.HandleEvent(ctx, mountEvent("c2", "Sidebar"))
	rec, _ = f.tracker.Store().GetRenderInfo("Sidebar")
	if rec.UpdateCount != 0 {
		t.Errorf("fresh mount: got %d, want 0", rec.UpdateCount)
	}
}

func TestUnknownComponentSentinel(t *testing.T) {
	f := newFixture(t, report.DefaultOptions())

	f.tracker.HandleEvent(context.Background(), mountEvent("c1", ""))

	if _, ok := f.tracker.Store().GetRenderInfo(report.UnknownComponent); !ok {
		t.Errorf("expected sentinel key %q", report.UnknownComponent)
	}
}

func TestPauseBlocksEverySideEffect(t *testing.T) {
	on := true
	opts := report.DefaultOptions().Merge(report.OptionsPatch{PlaySound: &on, ShowOverlay: &on})
	f := newFixture(t, opts)
	ctx := context.Background()

	f.tracker.SetPaused(true)
	f.tracker.HandleEvent(ctx, Event{
		Kind: KindMount, UID: "c1", Name: "App",
		Rect: &overlay.Rect{X: 1, Y: 2, Width: 3, Height: 4},
	})

	if f.tracker.Store().Len() != 0 {
		t.Error("paused: store must not change")
	}
	if f.logs.Len() != 0 {
		t.Errorf("paused: no log line expected, got %s", f.logs.String())
	}
	if f.chime.count() != 0 {
		t.Error("paused: no sound expected")
	}
	if f.ovl.Active() != 0 {
		t.Error("paused: no overlay draw expected")
	}
	if f.out.count() != 0 {
		t.Error("paused: no sink delivery expected")
	}

	f.tracker.SetPaused(false)
	f.tracker.HandleEvent(ctx, mountEvent("c1", "App"))
	if f.tracker.Store().Len() != 1 {
		t.Error("unpaused: store must receive the next event")
	}
}

func TestTrackUpdatesOff(t *testing.T) {
	off := false
	opts := report.DefaultOptions().Merge(report.OptionsPatch{TrackUpdates: &off})
	f := newFixture(t, opts)

	f.tracker.HandleEvent(context.Background(), mountEvent("c1", "App"))

	if f.tracker.Store().Len() != 0 || f.out.count() != 0 {
		t.Error("track_updates off: no side effects expected")
	}
}

func TestNoGeometrySkipsOverlayOnly(t *testing.T) {
	on := true
	opts := report.DefaultOptions().Merge(report.OptionsPatch{ShowOverlay: &on})
	f := newFixture(t, opts)

	// Fragment/text-only root: event without geometry.
	f.tracker.HandleEvent(context.Background(), mountEvent("c1", "Tooltip"))

	if _, ok := f.tracker.Store().GetRenderInfo("Tooltip"); !ok {
		t.Error("record must still be stored without geometry")
	}
	if f.out.count() != 1 {
		t.Error("record must still be reported without geometry")
	}
	if f.ovl.Active() != 0 {
		t.Error("no overlay rectangle expected without geometry")
	}
}

func TestOverlayDrawAndAutoClear(t *testing.T) {
	on := true
	opts := report.DefaultOptions().Merge(report.OptionsPatch{ShowOverlay: &on})
	f := newFixture(t, opts)

	f.tracker.HandleEvent(context.Background(), Event{
		Kind: KindUpdate, UID: "c1", Name: "App",
		Rect: &overlay.Rect{X: 10, Y: 20, Width: 100, Height: 40},
	})

	if f.ovl.Active() != 1 {
		t.Fatalf("active shapes: got %d, want 1", f.ovl.Active())
	}

	// The 20ms auto-clear bounds the highlight footprint independent of
	// the minute-long fade configured in the fixture.
	time.Sleep(60 * time.Millisecond)
	if f.ovl.Active() != 0 {
		t.Errorf("auto-clear must have fired: %d shapes active", f.ovl.Active())
	}
}

func TestShowOverlayOffSkipsDraw(t *testing.T) {
	f := newFixture(t, report.DefaultOptions()) // show_overlay defaults to false

	f.tracker.HandleEvent(context.Background(), Event{
		Kind: KindMount, UID: "c1", Name: "App",
		Rect: &overlay.Rect{Width: 10, Height: 10},
	})

	if f.ovl.Active() != 0 {
		t.Error("show_overlay off: no draw expected")
	}
}

func TestUnmountResetsInstanceCounter(t *testing.T) {
	f := newFixture(t, report.DefaultOptions())
	ctx := context.Background()

	f.tracker.HandleEvent(ctx, mountEvent("c1", "Modal"))
	f.tracker.HandleEvent(ctx, updateEvent("c1", "Modal"))
	f.tracker.HandleEvent(ctx, Event{Kind: KindUnmount, UID: "c1", Name: "Modal"})

	// A new instance with the same name starts from zero again.
	f.tracker.HandleEvent(ctx, mountEvent("c9", "Modal"))
	rec, _ := f.tracker.Store().GetRenderInfo("Modal")
	if rec.UpdateCount != 0 {
		t.Errorf("remount: got %d, want 0", rec.UpdateCount)
	}
}

func TestUpdateOptionsRebuildsReporter(t *testing.T) {
	off := false
	opts := report.DefaultOptions().Merge(report.OptionsPatch{Log: &off})
	f := newFixture(t, opts)
	ctx := context.Background()

	f.tracker.HandleEvent(ctx, mountEvent("c1", "App"))
	if strings.Contains(f.logs.String(), "component rendered") {
		t.Fatal("log disabled, no render line expected")
	}

	on := true
	merged := f.tracker.UpdateOptions(report.OptionsPatch{Log: &on})
	if !merged.Log || !merged.TrackUpdates {
		t.Fatalf("merge: got %+v", merged)
	}

	f.tracker.HandleEvent(ctx, updateEvent("c1", "App"))
	if !strings.Contains(f.logs.String(), "component rendered") {
		t.Error("reporter must be rebuilt with log enabled")
	}
}

func TestStopClearsOverlayAndPauses(t *testing.T) {
	on := true
	opts := report.DefaultOptions().Merge(report.OptionsPatch{ShowOverlay: &on})
	f := newFixture(t, opts)
	ctx := context.Background()

	f.tracker.HandleEvent(ctx, Event{
		Kind: KindMount, UID: "c1", Name: "App",
		Rect: &overlay.Rect{Width: 10, Height: 10},
	})
	f.tracker.Stop()

	if f.ovl.Active() != 0 {
		t.Error("Stop must clear the overlay")
	}
	if !f.tracker.Paused() {
		t.Error("Stop must pause")
	}

	f.tracker.Start()
	if f.tracker.Paused() {
		t.Error("Start must resume")
	}
}

func TestHighlightRectWithoutOverlay(t *testing.T) {
	tracker := NewTracker(TrackerConfig{Options: report.DefaultOptions()})
	tracker.HighlightRect(0, 0, 10, 10) // must be a guarded no-op
}

func TestSinkEnvelopeContext(t *testing.T) {
	f := newFixture(t, report.DefaultOptions())

	f.tracker.HandleEvent(context.Background(), mountEvent("c1", "App"))

	if f.out.count() != 1 {
		t.Fatalf("envelopes: got %d", f.out.count())
	}
	env := f.out.envs[0]
	if env.PageID != "page-1" || env.PageURL != "http://localhost:5173" {
		t.Errorf("envelope context: got %+v", env)
	}
	if !strings.HasPrefix(env.ID, "rpt_") {
		t.Errorf("envelope ID: got %q", env.ID)
	}
}
