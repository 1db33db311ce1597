// Package track bridges component lifecycle events to the render pipeline:
// it builds render records and fans them out to the store, the reporter,
// the configured sinks, and the overlay renderer.
//
// track observes, it does not interpret: the change list on every record is
// reserved and stays empty. Instrumentation must never break the observed
// application — every failure path degrades instead of propagating.
package track

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/hazyhaar/revue/idgen"
	"github.com/hazyhaar/revue/overlay"
	"github.com/hazyhaar/revue/report"
	"github.com/hazyhaar/revue/track/internal/sink"
)

// DefaultAutoClear bounds how long a highlight's footprint persists,
// independent of the shape's own fade duration. Rapid successive updates
// cancel each other's highlight rather than stack.
const DefaultAutoClear = 50 * time.Millisecond

// Event kinds delivered by the injected instrumentation.
const (
	KindMount   = "mount"
	KindUpdate  = "update"
	KindUnmount = "unmount"
)

// Event is one component lifecycle transition observed in the page.
type Event struct {
	Kind string        `json:"kind"` // mount | update | unmount
	UID  string        `json:"uid"`  // per-instance identity tag
	Name string        `json:"name"` // resolved component name, may be empty
	Rect *overlay.Rect `json:"rect,omitempty"`
}

// TrackerConfig configures a Tracker.
type TrackerConfig struct {
	Options   report.Options
	Overlay   *overlay.Renderer // nil = no overlay drawing
	Chime     report.Chime      // nil = no audio cue
	Sink      sink.Sink         // nil = no sink fan-out
	AutoClear time.Duration     // default DefaultAutoClear
	Fade      time.Duration     // highlight fade duration, default overlay.DefaultFade
	PageID    string
	PageURL   string
	Logger    *slog.Logger
}

// Tracker holds the pause flag and the per-instance update-count side
// table, and runs the dispatch for every event: store, report, overlay.
// Counters live in the side table keyed by the instance uid assigned in
// the page at first observation — never injected into host objects.
type Tracker struct {
	mu       sync.Mutex
	store    *report.Store
	reporter *report.Reporter
	ovl      *overlay.Renderer
	chime    report.Chime
	out      sink.Sink
	counts   map[string]int
	paused   bool

	autoClear time.Duration
	fade      time.Duration
	pageID    string
	pageURL   string
	now       func() time.Time
	newID     idgen.Generator
	logger    *slog.Logger
}

// NewTracker creates a Tracker. The Reporter is built from a frozen copy of
// cfg.Options and is rebuilt wholesale on every UpdateOptions call.
func NewTracker(cfg TrackerConfig) *Tracker {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.AutoClear <= 0 {
		cfg.AutoClear = DefaultAutoClear
	}
	return &Tracker{
		store:     report.NewStore(cfg.Options),
		reporter:  report.NewReporter(cfg.Options, cfg.Logger, cfg.Chime),
		ovl:       cfg.Overlay,
		chime:     cfg.Chime,
		out:       cfg.Sink,
		counts:    make(map[string]int),
		autoClear: cfg.AutoClear,
		fade:      cfg.Fade,
		pageID:    cfg.PageID,
		pageURL:   cfg.PageURL,
		now:       time.Now,
		newID:     idgen.Prefixed("rpt_", idgen.Default),
		logger:    cfg.Logger,
	}
}

// HandleEvent runs the dispatch for one lifecycle event: early-return when
// paused or update tracking is off, build the record, store it, report it,
// then draw and auto-clear the highlight when geometry is available.
func (t *Tracker) HandleEvent(ctx context.Context, ev Event) {
	t.mu.Lock()

	// Unmount is side-table bookkeeping, not a render event: process it
	// even while paused so counters do not leak across instance lifetimes.
	if ev.Kind == KindUnmount {
		delete(t.counts, ev.UID)
		t.mu.Unlock()
		return
	}

	if t.paused || !t.store.Options().TrackUpdates {
		t.mu.Unlock()
		return
	}

	switch ev.Kind {
	case KindMount:
		t.counts[ev.UID] = 0
	case KindUpdate:
		// Increment before building the record: the stored count reflects
		// total completed updates including this one.
		t.counts[ev.UID]++
	default:
		t.logger.Warn("track: unknown event kind", "kind", ev.Kind)
		t.mu.Unlock()
		return
	}
	count := t.counts[ev.UID]
	rep := t.reporter
	ovl := t.ovl
	out := t.out
	t.mu.Unlock()

	name := ev.Name
	if name == "" {
		name = report.UnknownComponent
	}
	rec := report.RenderRecord{
		ComponentName: name,
		Changes:       []report.ChangeEntry{},
		UpdateCount:   count,
		Timestamp:     t.now().UnixMilli(),
	}

	t.store.SetRenderInfo(name, rec)
	rep.LogRender(rec)
	rep.PlaySoundIfNeeded(ctx, rec)
	t.emit(ctx, out, rec)
	t.highlight(ovl, ev)
}

// emit delivers the record to the sink router. Sink failure never reaches
// the render pipeline.
func (t *Tracker) emit(ctx context.Context, out sink.Sink, rec report.RenderRecord) {
	if out == nil {
		return
	}
	env := sink.Envelope{
		ID:        t.newID(),
		PageID:    t.pageID,
		PageURL:   t.pageURL,
		Record:    rec,
		Timestamp: t.now().UnixMilli(),
	}
	if err := out.SendReport(ctx, env); err != nil {
		t.logger.Warn("track: sink delivery failed", "component", rec.ComponentName, "error", err)
	}
}

// highlight clears prior shapes, draws one rectangle at the captured
// geometry, and schedules the auto-clear. Skipped without geometry, without
// an overlay renderer, or when show_overlay is off.
func (t *Tracker) highlight(ovl *overlay.Renderer, ev Event) {
	if ovl == nil || ev.Rect == nil || !t.store.Options().ShowOverlay {
		return
	}
	ovl.Clear()
	ovl.DrawRect(overlay.ShapeSpec{Rect: *ev.Rect, FadeDuration: t.fade})
	// The pending auto-clear fires regardless of a pause issued after it
	// was scheduled.
	time.AfterFunc(t.autoClear, ovl.Clear)
}

// SetPaused toggles the pause flag. Pausing is immediate for all subsequent
// events; already-scheduled timers (auto-clear, tone stop) still fire.
func (t *Tracker) SetPaused(paused bool) {
	t.mu.Lock()
	t.paused = paused
	t.mu.Unlock()
}

// Paused reports the pause flag.
func (t *Tracker) Paused() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.paused
}

// Start resumes instrumentation.
func (t *Tracker) Start() {
	t.SetPaused(false)
}

// Stop pauses instrumentation and clears any visible overlay.
func (t *Tracker) Stop() {
	t.SetPaused(true)
	t.mu.Lock()
	ovl := t.ovl
	t.mu.Unlock()
	if ovl != nil {
		ovl.Clear()
	}
}

// UpdateOptions merges the patch over the current options, rebuilds the
// Reporter from the merged snapshot, and returns it. In-flight holders of
// the old Reporter keep the old options — the Reporter is an immutable
// snapshot view, replacing configuration replaces the view.
func (t *Tracker) UpdateOptions(p report.OptionsPatch) report.Options {
	merged := t.store.SetOptions(p)
	t.mu.Lock()
	t.reporter = report.NewReporter(merged, t.logger, t.chime)
	t.mu.Unlock()
	return merged
}

// Options returns the current option snapshot.
func (t *Tracker) Options() report.Options {
	return t.store.Options()
}

// HighlightRect draws a manual one-off highlight, clearing prior shapes
// first. No-op without an overlay renderer.
func (t *Tracker) HighlightRect(x, y, width, height float64) {
	t.mu.Lock()
	ovl := t.ovl
	t.mu.Unlock()
	if ovl == nil {
		return
	}
	ovl.Clear()
	ovl.DrawRect(overlay.ShapeSpec{
		Rect:         overlay.Rect{X: x, Y: y, Width: width, Height: height},
		FadeDuration: t.fade,
	})
}

// AllReports returns a snapshot of every stored render record.
func (t *Tracker) AllReports() []report.Report {
	return t.store.AllReports()
}

// Store exposes the underlying render event store.
func (t *Tracker) Store() *report.Store {
	return t.store
}

// attachPage wires the in-page surfaces once the browser session is up:
// overlay renderer, chime, and a Reporter rebuilt so the chime takes effect.
func (t *Tracker) attachPage(ovl *overlay.Renderer, chime report.Chime, pageID, pageURL string) {
	t.mu.Lock()
	t.ovl = ovl
	t.chime = chime
	t.pageID = pageID
	t.pageURL = pageURL
	t.reporter = report.NewReporter(t.store.Options(), t.logger, chime)
	t.mu.Unlock()
}
