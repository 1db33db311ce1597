package track

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-rod/rod/lib/proto"

	"github.com/hazyhaar/revue/idgen"
	"github.com/hazyhaar/revue/overlay"
	"github.com/hazyhaar/revue/report"
	"github.com/hazyhaar/revue/track/internal/browser"
	"github.com/hazyhaar/revue/track/internal/config"
	"github.com/hazyhaar/revue/track/internal/inject"
	"github.com/hazyhaar/revue/track/internal/sink"
)

// Watcher is the top-level orchestrator of one instrumentation session. It
// manages the browser connection, installs the in-page instrumentation, and
// feeds decoded lifecycle events to the Tracker. Create one per session.
type Watcher struct {
	cfg     *config.Config
	mgr     *browser.Manager
	tracker *Tracker
	logger  *slog.Logger

	mu     sync.Mutex
	tab    *browser.Tab
	cancel context.CancelFunc
}

// New creates a Watcher from configuration. Sinks receive every stored
// render record.
func New(cfg *config.Config, logger *slog.Logger, sinks ...Sink) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	cfg.ApplyDefaults()

	mgr := browser.NewManager(browser.Config{
		RemoteURL: cfg.Browser.Remote,
		Headless:  cfg.Browser.Headless,
		Logger:    logger,
	})

	pageID := cfg.App.ID
	if pageID == "" {
		pageID = idgen.NanoID(8)()
	}

	tracker := NewTracker(TrackerConfig{
		Options:   defaultedOptions(cfg),
		Sink:      sink.NewRouter(logger, sinks...),
		AutoClear: cfg.Overlay.AutoClear,
		Fade:      cfg.Overlay.FadeDuration,
		PageID:    pageID,
		PageURL:   cfg.App.URL,
		Logger:    logger,
	})

	return &Watcher{
		cfg:     cfg,
		mgr:     mgr,
		tracker: tracker,
		logger:  logger,
	}
}

// Tracker returns the session's tracker, the handle the debug surfaces
// (HTTP API, MCP tools) operate on.
func (w *Watcher) Tracker() *Tracker {
	return w.tracker
}

// Start connects to the browser, reaches the application page (attaching to
// an open tab when a remote browser is configured, opening one otherwise),
// wires the overlay canvas and chime, and — unless instrumentation is
// disabled — installs the lifecycle hook.
func (w *Watcher) Start(ctx context.Context) error {
	if w.cfg.App.URL == "" {
		return fmt.Errorf("track: no application URL configured")
	}

	if _, err := w.mgr.Start(ctx); err != nil {
		return fmt.Errorf("track: start browser: %w", err)
	}

	tab, err := w.openOrAttach(ctx)
	if err != nil {
		return err
	}

	w.mu.Lock()
	w.tab = tab
	w.mu.Unlock()

	// Overlay canvas and chime are best-effort: without them the record
	// pipeline still runs, only the visual/audio features are disabled.
	var ovl *overlay.Renderer
	surface, err := browser.NewCanvasSurface(tab.Page, w.logger)
	if err != nil {
		w.logger.Warn("track: overlay surface unavailable", "error", err)
	} else {
		ovl = overlay.New(surface,
			overlay.WithFrameInterval(w.cfg.Overlay.FrameInterval),
			overlay.WithLogger(w.logger))
	}
	w.tracker.attachPage(ovl, browser.NewPageChime(tab.Page), tab.PageID, tab.PageURL)

	if !w.tracker.Options().Enabled {
		w.logger.Info("track: instrumentation disabled, no hook attached",
			"url", tab.PageURL)
		return nil
	}

	if err := w.installHook(ctx, tab); err != nil {
		return err
	}

	w.logger.Info("track: observing application",
		"url", tab.PageURL, "id", tab.PageID)
	return nil
}

func (w *Watcher) openOrAttach(ctx context.Context) (*browser.Tab, error) {
	pageID := w.tracker.pageID

	if w.cfg.Browser.Remote != "" {
		tab, err := browser.FindTab(ctx, w.mgr, w.cfg.App.URL, pageID)
		if err == nil {
			return tab, nil
		}
		w.logger.Info("track: no open tab found, opening one",
			"url", w.cfg.App.URL, "error", err)
	}

	tab, err := browser.OpenTab(ctx, w.mgr, w.cfg.App.URL, pageID)
	if err != nil {
		return nil, fmt.Errorf("track: open tab: %w", err)
	}
	return tab, nil
}

// installHook injects the tracker script and subscribes to its binding.
// Installing twice on the same page is a warned no-op, detected via the
// in-page marker.
func (w *Watcher) installHook(ctx context.Context, tab *browser.Tab) error {
	installed, err := tab.Page.Context(ctx).Eval(inject.InstalledProbe)
	if err == nil && installed.Value.Bool() {
		w.logger.Warn("track: instrumentation already installed on page, skipping",
			"url", tab.PageURL)
		return nil
	}

	if err := (proto.RuntimeAddBinding{Name: inject.BindingName}).Call(tab.Page); err != nil {
		w.logger.Warn("track: add binding failed (may already exist)", "error", err)
	}

	lctx, cancel := context.WithCancel(ctx)
	w.mu.Lock()
	w.cancel = cancel
	w.mu.Unlock()
	go w.listenBinding(lctx, tab)

	if _, err := tab.Page.Context(ctx).Eval(inject.TrackerJS); err != nil {
		cancel()
		return fmt.Errorf("track: inject tracker script: %w", err)
	}
	return nil
}

// listenBinding receives batched lifecycle events from the injected script
// via Runtime.bindingCalled and dispatches them to the Tracker.
func (w *Watcher) listenBinding(ctx context.Context, tab *browser.Tab) {
	tab.Page.Context(ctx).EachEvent(func(e *proto.RuntimeBindingCalled) {
		if e.Name != inject.BindingName {
			return
		}

		var events []Event
		if err := json.Unmarshal([]byte(e.Payload), &events); err != nil {
			w.logger.Warn("track: parse binding payload", "error", err)
			return
		}

		for _, ev := range events {
			w.tracker.HandleEvent(ctx, ev)
		}
	})()
}

// Stop pauses instrumentation, clears the overlay, and shuts the browser
// connection down.
func (w *Watcher) Stop() {
	w.tracker.Stop()

	w.mu.Lock()
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
	tab := w.tab
	w.tab = nil
	w.mu.Unlock()

	if tab != nil {
		tab.Close()
	}
	w.mgr.Close()
}

// defaultedOptions merges the config's option patch over the defaults.
func defaultedOptions(cfg *config.Config) report.Options {
	return report.DefaultOptions().Merge(cfg.Options)
}
