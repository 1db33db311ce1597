package report

import (
	"context"
	"log/slog"
	"time"
)

// Tone parameters for the render cue.
const (
	ToneFrequency = 440.0 // Hz
	ToneDuration  = 50 * time.Millisecond
)

// Chime plays a short tone through whatever audio subsystem is available.
// Implementations are best-effort: a missing audio context returns an error
// that the Reporter swallows.
type Chime interface {
	Play(ctx context.Context, freq float64, d time.Duration) error
}

// Reporter consumes render records: it writes a structured log line and
// optionally plays an audible cue. It holds a frozen copy of the options
// taken at construction time — replacing configuration means replacing the
// Reporter, never mutating it.
type Reporter struct {
	opts   Options
	logger *slog.Logger
	chime  Chime
}

// NewReporter creates a Reporter bound to a snapshot of opts. chime may be
// nil when no audio subsystem is available.
func NewReporter(opts Options, logger *slog.Logger, chime Chime) *Reporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reporter{opts: opts, logger: logger, chime: chime}
}

// Options returns the frozen option snapshot this Reporter was built with.
func (r *Reporter) Options() Options {
	return r.opts
}

// LogRender writes one structured line for the record. No-op unless the
// log option was set when the Reporter was constructed.
func (r *Reporter) LogRender(rec RenderRecord) {
	if !r.opts.Log {
		return
	}
	r.logger.Info("report: component rendered",
		"component", rec.ComponentName,
		"update_count", rec.UpdateCount,
		"timestamp", rec.Timestamp,
		"changes", len(rec.Changes))
}

// PlaySoundIfNeeded plays the render cue. No-op unless the play_sound
// option was set. Audio failure never propagates into the render pipeline.
func (r *Reporter) PlaySoundIfNeeded(ctx context.Context, rec RenderRecord) {
	if !r.opts.PlaySound || r.chime == nil {
		return
	}
	if err := r.chime.Play(ctx, ToneFrequency, ToneDuration); err != nil {
		r.logger.Debug("report: render cue failed",
			"component", rec.ComponentName, "error", err)
	}
}
