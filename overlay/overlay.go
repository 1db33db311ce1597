// Package overlay draws transient highlight rectangles over viewport
// regions, independent of the instrumented framework. Shapes fade linearly
// to transparent over their fade duration and are then dropped. Painting is
// delegated to a Surface so the package carries no browser dependency.
package overlay

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultFrameInterval approximates one display frame for the repaint loop.
const DefaultFrameInterval = 16 * time.Millisecond

// Surface is the drawing target. Render wipes the surface and paints every
// op; Wipe clears it to fully transparent. Implementations must tolerate
// empty op lists.
type Surface interface {
	Render(ctx context.Context, ops []DrawOp) error
	Wipe(ctx context.Context) error
}

// Renderer owns a list of timed shapes and a frame loop that fades and
// removes them. The loop runs only while at least one shape is live: the
// first DrawRect starts it and it stops itself once every shape expired.
// Per-frame re-evaluation (rather than per-shape timers) keeps many
// concurrent highlights glitch-free at O(active shapes) per frame.
type Renderer struct {
	mu      sync.Mutex
	surface Surface // nil when no drawing surface is available
	shapes  []shape
	running bool
	cancel  context.CancelFunc

	frame  time.Duration
	now    func() time.Time
	logger *slog.Logger
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithFrameInterval overrides the repaint interval.
func WithFrameInterval(d time.Duration) Option {
	return func(r *Renderer) {
		if d > 0 {
			r.frame = d
		}
	}
}

// WithClock injects a time source for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) {
		if now != nil {
			r.now = now
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates a Renderer drawing onto surface. A nil surface is allowed:
// shape bookkeeping still runs, nothing is painted.
func New(surface Surface, opts ...Option) *Renderer {
	r := &Renderer{
		surface: surface,
		frame:   DefaultFrameInterval,
		now:     time.Now,
		logger:  slog.Default(),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// DrawRect enqueues a highlight with supplied or default styling, stamped
// with the current time. Starts the frame loop if it is idle.
func (r *Renderer) DrawRect(spec ShapeSpec) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.shapes = append(r.shapes, shape{spec: spec.withDefaults(), start: r.now()})

	if !r.running {
		r.running = true
		ctx, cancel := context.WithCancel(context.Background())
		r.cancel = cancel
		go r.loop(ctx)
	}
}

// Clear discards all shapes, stops the frame loop, and wipes the surface.
// Idempotent.
func (r *Renderer) Clear() {
	r.mu.Lock()
	r.shapes = nil
	if r.running {
		r.running = false
		r.cancel()
	}
	surf := r.surface
	r.mu.Unlock()

	if surf != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := surf.Wipe(ctx); err != nil {
			r.logger.Warn("overlay: wipe failed", "error", err)
		}
	}
}

// Active returns the number of shapes still within their fade window.
func (r *Renderer) Active() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	n := 0
	for _, s := range r.shapes {
		if _, ok := s.alphaAt(now); ok {
			n++
		}
	}
	return n
}

func (r *Renderer) loop(ctx context.Context) {
	ticker := time.NewTicker(r.frame)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ops, idle := r.frameOps()

			r.mu.Lock()
			surf := r.surface
			r.mu.Unlock()
			if surf != nil {
				if err := surf.Render(ctx, ops); err != nil && ctx.Err() == nil {
					r.logger.Warn("overlay: render frame failed", "error", err)
				}
			}

			if idle {
				return
			}
		}
	}
}

// frameOps computes the paint list for one frame, dropping expired shapes.
// When no shapes remain it transitions the loop to idle and reports it.
func (r *Renderer) frameOps() ([]DrawOp, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	live := r.shapes[:0]
	ops := make([]DrawOp, 0, len(r.shapes))
	for _, s := range r.shapes {
		alpha, ok := s.alphaAt(now)
		if !ok {
			continue
		}
		live = append(live, s)
		ops = append(ops, s.drawOp(alpha))
	}
	r.shapes = live

	if len(live) == 0 && r.running {
		r.running = false
		r.cancel()
		return ops, true
	}
	return ops, !r.running
}
