package browser

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-rod/rod"

	"github.com/hazyhaar/revue/overlay"
	"github.com/hazyhaar/revue/track/internal/inject"
)

// CanvasSurface paints overlay frames onto the injected full-viewport
// canvas. Implements overlay.Surface.
type CanvasSurface struct {
	page   *rod.Page
	logger *slog.Logger
}

// NewCanvasSurface injects the canvas asset into the page and returns the
// surface. The canvas tracks viewport size × devicePixelRatio on resize for
// the rest of the page's lifetime.
func NewCanvasSurface(page *rod.Page, logger *slog.Logger) (*CanvasSurface, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if _, err := page.Eval(inject.OverlayJS); err != nil {
		return nil, fmt.Errorf("browser: inject overlay canvas: %w", err)
	}
	return &CanvasSurface{page: page, logger: logger}, nil
}

// Render wipes the canvas and paints every op.
func (s *CanvasSurface) Render(ctx context.Context, ops []overlay.DrawOp) error {
	_, err := s.page.Context(ctx).Eval(
		`(ops) => window.__revue_overlay && window.__revue_overlay.render(ops)`, ops)
	if err != nil {
		return fmt.Errorf("browser: render overlay frame: %w", err)
	}
	return nil
}

// Wipe clears the canvas to fully transparent.
func (s *CanvasSurface) Wipe(ctx context.Context) error {
	_, err := s.page.Context(ctx).Eval(
		`() => window.__revue_overlay && window.__revue_overlay.wipe()`)
	if err != nil {
		return fmt.Errorf("browser: wipe overlay: %w", err)
	}
	return nil
}
