package overlay

import "time"

// Default styling for highlight rectangles.
const (
	DefaultFill        = "rgba(142,97,227,0.5)"
	DefaultBorder      = "rgba(142,97,227,1)"
	DefaultBorderWidth = 1.0
	DefaultFade        = 500 * time.Millisecond
)

// Rect is a rectangle in viewport pixel coordinates. Device-pixel-ratio
// scaling is applied at the surface, not per shape.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ShapeSpec describes a highlight rectangle to draw. Zero-value styling
// fields take the defaults; an explicit BorderColor with zero BorderWidth
// (or the reverse) suppresses the border.
type ShapeSpec struct {
	Rect
	Color        string
	BorderColor  string
	BorderWidth  float64
	FadeDuration time.Duration
}

func (s ShapeSpec) withDefaults() ShapeSpec {
	if s.Color == "" {
		s.Color = DefaultFill
	}
	if s.BorderColor == "" && s.BorderWidth == 0 {
		s.BorderColor = DefaultBorder
		s.BorderWidth = DefaultBorderWidth
	}
	if s.FadeDuration <= 0 {
		s.FadeDuration = DefaultFade
	}
	return s
}

// shape is a live highlight owned exclusively by the Renderer.
type shape struct {
	spec  ShapeSpec
	start time.Time
}

// alphaAt returns the shape's opacity at now. A shape is visible for
// exactly [start, start+fade); at or after expiry ok is false.
func (s shape) alphaAt(now time.Time) (float64, bool) {
	elapsed := now.Sub(s.start)
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed >= s.spec.FadeDuration {
		return 0, false
	}
	return 1 - float64(elapsed)/float64(s.spec.FadeDuration), true
}

// DrawOp is one rectangle paint instruction sent to the surface. The border
// fields are omitted when no border should be drawn.
type DrawOp struct {
	Rect
	Color       string  `json:"color"`
	BorderColor string  `json:"border_color,omitempty"`
	BorderWidth float64 `json:"border_width,omitempty"`
	Alpha       float64 `json:"alpha"`
}

func (s shape) drawOp(alpha float64) DrawOp {
	op := DrawOp{
		Rect:  s.spec.Rect,
		Color: s.spec.Color,
		Alpha: alpha,
	}
	if s.spec.BorderColor != "" && s.spec.BorderWidth > 0 {
		op.BorderColor = s.spec.BorderColor
		op.BorderWidth = s.spec.BorderWidth
	}
	return op
}
