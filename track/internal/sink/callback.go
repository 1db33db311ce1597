package sink

import "context"

// ReportFunc is called for each report (in-process, zero serialisation).
type ReportFunc func(ctx context.Context, env Envelope) error

// Callback delivers reports via Go function calls — the in-process path for
// embedding revue in a larger binary.
type Callback struct {
	onReport ReportFunc
}

// NewCallback creates a Callback sink. The handler may be nil.
func NewCallback(onReport ReportFunc) *Callback {
	return &Callback{onReport: onReport}
}

func (c *Callback) SendReport(ctx context.Context, env Envelope) error {
	if c.onReport != nil {
		return c.onReport(ctx, env)
	}
	return nil
}

func (c *Callback) Close() error { return nil }
