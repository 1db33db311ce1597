// Package sink defines output backends for render reports.
package sink

import (
	"context"

	"github.com/hazyhaar/revue/report"
)

// Envelope wraps a render record with session context for delivery.
type Envelope struct {
	ID        string              `json:"id"` // UUIDv7
	PageID    string              `json:"page_id"`
	PageURL   string              `json:"page_url"`
	Record    report.RenderRecord `json:"record"`
	Timestamp int64               `json:"timestamp"` // epoch milliseconds at emit
}

// Sink is the output interface. Implementations deliver render reports to
// different backends (stdout, webhook, in-process callback).
type Sink interface {
	SendReport(ctx context.Context, env Envelope) error
	Close() error
}
