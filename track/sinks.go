package track

import (
	"context"
	"io"
	"log/slog"

	"github.com/hazyhaar/revue/track/internal/sink"
)

// Sink is the output interface for render reports.
type Sink = sink.Sink

// Envelope wraps a render record with session context for delivery.
type Envelope = sink.Envelope

// NewStdoutSink creates a stdout JSON-lines sink.
func NewStdoutSink(w io.Writer) Sink {
	return sink.NewStdout(w)
}

// NewWebhookSink creates a webhook POST sink with retry.
func NewWebhookSink(url string, logger *slog.Logger) Sink {
	return sink.NewWebhook(url, sink.WithWebhookLogger(logger))
}

// ReportFunc is called for each report.
type ReportFunc = sink.ReportFunc

// NewCallbackSink creates an in-process callback sink — zero serialisation
// for embedding revue in a larger binary.
func NewCallbackSink(onReport func(ctx context.Context, env Envelope) error) Sink {
	return sink.NewCallback(onReport)
}
