// Package api exposes the revue debug surface over HTTP: report export,
// pause/resume, option updates, and manual highlights. It is an
// unauthenticated localhost surface by design.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hazyhaar/revue/idgen"
	"github.com/hazyhaar/revue/kit"
	"github.com/hazyhaar/revue/track"
)

// Server serves the debug API for one tracker session.
type Server struct {
	tracker *track.Tracker
	logger  *slog.Logger
	newID   idgen.Generator
}

// NewRouter builds the chi router for the debug API.
func NewRouter(tracker *track.Tracker, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		tracker: tracker,
		logger:  logger,
		newID:   idgen.Prefixed("req_", idgen.NanoID(12)),
	}

	r := chi.NewRouter()
	r.Use(s.requestContext)

	r.Get("/healthz", s.handleHealth)
	r.Get("/", s.handleReportsHTML)

	r.Route("/api", func(r chi.Router) {
		r.Get("/reports", s.handleReports)
		r.Post("/pause", s.handlePause)
		r.Post("/resume", s.handleResume)
		r.Post("/options", s.handleOptions)
		r.Post("/highlight", s.handleHighlight)
	})

	return r
}

// requestContext tags each request with a request ID and the http transport.
func (s *Server) requestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := s.newID()
		ctx := kit.WithRequestID(kit.WithTransport(r.Context(), "http"), id)
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
