// Package server exposes the intake engine over HTTP: the submission
// endpoint that validates and normalizes application payloads, plus the
// administrative form-configuration endpoints.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/hume-connect/intake/store"
)

// Server holds the HTTP handlers' shared dependencies.
type Server struct {
	store *store.Store

	// dev includes raw error detail in 500 responses; production
	// responses carry only a generic message.
	dev bool
}

// New creates a server backed by st.
func New(st *store.Store, dev bool) *Server {
	return &Server{store: st, dev: dev}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)

	mux.HandleFunc("POST /applications/{type}", s.handleSubmit)
	mux.HandleFunc("GET /applications/{type}/submissions", s.handleListSubmissions)

	mux.HandleFunc("GET /forms", s.handleListForms)
	mux.HandleFunc("POST /forms", s.handleCreateForm)
	mux.HandleFunc("GET /forms/{type}", s.handleGetForm)
	mux.HandleFunc("PUT /forms/{id}", s.handleUpdateForm)
	mux.HandleFunc("POST /forms/{id}/default", s.handleSetDefault)

	return logRequests(mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

// logRequests emits one structured log line per request.
func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start).Round(time.Microsecond))
	})
}
