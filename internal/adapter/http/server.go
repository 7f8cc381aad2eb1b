// Package http exposes the console session to the rendering collaborator,
// plus health, readiness, and metrics endpoints.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/georisk-console/internal/session"
)

// Server exposes the session routes and operational endpoints.
type Server struct {
	httpServer *http.Server
	session    *session.Session
	lore       LoreService
	logger     *slog.Logger
}

// NewServer creates the console HTTP server.
func NewServer(addr string, sess *session.Session, lore LoreService, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		session: sess,
		lore:    lore,
		logger:  logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /session/state", s.handleState)
	mux.HandleFunc("POST /session/mode", s.handleMode)
	mux.HandleFunc("POST /session/click", s.handleClick)
	mux.HandleFunc("POST /session/location", s.handleLocation)
	mux.HandleFunc("POST /session/params", s.handleParams)
	mux.HandleFunc("POST /session/layers/{name}/toggle", s.handleToggleLayer)
	mux.HandleFunc("POST /session/calculate", s.handleCalculate)

	mux.HandleFunc("GET /lore", s.handleListLore)
	mux.HandleFunc("POST /lore", s.handleSubmitLore)
	mux.HandleFunc("PUT /lore/{id}", s.handleUpdateLore)
	mux.HandleFunc("DELETE /lore/{id}", s.handleDeleteLore)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.session.CheckReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"detail": msg})
}
