// Package server exposes the keep-alive, health and metrics HTTP endpoints.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rsned/crafting-orders-server/internal/metrics"
)

// WelcomeText is served on the root path.
const WelcomeText = "Welcome to the Web Server!"

// Pinger checks backing store connectivity.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// ReadyChecker reports whether a catalog has been loaded.
type ReadyChecker interface {
	Ready() bool
}

// HealthResponse is the body of the health endpoints.
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer builds the HTTP server listening on addr.
func NewServer(addr string, db Pinger, engine ReadyChecker, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           NewRouter(db, engine, log),
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: log,
	}
}

// NewRouter builds the route table.
func NewRouter(db Pinger, engine ReadyChecker, log *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(metrics.Middleware)

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(WelcomeText))
	})
	r.Get("/healthz", handleHealthz())
	r.Get("/readyz", handleReadyz(db, engine, log))
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func handleHealthz() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
	}
}

func handleReadyz(db Pinger, engine ReadyChecker, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			log.Error("Readiness check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "unavailable", Message: "database connection failed"})
			return
		}
		if !engine.Ready() {
			writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "unavailable", Message: "catalog not loaded"})
			return
		}
		writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// Start serves until Stop is called.
func (s *Server) Start() error {
	s.logger.Info("HTTP server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
