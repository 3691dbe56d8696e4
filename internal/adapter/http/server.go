// Package http exposes the upload API plus health, readiness, and metrics
// endpoints.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/emberline/airq-ingest-service/internal/domain"
	"github.com/emberline/airq-ingest-service/internal/storage"
)

// Ingester processes one uploaded CSV into an ingestion report.
type Ingester interface {
	Ingest(ctx context.Context, csvText string, window domain.TimeWindow) (*domain.IngestReport, error)
}

// Server exposes the upload, health, readiness, and metrics HTTP endpoints.
type Server struct {
	httpServer     *http.Server
	ingester       Ingester
	ready          storage.Pinger
	logger         *slog.Logger
	maxUploadBytes int64
}

// NewServer creates the HTTP server and routes.
func NewServer(addr string, ingester Ingester, ready storage.Pinger, maxUploadBytes int64, logger *slog.Logger) *Server {
	s := &Server{
		ingester:       ingester,
		ready:          ready,
		logger:         logger,
		maxUploadBytes: maxUploadBytes,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Post("/readings/upload", s.handleUpload)
	})

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
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

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.ready.Ping(ctx); err != nil {
		render.Status(r, http.StatusServiceUnavailable)
		render.JSON(w, r, map[string]string{"status": "not ready", "error": err.Error()})
		return
	}
	render.JSON(w, r, map[string]string{"status": "ready"})
}
