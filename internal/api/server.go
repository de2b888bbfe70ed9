package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"drishti/internal/adapters/config"
	"drishti/internal/metrics"
	"drishti/pkg/errors"
	"drishti/pkg/logger"
)

// Server wraps the HTTP server with lifecycle management
type Server struct {
	httpServer *http.Server
	log        *logger.Logger
}

// NewServer creates and configures the HTTP server with all routes
func NewServer(cfg config.ServerConfig, h *Handler) *Server {
	log := logger.Get().With("component", "api")

	mux := http.NewServeMux()

	mux.HandleFunc("/", h.HandleIndex)
	mux.HandleFunc("/health", h.HandleHealth)

	mux.HandleFunc("/phi", h.HandleChat)
	mux.HandleFunc("/api/translate", h.HandleTranslate)
	mux.HandleFunc("/api/vision", h.HandleVision)
	mux.HandleFunc("/api/vision/start", h.HandleVisionStart)
	mux.HandleFunc("/api/vision/poll", h.HandleVisionPoll)
	mux.HandleFunc("/api/vision/stop", h.HandleVisionStop)

	// Prometheus metrics endpoint
	mux.Handle("/metrics", metrics.Handler())

	handler := chain(mux,
		corsMiddleware,
		bodyLimitMiddleware(cfg.MaxBodyBytes),
		observeMiddleware,
	)

	port := 5000
	if cfg.Port > 0 {
		port = cfg.Port
	}

	log.Infof("HTTP server configured on port %d", port)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		log:        log,
	}
}

// Start begins listening for HTTP requests
// Blocks until the server is stopped or encounters an error
func (s *Server) Start() error {
	s.log.Infof("Starting HTTP server on %s", s.httpServer.Addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return errors.Wrap(err, "http server failed")
	}

	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Stopping HTTP server...")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "http server shutdown failed")
	}

	s.log.Info("HTTP server stopped")
	return nil
}
