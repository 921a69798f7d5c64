// Package api provides the seqconvert REST API server.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/FocuswithJustin/seqconvert/internal/cache"
	"github.com/FocuswithJustin/seqconvert/internal/logging"
)

// Server serves conversions over HTTP and reports job progress over a
// WebSocket hub.
type Server struct {
	cfg     Config
	hub     *Hub
	jobs    *JobStore
	results cache.Cache[string, *ConvertResult] // nil when disabled
	started time.Time
}

// New creates a server and starts its WebSocket hub. Call Close to stop
// the hub when the server is not run through ListenAndServe.
func New(cfg Config) *Server {
	s := &Server{
		cfg:     cfg,
		hub:     NewHub(),
		jobs:    NewJobStore(),
		started: time.Now(),
	}
	if cc, ok := cfg.cacheConfig(); ok {
		s.results = cache.NewLRU[string, *ConvertResult](cc)
	}
	go s.hub.Run()
	return s
}

// Close cancels outstanding jobs and stops the hub.
func (s *Server) Close() {
	s.jobs.CancelAll()
	s.hub.Stop()
}

// Handler returns the routed handler wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	var handler http.Handler = s.routes()
	handler = securityHeaders(handler)
	handler = corsMiddleware(s.cfg.AllowedOrigins, handler)
	if len(s.cfg.AllowedOrigins) > 0 {
		logging.SecurityEvent("cors_configured", "api",
			"mode", "restricted",
			"allowed_origins_count", len(s.cfg.AllowedOrigins))
	}
	return logging.CombinedMiddleware(handler)
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/formats", s.handleFormats)
	mux.HandleFunc("/convert", s.handleConvert)
	mux.HandleFunc("/jobs", s.handleJobs)
	mux.HandleFunc("/jobs/", s.handleJobByID)
	mux.HandleFunc("/ws", s.handleWebSocket)
	return mux
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	defer s.Close()

	logging.ServerStartup("rest_api", "http", s.cfg.Port, "websocket_protocol", "ws")

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) cacheStats() cache.Stats {
	if s.results == nil {
		return cache.Stats{}
	}
	return s.results.Stats()
}
