// Package server exposes the sync trigger over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/zinc-sig/syncd/internal/output"
)

const (
	SyncPath   = "/sync-transactions"
	HealthPath = "/healthz"

	shutdownTimeout = 5 * time.Second
)

// Runner performs one sync run
type Runner interface {
	Run(ctx context.Context) *output.Report
}

type Server struct {
	runner Runner
	logger *log.Logger
}

func New(runner Runner, logger *log.Logger) *Server {
	return &Server{runner: runner, logger: logger}
}

// Handler returns the routes wrapped in the CORS middleware
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+SyncPath, s.handleSync)
	mux.HandleFunc("GET "+HealthPath, s.handleHealth)
	return WithCORS(mux)
}

// handleSync blocks until the sync command exits. The run is detached from
// the request context: a client hanging up does not kill the sync.
func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	s.logger.Printf("[SYNC] %s %s from %s", r.Method, r.URL.Path, r.RemoteAddr)

	report := s.runner.Run(context.WithoutCancel(r.Context()))

	status := http.StatusOK
	if !report.Success {
		status = http.StatusInternalServerError
	}
	s.writeJSON(w, status, output.NewResponse(report.Success))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Printf("writing response: %v", err)
	}
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Printf("listening on http://%s", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
		s.logger.Printf("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown: %w", err)
		}
		return nil
	}
}
