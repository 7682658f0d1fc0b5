// Package server exposes the report store over a small JSON HTTP API.
package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/apex/log"

	"github.com/openvillage/reportd/internal/model"
	"github.com/openvillage/reportd/internal/reports"
)

// Server hosts the HTTP API over an injected report store
type Server struct {
	httpServer *http.Server
	store      *reports.Store
	cfg        model.ServerConfig
}

// New creates the HTTP server around the given store
func New(cfg model.ServerConfig, store *reports.Store) *Server {
	s := &Server{store: store, cfg: cfg}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /api/reports", s.handleListReports)
	mux.HandleFunc("GET /api/reports/{slug}", s.handleReportBySlug)
	mux.HandleFunc("GET /api/hypercerts/{id}", s.handleReportByHypercertID)
	mux.HandleFunc("POST /api/hypercerts/{id}/funding", s.handleFundingUpdate)

	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return s
}

// Handler returns the route handler, for tests
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", s.httpServer.Addr).Info("http server listening")
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	log.Info("http server shutting down")
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
