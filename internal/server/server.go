// Package server owns the single HTTP listener shared by both protocol
// surfaces and multiplexes inbound requests between them.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/bobmcallan/opsgate/internal/app"
	"github.com/bobmcallan/opsgate/internal/common"
)

// Server manages the HTTP listener and request dispatch.
type Server struct {
	app    *app.App
	server *http.Server
	logger *common.Logger
}

// New creates the HTTP server for the given app.
func New(application *app.App) *Server {
	s := &Server{
		app:    application,
		logger: application.Logger,
	}

	addr := fmt.Sprintf("%s:%d", application.Config.Server.Host, application.Config.Server.Port)
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.withMiddleware(http.HandlerFunc(s.dispatch)),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // long-running tool handlers and event streams
		IdleTimeout:  120 * time.Second,
	}

	return s
}

// Start starts the HTTP server. A listener bind failure propagates to the
// caller.
func (s *Server) Start() error {
	s.logger.Info().
		Str("address", s.server.Addr).
		Str("url", fmt.Sprintf("http://%s", s.server.Addr)).
		Msg("HTTP server starting")

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down HTTP server")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info().Msg("HTTP server stopped")
	return nil
}

// Handler returns the HTTP handler for testing.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}
