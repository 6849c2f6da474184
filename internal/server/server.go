// AngelaMos | 2026
// server.go

package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/soundline/internal/config"
	"github.com/carterperez-dev/soundline/internal/health"
)

type Config struct {
	ServerConfig  config.ServerConfig
	HealthHandler *health.Handler
	Logger        *slog.Logger
}

// Server wraps the HTTP listener with drain-aware shutdown: readiness
// flips to failing before connections stop being accepted, so load
// balancers rotate traffic away first.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	health     *health.Handler
	logger     *slog.Logger
	shutdownTO time.Duration
}

func New(cfg Config) *Server {
	router := chi.NewRouter()

	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.ServerConfig.Address(),
			Handler:      router,
			ReadTimeout:  cfg.ServerConfig.ReadTimeout,
			WriteTimeout: cfg.ServerConfig.WriteTimeout,
			IdleTimeout:  cfg.ServerConfig.IdleTimeout,
		},
		router:     router,
		health:     cfg.HealthHandler,
		logger:     cfg.Logger,
		shutdownTO: cfg.ServerConfig.ShutdownTimeout,
	}
}

func (s *Server) Router() *chi.Mux {
	return s.router
}

func (s *Server) Start() error {
	s.logger.Info("http server listening", "addr", s.httpServer.Addr)

	err := s.httpServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown fails readiness, waits drainDelay for traffic to drain, then
// stops accepting connections and waits up to the configured shutdown
// timeout for in-flight requests.
func (s *Server) Shutdown(ctx context.Context, drainDelay time.Duration) error {
	if s.health != nil {
		s.health.SetShutdown(true)
	}

	s.logger.Info("draining connections", "delay", drainDelay)
	select {
	case <-time.After(drainDelay):
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, s.shutdownTO)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}

	s.logger.Info("http server stopped")
	return nil
}
