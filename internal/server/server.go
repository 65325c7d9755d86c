// Package server exposes the simulation, reverse and recommendation
// operations over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ampere-ops/payplan/internal/calculation"
	"github.com/ampere-ops/payplan/internal/config"
	"github.com/ampere-ops/payplan/internal/logging"
	"github.com/ampere-ops/payplan/internal/reverse"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Version is reported by the health endpoint
var Version = "dev"

// Server wires the engines to a chi router
type Server struct {
	config *config.ServerConfig
	logger zerolog.Logger
	engine *calculation.Engine
	solver *reverse.Solver
	parser *config.InputParser
}

// New creates a server whose engines log through logger
func New(cfg *config.ServerConfig, logger zerolog.Logger) *Server {
	engineLogger := logging.EngineLogger{Logger: logger}

	engine := calculation.NewEngine()
	engine.SetLogger(engineLogger)

	return &Server{
		config: cfg,
		logger: logger,
		engine: engine,
		solver: reverse.NewDefaultSolver(engineLogger),
		parser: config.NewInputParser(),
	}
}

// Handler builds the route tree
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(requestID)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Timeout(s.config.RequestTimeout))

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Post("/simulate", s.handleSimulate)
		r.Post("/simulate/reverse", s.handleReverse)
		r.Post("/recommend", s.handleRecommend)
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      s.config.RequestTimeout + 5*time.Second,
		IdleTimeout:       time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.config.Addr).Msg("payplan server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
