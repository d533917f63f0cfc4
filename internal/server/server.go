package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/alumnihub/internal/bootstrap"
	"github.com/yigit/alumnihub/internal/config"
	"github.com/yigit/alumnihub/internal/db"
	"github.com/yigit/alumnihub/internal/pkg/websocket"
)

// Server holds the state for the HTTP server.
type Server struct {
	config *config.Config
	router *gin.Engine
	db     *db.DB
	hub    *websocket.Hub
	tokens TokenPurger
	logger zerolog.Logger
	http   *http.Server
}

// NewServer creates and initializes a new server instance by calling bootstrap functions.
func NewServer(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*Server, error) {
	database, err := bootstrap.SetupDatabase(ctx, cfg, lgr)
	if err != nil {
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}

	deps, err := bootstrap.BuildDependencies(cfg, database, lgr)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to setup dependencies: %w", err)
	}

	return &Server{
		config: cfg,
		router: bootstrap.SetupRouter(cfg, deps, lgr),
		db:     database,
		hub:    deps.Hub,
		tokens: deps.Services.Auth,
		logger: lgr,
	}, nil
}

// Run starts the HTTP server and handles graceful shutdown.
func (s *Server) Run(ctx context.Context) error {
	s.http = &http.Server{
		Addr:              s.config.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	bgCtx, stopBackground := context.WithCancel(ctx)
	defer stopBackground()
	go s.hub.Run(bgCtx)
	go sweepTokens(bgCtx, s.tokens, tokenSweepInterval, s.logger)

	// Channel to listen for errors starting the server
	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.http.Addr).Msg("HTTP server listening")
		serverErrors <- s.http.ListenAndServe()
	}()

	osSignals := make(chan os.Signal, 1)
	signal.Notify(osSignals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(osSignals)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			s.closeDB()
			return fmt.Errorf("error starting server: %w", err)
		}
	case sig := <-osSignals:
		s.logger.Info().Str("signal", sig.String()).Msg("Received OS signal, initiating shutdown...")
	case <-ctx.Done():
		s.logger.Info().Msg("Context cancelled, initiating shutdown...")
	}

	stopBackground()
	return s.Shutdown(context.Background())
}

// Shutdown gracefully stops the server and closes resources.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var shutdownErr error

	if s.http != nil {
		s.logger.Info().Msg("Shutting down HTTP server...")
		if err := s.http.Shutdown(ctx); err != nil {
			s.logger.Error().Err(err).Msg("HTTP server shutdown error")
			shutdownErr = errors.Join(shutdownErr, err)
		} else {
			s.logger.Info().Msg("HTTP server gracefully stopped.")
		}
	}

	if err := s.closeDB(); err != nil {
		shutdownErr = errors.Join(shutdownErr, err)
	}

	s.logger.Info().Msg("Server shutdown process complete.")
	if shutdownErr != nil {
		return fmt.Errorf("server shutdown completed with errors: %w", shutdownErr)
	}
	return nil
}

func (s *Server) closeDB() error {
	if s.db == nil {
		return nil
	}
	s.logger.Info().Msg("Closing database connection...")
	err := s.db.Close()
	if err != nil {
		s.logger.Error().Err(err).Msg("Database close error")
	}
	s.db = nil
	return err
}
