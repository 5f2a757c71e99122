package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"vfs-simulator/config"
	"vfs-simulator/logging"
	"vfs-simulator/metrics"
)

const shutdownTimeout = 10 * time.Second

// Server serves the browser terminal.
type Server struct {
	echo     *echo.Echo
	sessions *SessionManager
	addr     string
	sweep    time.Duration
	log      *zap.Logger
}

// NewServer wires sessions, handlers and metrics from cfg.
func NewServer(cfg *config.Config, log *zap.Logger) *Server {
	sessions := NewSessionManager(cfg.Session.RootName, cfg.Server.MaxSessions, cfg.Server.IdleTimeout(), log)

	var rec *metrics.Recorder
	if cfg.Server.Metrics {
		rec = metrics.New()
		sessions.Observe(rec, rec)
	}

	return &Server{
		echo:     SetupRouter(NewHandler(sessions), log, rec),
		sessions: sessions,
		addr:     cfg.Server.ListenAddr,
		sweep:    sweepInterval(cfg.Server.IdleTimeout()),
		log:      log,
	}
}

func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Sessions() *SessionManager {
	return s.sessions
}

// sweepInterval checks for idle sessions a few times per timeout, at
// most once a minute.
func sweepInterval(idle time.Duration) time.Duration {
	return min(idle/4, time.Minute)
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	s.sessions.StartSweeper(sweepCtx, s.sweep)

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("starting server", logging.String("addr", s.addr))
		errCh <- s.echo.Start(s.addr)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server stopped: %w", err)
	case <-ctx.Done():
	}

	s.log.Info("shutting down", logging.Int("open_sessions", len(s.sessions.List())))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.log.Info("server exited cleanly")
	return nil
}
