package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"dicebound/internal/session"
)

// Server ties together HTTP serving and WebSocket handling.
type Server struct {
	echo     *echo.Echo
	handlers *Handlers
	logger   *slog.Logger
}

func New(sessions *session.Manager, logger *slog.Logger, publicURL string) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(RequestIDMiddleware())
	e.Use(LoggingMiddleware(logger))

	h := NewHandlers(sessions, logger, publicURL)
	h.Register(e)

	return &Server{echo: e, handlers: h, logger: logger}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.echo }

func (s *Server) Start(addr string) error {
	s.logger.Info("starting server", "addr", addr)
	return s.echo.Start(addr)
}

// Shutdown stops every hub and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.handlers.Close()
	return s.echo.Shutdown(ctx)
}

// ReapIdle drops sessions idle since before cutoff. Sessions with
// connected websocket clients are kept.
func (s *Server) ReapIdle(cutoff time.Time) int {
	return len(s.handlers.ReapIdle(cutoff))
}

// Reap expires sessions idle for longer than ttl until ctx is done. A
// non-positive ttl disables expiry.
func (s *Server) Reap(ctx context.Context, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	interval := ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if n := s.ReapIdle(time.Now().Add(-ttl)); n > 0 {
				s.logger.Debug("reaped idle sessions", "count", n)
			}
		case <-ctx.Done():
			return
		}
	}
}
