// Package server exposes the HTTP API over echo.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/pscheid92/stockpulse/internal/domain"
	apperrors "github.com/pscheid92/stockpulse/internal/errors"
	"github.com/pscheid92/stockpulse/internal/platform/config"
	"github.com/pscheid92/stockpulse/internal/platform/correlation"
)

type Server struct {
	echo      *echo.Echo
	config    *config.Config
	app       domain.AppService
	store     domain.ItemStore
	startTime time.Time
}

func NewServer(cfg *config.Config, app domain.AppService, store domain.ItemStore) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(correlationMiddleware())
	e.Use(apperrors.Middleware())

	srv := &Server{
		echo:      e,
		config:    cfg,
		app:       app,
		store:     store,
		startTime: time.Now(),
	}

	srv.registerRoutes()
	return srv
}

func (s *Server) Start() error {
	slog.Info("Starting server", "port", s.config.Port)
	return s.echo.Start(fmt.Sprintf(":%s", s.config.Port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// correlationMiddleware tags every request context with a correlation ID so
// log lines across the pipeline can be tied back to the request.
func correlationMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := correlation.Ensure(c.Request().Context())
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}
