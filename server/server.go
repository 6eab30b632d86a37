// Package server hosts the HTTP surface of reviewgen.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/aikomi/reviewgen/internal/profile"
	apiv1 "github.com/aikomi/reviewgen/server/router/api/v1"
)

type Server struct {
	Profile *profile.Profile

	echoServer *echo.Echo
}

func NewServer(_ context.Context, prof *profile.Profile, api *apiv1.APIV1Service) (*Server, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(requestLogger())

	api.Register(e)

	return &Server{
		Profile:    prof,
		echoServer: e,
	}, nil
}

// Start begins serving in the background. Listener errors other than a clean
// shutdown are logged.
func (s *Server) Start(_ context.Context) error {
	address := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
	go func() {
		if err := s.echoServer.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to start echo server", "error", err)
		}
	}()
	return nil
}

func (s *Server) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := s.echoServer.Shutdown(ctx); err != nil {
		slog.Error("failed to shutdown server", "error", err)
	}

	slog.Info("reviewgen stopped properly")
}

// requestLogger emits one structured log line per request.
func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			slog.Info("http request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"duration_ms", v.Latency.Milliseconds(),
			)
			return nil
		},
	})
}
