package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"github.com/dsoumyadip/tb-update-handles/internal/api"
)

type Server struct {
	api        *api.API
	e          *echo.Echo
	runTimeout time.Duration
	logger     *slog.Logger
}

func New(a *api.API, runTimeout time.Duration, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(otelecho.Middleware("tb-update-handles"))

	s := &Server{api: a, e: e, runTimeout: runTimeout, logger: logger}
	s.routes()
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.e }

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = s.e.Shutdown(shutdownCtx)
	}()
	s.logger.Info("listening", "addr", addr)
	if err := s.e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
