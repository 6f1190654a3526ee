package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) routes() {
	s.e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{"status": s.api.Health()})
	})

	// Schedulers differ in the verb they send; the body is ignored either way.
	s.e.Match([]string{http.MethodGet, http.MethodPost}, "/run", s.handleRun)
	s.e.GET("/profiles/:handle", s.handleGetProfile)
	s.e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}
