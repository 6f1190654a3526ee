package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dsoumyadip/tb-update-handles/internal/ingest"
)

func (s *Server) handleRun(c echo.Context) error {
	ctx := c.Request().Context()
	if s.runTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.runTimeout)
		defer cancel()
	}

	status, res, err := s.api.RunOnce(ctx)
	if err != nil {
		return c.JSON(statusFor(err), map[string]any{
			"status":     "Failure",
			"error_kind": ingest.Kind(err),
			"error":      err.Error(),
			"run_id":     res.RunID,
			"written":    res.Written,
		})
	}
	return c.String(http.StatusOK, status)
}

func (s *Server) handleGetProfile(c echo.Context) error {
	handle := c.Param("handle")
	if handle == "" {
		return c.String(http.StatusBadRequest, "handle required")
	}
	doc, err := s.api.Profile(c.Request().Context(), handle)
	if errors.Is(err, ingest.ErrProfileNotFound) {
		return c.String(http.StatusNotFound, "profile not found")
	}
	if err != nil {
		return c.String(http.StatusInternalServerError, "query error: "+err.Error())
	}
	return c.JSON(http.StatusOK, doc)
}

func statusFor(err error) int {
	switch ingest.Kind(err) {
	case "upstream":
		return http.StatusBadGateway
	case "source_unavailable":
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
