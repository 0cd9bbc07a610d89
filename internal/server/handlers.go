package server

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/pscheid92/stockpulse/internal/domain"
	apperrors "github.com/pscheid92/stockpulse/internal/errors"
)

type analyzeRequest struct {
	Text string `json:"text"`
}

// handleAnalyze scores a single text on the fly. Nothing is persisted.
func (s *Server) handleAnalyze(c echo.Context) error {
	var req analyzeRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	result := s.app.Analyze(c.Request().Context(), req.Text)
	return c.JSON(http.StatusOK, result)
}

// handleIngest scores and stores one item for a subject. Re-posting the same
// (subject, url) pair replaces the stored record.
func (s *Server) handleIngest(c echo.Context) error {
	var raw domain.RawItem
	if err := c.Bind(&raw); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	item, err := s.app.Ingest(c.Request().Context(), c.Param("subject"), raw)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, item)
}

// handleCollect runs one collection cycle for a subject and returns the
// batch summary. Partial failure is a 200 with the failures listed.
func (s *Server) handleCollect(c echo.Context) error {
	subject := c.Param("subject")
	if subject == "" {
		return apperrors.ValidationError("subject must not be empty")
	}

	summary := s.app.CollectSubject(c.Request().Context(), subject)
	return c.JSON(http.StatusOK, summary)
}

// handleReport generates the windowed report for a subject. The window
// defaults to the configured number of days and can be overridden with the
// days query parameter.
func (s *Server) handleReport(c echo.Context) error {
	windowDays := s.config.DefaultWindowDays
	if raw := c.QueryParam("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return apperrors.ValidationError("days must be an integer").WithContext("days", raw)
		}
		windowDays = parsed
	}

	report, err := s.app.Report(c.Request().Context(), c.Param("subject"), windowDays)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, report)
}
