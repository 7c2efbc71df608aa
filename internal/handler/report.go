package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/libratrack/lms/internal/model"
)

// CreateReport records a pending report and enqueues exactly one generation
// job for the worker.
func (h *Handler) CreateReport(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req model.CreateReportRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	report, err := h.svc.EnqueueReport(c.Request().Context(), req, p.UserID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, report)
}

// GetReport is what clients poll while the worker runs their job.
func (h *Handler) GetReport(c echo.Context) error {
	report, err := h.svc.GetReport(c.Request().Context(), c.Param("uid"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, report)
}

func (h *Handler) ListReports(c echo.Context) error {
	reports, err := h.svc.ListReports(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, reports)
}
