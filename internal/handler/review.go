package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/libratrack/lms/internal/model"
)

func (h *Handler) CreateReview(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req model.CreateReviewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	req.UserID = p.UserID

	review, err := h.svc.CreateReview(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, review)
}

func (h *Handler) GetReview(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	review, err := h.svc.GetReview(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, review)
}

func (h *Handler) ListBookReviews(c echo.Context) error {
	bookID, err := paramID(c)
	if err != nil {
		return err
	}
	reviews, err := h.svc.ListBookReviews(c.Request().Context(), bookID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, reviews)
}

func (h *Handler) UpdateReview(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req model.UpdateReviewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	review, err := h.svc.UpdateReview(c.Request().Context(), p.UserID, id, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, review)
}

func (h *Handler) DeleteReview(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	p, err := principal(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteReview(c.Request().Context(), p.UserID, id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListNotifications returns the caller's notifications; every returned row
// comes back marked read with its seen_at stamped.
func (h *Handler) ListNotifications(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	notifications, err := h.svc.ListNotifications(c.Request().Context(), p.UserID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, notifications)
}
