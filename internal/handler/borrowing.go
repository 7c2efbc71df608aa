package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/libratrack/lms/internal/model"
)

func (h *Handler) CreateBorrowing(c echo.Context) error {
	var req model.CreateBorrowingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	borrowing, err := h.svc.CreateBorrowing(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, borrowing)
}

func (h *Handler) ReturnBorrowing(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	borrowing, err := h.svc.CloseBorrowing(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, borrowing)
}

func (h *Handler) GetBorrowing(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	p, err := principal(c)
	if err != nil {
		return err
	}
	borrowing, err := h.svc.GetBorrowing(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	// owner or staff
	if borrowing.UserID != p.UserID && !p.Role.CanManageBorrowings() {
		return echo.NewHTTPError(http.StatusForbidden, "Forbidden")
	}
	return c.JSON(http.StatusOK, borrowing)
}

// ListBorrowings shows staff every record and members only their own history.
func (h *Handler) ListBorrowings(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	var borrowings []model.Borrowing
	if p.Role.CanManageBorrowings() {
		borrowings, err = h.svc.ListBorrowings(ctx)
	} else {
		borrowings, err = h.svc.ListUserBorrowings(ctx, p.UserID)
	}
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, borrowings)
}

func (h *Handler) DeleteBorrowing(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteBorrowing(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) CreateReservation(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req model.CreateReservationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	req.UserID = p.UserID

	reservation, err := h.svc.CreateReservation(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, reservation)
}

func (h *Handler) GetReservations(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	reservations, err := h.svc.ListUserReservations(c.Request().Context(), p.UserID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, reservations)
}
