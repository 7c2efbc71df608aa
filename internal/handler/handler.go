package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/libratrack/lms/internal/errs"
	"github.com/libratrack/lms/pkg/auth"
	md "github.com/libratrack/lms/pkg/middleware"
	"github.com/libratrack/lms/pkg/validate"
)

type Handler struct {
	svc LMSService
	log *zap.Logger
}

func New(svc LMSService, log *zap.Logger) *Handler {
	return &Handler{
		svc: svc,
		log: log,
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)

	e.Validator = validate.NewCustomValidator()
	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig()),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
	)

	api.POST("/auth/register", h.Register)
	api.POST("/auth/login", h.Login)
	api.POST("/auth/refresh", h.Refresh)

	// open reads
	api.GET("/books", h.ListBooks)
	api.GET("/books/available", h.ListAvailableBooks)
	api.GET("/books/:id", h.GetBook)
	api.GET("/books/:id/reviews", h.ListBookReviews)
	api.GET("/authors", h.ListAuthors)
	api.GET("/authors/:id", h.GetAuthor)
	api.GET("/categories", h.ListCategories)
	api.GET("/categories/:id", h.GetCategory)
	api.GET("/publishers", h.ListPublishers)
	api.GET("/publishers/:id", h.GetPublisher)
	api.GET("/book-copies", h.ListBookCopies)
	api.GET("/book-copies/:id", h.GetBookCopy)

	authed := api.Group("", md.JwtAuthentication)
	authed.GET("/protected", h.Protected)
	authed.POST("/auth/logout", h.Logout)

	authed.POST("/reservations", h.CreateReservation)
	authed.GET("/reservations", h.GetReservations)

	authed.POST("/reviews", h.CreateReview)
	authed.GET("/reviews/:id", h.GetReview)
	authed.PUT("/reviews/:id", h.UpdateReview)
	authed.DELETE("/reviews/:id", h.DeleteReview)

	authed.GET("/notifications", h.ListNotifications)

	authed.GET("/borrowings", h.ListBorrowings)
	authed.GET("/borrowings/:id", h.GetBorrowing)

	staff := authed.Group("", md.RequireCapability(auth.Role.IsStaff))
	staff.POST("/borrowings", h.CreateBorrowing)
	staff.POST("/borrowings/:id/return", h.ReturnBorrowing)
	staff.DELETE("/borrowings/:id", h.DeleteBorrowing)

	staff.POST("/reports", h.CreateReport)
	staff.GET("/reports", h.ListReports)
	staff.GET("/reports/:uid", h.GetReport)

	catalog := authed.Group("", md.RequireCapability(auth.Role.CanManageCatalog))
	catalog.POST("/books", h.CreateBook)
	catalog.PUT("/books/:id", h.UpdateBook)
	catalog.DELETE("/books/:id", h.DeleteBook)
	catalog.POST("/authors", h.CreateAuthor)
	catalog.PUT("/authors/:id", h.UpdateAuthor)
	catalog.DELETE("/authors/:id", h.DeleteAuthor)
	catalog.POST("/categories", h.CreateCategory)
	catalog.PUT("/categories/:id", h.UpdateCategory)
	catalog.DELETE("/categories/:id", h.DeleteCategory)
	catalog.POST("/publishers", h.CreatePublisher)
	catalog.PUT("/publishers/:id", h.UpdatePublisher)
	catalog.DELETE("/publishers/:id", h.DeletePublisher)
	catalog.POST("/book-copies", h.CreateBookCopy)
	catalog.PUT("/book-copies/:id", h.UpdateBookCopy)
	catalog.DELETE("/book-copies/:id", h.DeleteBookCopy)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (h *Handler) Protected(c echo.Context) error {
	principal, ok := auth.FromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "No principal")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"username": principal.Username,
		"role":     principal.Role,
	})
}

func paramID(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, errors.New("id is invalid").Error())
	}
	return id, nil
}

func principal(c echo.Context) (auth.Principal, error) {
	p, ok := auth.FromContext(c.Request().Context())
	if !ok {
		return auth.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, "No principal")
	}
	return p, nil
}

// httpError maps domain sentinels onto HTTP statuses.
func httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, errs.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, errs.ErrBadCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, errs.ErrAlreadyBorrowed),
		errors.Is(err, errs.ErrInvalidDueDate),
		errors.Is(err, errs.ErrAlreadyReturned),
		errors.Is(err, errs.ErrNotBorrowed),
		errors.Is(err, errs.ErrAlreadyReserved),
		errors.Is(err, errs.ErrAlreadyReviewed),
		errors.Is(err, errs.ErrDuplicate):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
