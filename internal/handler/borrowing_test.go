package handler_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/libratrack/lms/internal/errs"
	"github.com/libratrack/lms/internal/handler"
	service_mocks "github.com/libratrack/lms/internal/handler/mocks"
	"github.com/libratrack/lms/internal/model"
	"github.com/libratrack/lms/pkg/auth"
	md "github.com/libratrack/lms/pkg/middleware"
	"github.com/libratrack/lms/pkg/validate"
)

// withPrincipal injects an already authenticated principal, standing in for
// the jwt middleware.
func withPrincipal(p auth.Principal) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			c.SetRequest(req.WithContext(auth.SetAuthContext(req.Context(), p)))
			return next(c)
		}
	}
}

func TestHandler_CreateBorrowing(t *testing.T) {
	t.Parallel()

	var (
		staff  = auth.Principal{UserID: 100, Username: "librarian", Role: auth.RoleLibrarian}
		member = auth.Principal{UserID: 1, Username: "reader", Role: auth.RoleMember}
		due    = time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
		borrow = time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	)

	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockLMSService)

	tests := []struct {
		name         string
		principal    auth.Principal
		body         string
		mockBehavior mockBehavior
		response     response
	}{
		{
			name:      "ok",
			principal: staff,
			body:      `{"userID":1,"bookID":2,"dueDate":"2026-09-10T00:00:00Z"}`,
			mockBehavior: func(r *service_mocks.MockLMSService) {
				r.EXPECT().
					CreateBorrowing(gomock.Any(), model.CreateBorrowingRequest{UserID: 1, BookID: 2, DueDate: due}).
					Return(model.Borrowing{
						ID:         7,
						UserID:     1,
						BookID:     2,
						BorrowDate: borrow,
						DueDate:    due,
						Status:     model.StatusBorrowed,
					}, nil)
			},
			response: response{
				expectedCode: http.StatusCreated,
				expectedBody: `{"id":7,"userID":1,"bookID":2,"borrowDate":"2026-09-01T10:00:00Z","dueDate":"2026-09-10T00:00:00Z","returnDate":null,"status":"borrowed","lateFee":0}`,
			},
		},
		{
			name:      "err. already borrowed",
			principal: staff,
			body:      `{"userID":1,"bookID":2,"dueDate":"2026-09-10T00:00:00Z"}`,
			mockBehavior: func(r *service_mocks.MockLMSService) {
				r.EXPECT().
					CreateBorrowing(gomock.Any(), gomock.Any()).
					Return(model.Borrowing{}, errs.ErrAlreadyBorrowed)
			},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"book is already borrowed"}`,
			},
		},
		{
			name:      "err. due date in the past",
			principal: staff,
			body:      `{"userID":1,"bookID":2,"dueDate":"2020-01-01T00:00:00Z"}`,
			mockBehavior: func(r *service_mocks.MockLMSService) {
				r.EXPECT().
					CreateBorrowing(gomock.Any(), gomock.Any()).
					Return(model.Borrowing{}, errs.ErrInvalidDueDate)
			},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"due date must be in the future"}`,
			},
		},
		{
			name:         "err. member may not lend",
			principal:    member,
			body:         `{"userID":1,"bookID":2,"dueDate":"2026-09-10T00:00:00Z"}`,
			mockBehavior: func(r *service_mocks.MockLMSService) {},
			response: response{
				expectedCode: http.StatusForbidden,
				expectedBody: `{"message":"Forbidden"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockLMSService(c)
			h := handler.New(svc, zap.NewExample().Named("test"))

			e := echo.New()
			e.Validator = validate.NewCustomValidator()
			e.POST("/borrowings", h.CreateBorrowing,
				withPrincipal(tt.principal), md.RequireCapability(auth.Role.IsStaff))

			r := httptest.NewRequest(http.MethodPost, "/borrowings", strings.NewReader(tt.body))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_ReturnBorrowing(t *testing.T) {
	t.Parallel()

	var (
		staff    = auth.Principal{UserID: 100, Username: "librarian", Role: auth.RoleLibrarian}
		due      = time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
		borrow   = time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
		returned = time.Date(2026, 9, 13, 12, 0, 0, 0, time.UTC)
	)

	type response struct {
		expectedCode int
		expectedBody string
	}

	tests := []struct {
		name         string
		target       string
		mockBehavior func(r *service_mocks.MockLMSService)
		response     response
	}{
		{
			name:   "ok. returned late with fee",
			target: "/borrowings/7/return",
			mockBehavior: func(r *service_mocks.MockLMSService) {
				r.EXPECT().
					CloseBorrowing(gomock.Any(), 7).
					Return(model.Borrowing{
						ID:         7,
						UserID:     1,
						BookID:     2,
						BorrowDate: borrow,
						DueDate:    due,
						ReturnDate: &returned,
						Status:     model.StatusOverdue,
						LateFee:    3,
					}, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"id":7,"userID":1,"bookID":2,"borrowDate":"2026-09-01T10:00:00Z","dueDate":"2026-09-10T00:00:00Z","returnDate":"2026-09-13T12:00:00Z","status":"overdue","lateFee":3}`,
			},
		},
		{
			name:   "err. already returned",
			target: "/borrowings/7/return",
			mockBehavior: func(r *service_mocks.MockLMSService) {
				r.EXPECT().
					CloseBorrowing(gomock.Any(), 7).
					Return(model.Borrowing{}, errs.ErrAlreadyReturned)
			},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"borrowing is already closed"}`,
			},
		},
		{
			name:   "err. unknown borrowing",
			target: "/borrowings/777/return",
			mockBehavior: func(r *service_mocks.MockLMSService) {
				r.EXPECT().
					CloseBorrowing(gomock.Any(), 777).
					Return(model.Borrowing{}, errs.ErrNotFound)
			},
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"message":"not found"}`,
			},
		},
		{
			name:         "err. bad id",
			target:       "/borrowings/seven/return",
			mockBehavior: func(r *service_mocks.MockLMSService) {},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"id is invalid"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockLMSService(c)
			h := handler.New(svc, zap.NewExample().Named("test"))

			e := echo.New()
			e.Validator = validate.NewCustomValidator()
			e.POST("/borrowings/:id/return", h.ReturnBorrowing,
				withPrincipal(staff), md.RequireCapability(auth.Role.IsStaff))

			r := httptest.NewRequest(http.MethodPost, tt.target, http.NoBody)
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_ListBorrowings(t *testing.T) {
	t.Parallel()

	var (
		staff  = auth.Principal{UserID: 100, Username: "librarian", Role: auth.RoleLibrarian}
		member = auth.Principal{UserID: 1, Username: "reader", Role: auth.RoleMember}
	)

	tests := []struct {
		name         string
		principal    auth.Principal
		mockBehavior func(r *service_mocks.MockLMSService)
		expectedCode int
		expectedBody string
	}{
		{
			name:      "staff sees every record",
			principal: staff,
			mockBehavior: func(r *service_mocks.MockLMSService) {
				r.EXPECT().
					ListBorrowings(gomock.Any()).
					Return([]model.Borrowing{}, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: `[]`,
		},
		{
			name:      "member sees only their own",
			principal: member,
			mockBehavior: func(r *service_mocks.MockLMSService) {
				r.EXPECT().
					ListUserBorrowings(gomock.Any(), member.UserID).
					Return([]model.Borrowing{}, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: `[]`,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockLMSService(c)
			h := handler.New(svc, zap.NewExample().Named("test"))

			e := echo.New()
			e.Validator = validate.NewCustomValidator()
			e.GET("/borrowings", h.ListBorrowings, withPrincipal(tt.principal))

			r := httptest.NewRequest(http.MethodGet, "/borrowings", http.NoBody)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.expectedCode, w.Code)
			require.Equal(t, tt.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_CreateReservation(t *testing.T) {
	t.Parallel()

	var (
		member   = auth.Principal{UserID: 5, Username: "reader", Role: auth.RoleMember}
		reserved = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	)

	tests := []struct {
		name         string
		body         string
		mockBehavior func(r *service_mocks.MockLMSService)
		expectedCode int
		expectedBody string
	}{
		{
			name: "ok. user taken from the token",
			body: `{"bookID":2}`,
			mockBehavior: func(r *service_mocks.MockLMSService) {
				r.EXPECT().
					CreateReservation(gomock.Any(), model.CreateReservationRequest{BookID: 2, UserID: member.UserID}).
					Return(model.Reservation{
						ID:         3,
						UserID:     member.UserID,
						BookID:     2,
						ReservedAt: reserved,
						IsActive:   true,
					}, nil)
			},
			expectedCode: http.StatusCreated,
			expectedBody: `{"id":3,"userID":5,"bookID":2,"reservedAt":"2026-09-01T12:00:00Z","isActive":true}`,
		},
		{
			name: "err. book not borrowed",
			body: `{"bookID":2}`,
			mockBehavior: func(r *service_mocks.MockLMSService) {
				r.EXPECT().
					CreateReservation(gomock.Any(), gomock.Any()).
					Return(model.Reservation{}, errs.ErrNotBorrowed)
			},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"message":"book is not borrowed"}`,
		},
		{
			name: "err. already reserved",
			body: `{"bookID":2}`,
			mockBehavior: func(r *service_mocks.MockLMSService) {
				r.EXPECT().
					CreateReservation(gomock.Any(), gomock.Any()).
					Return(model.Reservation{}, errs.ErrAlreadyReserved)
			},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"message":"book already has an active reservation"}`,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockLMSService(c)
			h := handler.New(svc, zap.NewExample().Named("test"))

			e := echo.New()
			e.Validator = validate.NewCustomValidator()
			e.POST("/reservations", h.CreateReservation, withPrincipal(member))

			r := httptest.NewRequest(http.MethodPost, "/reservations", strings.NewReader(tt.body))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.expectedCode, w.Code)
			require.Equal(t, tt.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}
