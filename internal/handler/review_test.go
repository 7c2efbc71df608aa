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
	"github.com/libratrack/lms/pkg/validate"
)

func TestHandler_CreateReview(t *testing.T) {
	t.Parallel()

	var (
		member    = auth.Principal{UserID: 5, Username: "reader", Role: auth.RoleMember}
		createdAt = time.Date(2026, 9, 1, 15, 0, 0, 0, time.UTC)
	)

	tests := []struct {
		name         string
		body         string
		mockBehavior func(r *service_mocks.MockLMSService)
		expectedCode int
		expectedBody string
	}{
		{
			name: "ok",
			body: `{"bookID":2,"rating":4,"comment":"solid read"}`,
			mockBehavior: func(r *service_mocks.MockLMSService) {
				r.EXPECT().
					CreateReview(gomock.Any(), model.CreateReviewRequest{BookID: 2, Rating: 4, Comment: "solid read", UserID: member.UserID}).
					Return(model.Review{
						ID:        11,
						UserID:    member.UserID,
						BookID:    2,
						Rating:    4,
						Comment:   "solid read",
						CreatedAt: createdAt,
					}, nil)
			},
			expectedCode: http.StatusCreated,
			expectedBody: `{"id":11,"userID":5,"bookID":2,"rating":4,"comment":"solid read","createdAt":"2026-09-01T15:00:00Z"}`,
		},
		{
			name: "err. second review for the same book",
			body: `{"bookID":2,"rating":5,"comment":"again"}`,
			mockBehavior: func(r *service_mocks.MockLMSService) {
				r.EXPECT().
					CreateReview(gomock.Any(), gomock.Any()).
					Return(model.Review{}, errs.ErrAlreadyReviewed)
			},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"message":"review already exists for this book"}`,
		},
		{
			name:         "err. rating out of range",
			body:         `{"bookID":2,"rating":6}`,
			mockBehavior: func(r *service_mocks.MockLMSService) {},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"message":"Key: 'CreateReviewRequest.Rating' Error:Field validation for 'Rating' failed on the 'max' tag"}`,
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
			e.POST("/reviews", h.CreateReview, withPrincipal(member))

			r := httptest.NewRequest(http.MethodPost, "/reviews", strings.NewReader(tt.body))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.expectedCode, w.Code)
			require.Equal(t, tt.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_ListNotifications(t *testing.T) {
	t.Parallel()

	member := auth.Principal{UserID: 5, Username: "reader", Role: auth.RoleMember}
	createdAt := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	seenAt := time.Date(2026, 9, 1, 16, 0, 0, 0, time.UTC)

	c := gomock.NewController(t)
	defer c.Finish()
	svc := service_mocks.NewMockLMSService(c)
	h := handler.New(svc, zap.NewExample().Named("test"))

	svc.EXPECT().
		ListNotifications(gomock.Any(), member.UserID).
		Return([]model.Notification{
			{
				ID:        1,
				UserID:    member.UserID,
				BookID:    2,
				Message:   `Reminder: Please return the book "Dune" by 2026-09-02T00:00:00Z.`,
				CreatedAt: createdAt,
				IsRead:    true,
				SeenAt:    &seenAt,
			},
		}, nil)

	e := echo.New()
	e.Validator = validate.NewCustomValidator()
	e.GET("/notifications", h.ListNotifications, withPrincipal(member))

	r := httptest.NewRequest(http.MethodGet, "/notifications", http.NoBody)
	w := httptest.NewRecorder()
	e.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t,
		`[{"id":1,"userID":5,"bookID":2,"message":"Reminder: Please return the book \"Dune\" by 2026-09-02T00:00:00Z.","createdAt":"2026-09-01T08:00:00Z","isRead":true,"seenAt":"2026-09-01T16:00:00Z"}]`,
		strings.Trim(w.Body.String(), "\n"))
}
