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

	"github.com/libratrack/lms/internal/handler"
	service_mocks "github.com/libratrack/lms/internal/handler/mocks"
	"github.com/libratrack/lms/internal/model"
	"github.com/libratrack/lms/pkg/auth"
	md "github.com/libratrack/lms/pkg/middleware"
	"github.com/libratrack/lms/pkg/validate"
)

func TestHandler_CreateReport(t *testing.T) {
	t.Parallel()

	var (
		admin       = auth.Principal{UserID: 42, Username: "admin", Role: auth.RoleAdmin}
		member      = auth.Principal{UserID: 1, Username: "reader", Role: auth.RoleMember}
		generatedAt = time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	)

	tests := []struct {
		name         string
		principal    auth.Principal
		body         string
		mockBehavior func(r *service_mocks.MockLMSService)
		expectedCode int
		expectedBody string
	}{
		{
			name:      "ok. pending report enqueued",
			principal: admin,
			body:      `{"reportType":"MOST_BORROWED_BOOKS"}`,
			mockBehavior: func(r *service_mocks.MockLMSService) {
				r.EXPECT().
					EnqueueReport(gomock.Any(), model.CreateReportRequest{ReportType: model.ReportMostBorrowedBooks}, admin.UserID).
					Return(model.Report{
						ID:          1,
						ReportUid:   "2f0c9a1e-5e0a-4f5e-8f0f-0d9a7f1c2b3d",
						ReportType:  model.ReportMostBorrowedBooks,
						GeneratedBy: admin.UserID,
						GeneratedAt: generatedAt,
						Status:      model.ReportStatusPending,
					}, nil)
			},
			expectedCode: http.StatusCreated,
			expectedBody: `{"id":1,"reportUid":"2f0c9a1e-5e0a-4f5e-8f0f-0d9a7f1c2b3d","reportType":"MOST_BORROWED_BOOKS","generatedBy":42,"generatedAt":"2026-09-01T09:00:00Z","file":"","status":"pending"}`,
		},
		{
			name:         "err. member may not request reports",
			principal:    member,
			body:         `{"reportType":"MOST_BORROWED_BOOKS"}`,
			mockBehavior: func(r *service_mocks.MockLMSService) {},
			expectedCode: http.StatusForbidden,
			expectedBody: `{"message":"Forbidden"}`,
		},
		{
			name:         "err. unknown report type",
			principal:    admin,
			body:         `{"reportType":"EVERYTHING"}`,
			mockBehavior: func(r *service_mocks.MockLMSService) {},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"message":"Key: 'CreateReportRequest.ReportType' Error:Field validation for 'ReportType' failed on the 'oneof' tag"}`,
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
			e.POST("/reports", h.CreateReport,
				withPrincipal(tt.principal), md.RequireCapability(auth.Role.CanViewReports))

			r := httptest.NewRequest(http.MethodPost, "/reports", strings.NewReader(tt.body))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.expectedCode, w.Code)
			require.Equal(t, tt.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}
