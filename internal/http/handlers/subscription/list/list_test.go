package list

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/book-subscription/internal/http/middlewarectx"
	"github.com/magabrotheeeer/book-subscription/internal/models"
)

// MockService реализует интерфейс list.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) ListForUser(ctx context.Context, email string) ([]*models.Subscription, error) {
	args := m.Called(ctx, email)
	if res := args.Get(0); res != nil {
		return res.([]*models.Subscription), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestListHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		email          string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:  "подписки пользователя: активная и погашенная",
			email: "reader@example.com",
			setupMock: func(m *MockService) {
				subs := []*models.Subscription{
					{
						ID:             "0b9a2c44-6a1e-44d3-8067-3f6f2a9b7d55",
						UserID:         "5e3d1b28-7c4a-4cf2-9d8e-1a2b3c4d5e6f",
						BookID:         "8c2f74a1-92d4-4f36-9a10-5d21c1a80f13",
						DateSubscribed: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
						IsActive:       true,
					},
					{
						ID:             "9f1e0d3c-5b4a-4817-92c6-7d8e9f0a1b2c",
						UserID:         "5e3d1b28-7c4a-4cf2-9d8e-1a2b3c4d5e6f",
						BookID:         "8c2f74a1-92d4-4f36-9a10-5d21c1a80f13",
						DateSubscribed: time.Date(2025, 1, 15, 9, 30, 0, 0, time.UTC),
						IsActive:       false,
					},
				}
				m.On("ListForUser", mock.Anything, "reader@example.com").Return(subs, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"is_active":false`,
		},
		{
			name:           "нет почты в контексте",
			email:          "",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"status":"Error","error":"unauthorized"}`,
		},
		{
			name:  "пользователь не найден",
			email: "ghost@example.com",
			setupMock: func(m *MockService) {
				m.On("ListForUser", mock.Anything, "ghost@example.com").
					Return(nil, models.ErrUserNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"user not found"}`,
		},
		{
			name:  "ошибка сервиса",
			email: "reader@example.com",
			setupMock: func(m *MockService) {
				m.On("ListForUser", mock.Anything, "reader@example.com").
					Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"could not list subscriptions"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet, "/subscriptions/list", nil)
			if tt.email != "" {
				req = req.WithContext(context.WithValue(req.Context(), middlewarectx.UserEmail, tt.email))
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
