package login

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/book-subscription/internal/models"
)

// MockService реализует интерфейс login.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Authenticate(ctx context.Context, email, rawPassword string) (*models.PublicUser, error) {
	args := m.Called(ctx, email, rawPassword)
	if res := args.Get(0); res != nil {
		return res.(*models.PublicUser), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestLoginHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешный вход",
			body: `{"email":"reader@example.com","password":"secret123"}`,
			setupMock: func(m *MockService) {
				user := &models.PublicUser{
					UID:   "5e3d1b28-7c4a-4cf2-9d8e-1a2b3c4d5e6f",
					Email: "reader@example.com",
					Token: "header.payload.signature",
				}
				m.On("Authenticate", mock.Anything, "reader@example.com", "secret123").
					Return(user, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"token":"header.payload.signature"`,
		},
		{
			name:           "некорректный JSON",
			body:           `{"email":`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid request body"}`,
		},
		{
			name:           "ошибка валидации: пустой пароль",
			body:           `{"email":"reader@example.com","password":""}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Password is a required field`,
		},
		{
			name: "неизвестная почта",
			body: `{"email":"ghost@example.com","password":"secret123"}`,
			setupMock: func(m *MockService) {
				m.On("Authenticate", mock.Anything, "ghost@example.com", "secret123").
					Return(nil, models.ErrInvalidCredentials)
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"status":"Error","error":"invalid credentials"}`,
		},
		{
			name: "неверный пароль",
			body: `{"email":"reader@example.com","password":"wrongpass"}`,
			setupMock: func(m *MockService) {
				m.On("Authenticate", mock.Anything, "reader@example.com", "wrongpass").
					Return(nil, models.ErrInvalidCredentials)
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"status":"Error","error":"invalid credentials"}`,
		},
		{
			name: "ошибка сервиса",
			body: `{"email":"reader@example.com","password":"secret123"}`,
			setupMock: func(m *MockService) {
				m.On("Authenticate", mock.Anything, "reader@example.com", "secret123").
					Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"could not authenticate user"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
