package unsubscribe

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

// MockService реализует интерфейс unsubscribe.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Unsubscribe(ctx context.Context, userEmail, bookID string) error {
	args := m.Called(ctx, userEmail, bookID)
	return args.Error(0)
}

func (m *MockService) UnsubscribeByID(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestUnsubscribeHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	const (
		subID  = "0b9a2c44-6a1e-44d3-8067-3f6f2a9b7d55"
		bookID = "8c2f74a1-92d4-4f36-9a10-5d21c1a80f13"
	)

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "отписка по id подписки",
			body: `{"id":"` + subID + `"}`,
			setupMock: func(m *MockService) {
				m.On("UnsubscribeByID", mock.Anything, subID).Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"unsubscribed":true`,
		},
		{
			name: "отписка по паре почта и книга",
			body: `{"user_email":"reader@example.com","book_id":"` + bookID + `"}`,
			setupMock: func(m *MockService) {
				m.On("Unsubscribe", mock.Anything, "reader@example.com", bookID).Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"unsubscribed":true`,
		},
		{
			name:           "пустой запрос без адресации",
			body:           `{}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `subscription id or user_email with book_id required`,
		},
		{
			name:           "некорректный JSON",
			body:           `{"id":`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid request body"}`,
		},
		{
			name:           "ошибка валидации: id не uuid",
			body:           `{"id":"not-a-uuid"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field ID must be a valid uuid`,
		},
		{
			name: "активная подписка не найдена",
			body: `{"user_email":"reader@example.com","book_id":"` + bookID + `"}`,
			setupMock: func(m *MockService) {
				m.On("Unsubscribe", mock.Anything, "reader@example.com", bookID).
					Return(models.ErrSubscriptionNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `no active subscription found for this book`,
		},
		{
			name: "подписка уже погашена",
			body: `{"id":"` + subID + `"}`,
			setupMock: func(m *MockService) {
				m.On("UnsubscribeByID", mock.Anything, subID).
					Return(models.ErrNotSubscribed)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `subscription is not active`,
		},
		{
			name: "пользователь не найден",
			body: `{"user_email":"ghost@example.com","book_id":"` + bookID + `"}`,
			setupMock: func(m *MockService) {
				m.On("Unsubscribe", mock.Anything, "ghost@example.com", bookID).
					Return(models.ErrUserNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"user not found"}`,
		},
		{
			name: "ошибка сервиса",
			body: `{"id":"` + subID + `"}`,
			setupMock: func(m *MockService) {
				m.On("UnsubscribeByID", mock.Anything, subID).Return(errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"could not unsubscribe"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/subscriptions/unsubscribe", strings.NewReader(tt.body))
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
