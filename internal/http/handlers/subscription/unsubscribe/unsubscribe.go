// Package unsubscribe реализует HTTP-обработчик отписки от книги.
//
// Подписка адресуется либо явным идентификатором, либо парой
// (почта пользователя, идентификатор книги).
package unsubscribe

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/book-subscription/internal/http/response"
	"github.com/magabrotheeeer/book-subscription/internal/lib/sl"
	"github.com/magabrotheeeer/book-subscription/internal/models"
)

// Service описывает интерфейс бизнес-логики отписки.
type Service interface {
	Unsubscribe(ctx context.Context, userEmail, bookID string) error
	UnsubscribeByID(ctx context.Context, id string) error
}

// Handler управляет HTTP-запросами на отписку.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Отписаться от книги
// @Description Гасит активную подписку по её ID либо по паре (почта, ID книги).
// @Tags Subscriptions
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.UnsubscribeRequest true "ID подписки или пара (почта, ID книги)"
// @Success 200 {object} response.Response "Отписка выполнена"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или пустой запрос"
// @Failure 404 {object} response.ErrorResponse "Подписка не найдена или неактивна"
// @Failure 422 {object} response.Response "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /subscriptions/unsubscribe [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.unsubscribe"
	log := h.log.With(
		sl.Op(op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.UnsubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	var err error
	switch {
	case req.ID != "":
		err = h.service.UnsubscribeByID(r.Context(), req.ID)
	case req.UserEmail != "" && req.BookID != "":
		err = h.service.Unsubscribe(r.Context(), req.UserEmail, req.BookID)
	default:
		log.Error("neither subscription id nor (email, book id) supplied")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("subscription id or user_email with book_id required"))
		return
	}

	if err != nil {
		switch {
		case errors.Is(err, models.ErrUserNotFound):
			log.Info("user not found", slog.String("email", req.UserEmail))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
		case errors.Is(err, models.ErrSubscriptionNotFound):
			log.Info("no active subscription found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("no active subscription found for this book"))
		case errors.Is(err, models.ErrNotSubscribed):
			log.Info("subscription is not active")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("subscription is not active"))
		default:
			log.Error("failed to unsubscribe", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not unsubscribe"))
		}
		return
	}

	log.Info("unsubscribed successfully")
	render.JSON(w, r, response.OKWithData(map[string]any{"unsubscribed": true}))
}
