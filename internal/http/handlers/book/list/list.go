// Package list реализует HTTP-обработчик получения каталога книг.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/book-subscription/internal/http/response"
	"github.com/magabrotheeeer/book-subscription/internal/lib/sl"
	"github.com/magabrotheeeer/book-subscription/internal/models"
)

// Service описывает интерфейс бизнес-логики каталога.
type Service interface {
	List(ctx context.Context) ([]*models.Book, error)
}

// Handler управляет HTTP-запросами на чтение каталога.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить список книг
// @Description Возвращает все книги каталога.
// @Tags Books
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response "Список книг"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /books [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.book.list"
	log := h.log.With(
		sl.Op(op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	books, err := h.service.List(r.Context())
	if err != nil {
		log.Error("failed to list books", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list books"))
		return
	}

	render.JSON(w, r, response.OKWithData(books))
}
