// Package remove реализует HTTP-обработчик удаления книги из каталога.
package remove

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/book-subscription/internal/http/response"
	"github.com/magabrotheeeer/book-subscription/internal/lib/sl"
	"github.com/magabrotheeeer/book-subscription/internal/models"
)

// Service описывает интерфейс бизнес-логики удаления книги.
type Service interface {
	Delete(ctx context.Context, id string) error
}

// Handler управляет HTTP-запросами на удаление книг.
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
// @Summary Удалить книгу
// @Description Удаляет книгу из каталога по её ID.
// @Tags Books
// @Produce  json
// @Security BearerAuth
// @Param id path string true "ID книги"
// @Success 200 {object} response.Response "Книга удалена"
// @Failure 404 {object} response.ErrorResponse "Книга не найдена"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /books/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.book.remove"
	log := h.log.With(
		sl.Op(op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, models.ErrBookNotFound) {
			log.Info("book not found", slog.String("book_id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("book not found"))
			return
		}
		log.Error("failed to delete book", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not delete book"))
		return
	}

	log.Info("book deleted", slog.String("book_id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{"deleted_id": id}))
}
