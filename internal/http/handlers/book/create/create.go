// Package create реализует HTTP-обработчик добавления книги в каталог.
package create

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/book-subscription/internal/http/response"
	"github.com/magabrotheeeer/book-subscription/internal/lib/sl"
	"github.com/magabrotheeeer/book-subscription/internal/models"
)

// Service описывает интерфейс бизнес-логики добавления книги.
type Service interface {
	Add(ctx context.Context, req models.CreateBookRequest) (*models.Book, error)
}

// Handler управляет HTTP-запросами на добавление книг.
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
// @Summary Добавить книгу
// @Description Добавляет новую книгу в каталог и возвращает её с присвоенным ID.
// @Tags Books
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.CreateBookRequest true "Данные новой книги"
// @Success 201 {object} response.Response "Книга добавлена"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или дата"
// @Failure 422 {object} response.Response "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /books [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.book.create"
	log := h.log.With(
		sl.Op(op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.CreateBookRequest
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

	book, err := h.service.Add(r.Context(), req)
	if err != nil {
		log.Error("failed to add book", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not add book"))
		return
	}

	log.Info("book added", slog.String("book_id", book.ID))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(book))
}
