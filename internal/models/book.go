package models

import "time"

// Категории книг. Других значений в каталоге не бывает.
const (
	CategoryFiction    = "Fiction"
	CategoryNonFiction = "NonFiction"
)

// Book представляет книгу в каталоге.
type Book struct {
	ID            string    `json:"id"`             // Уникальный идентификатор книги (UUID)
	Title         string    `json:"title"`          // Название
	Description   string    `json:"description"`    // Описание
	Price         float64   `json:"price"`          // Цена, неотрицательная
	Author        string    `json:"author"`         // Автор
	DatePublished time.Time `json:"date_published"` // Дата публикации
	Category      string    `json:"category"`       // Fiction или NonFiction
	Genre         string    `json:"genre"`          // Жанр, свободный текст
	ImageURL      string    `json:"image_url"`      // Ссылка на обложку
}

// CreateBookRequest используется для приёма данных новой книги из JSON-запроса.
// Дата приходит строкой, чтобы её можно было валидировать и парсить вручную.
type CreateBookRequest struct {
	Title         string  `json:"title" validate:"required"`
	Description   string  `json:"description"`
	Price         float64 `json:"price" validate:"gte=0"`
	Author        string  `json:"author" validate:"required"`
	DatePublished string  `json:"date_published" validate:"required"` // Формат 2006-01-02
	Category      string  `json:"category" validate:"required,oneof=Fiction NonFiction"`
	Genre         string  `json:"genre" validate:"required"`
	ImageURL      string  `json:"image_url" validate:"required,url"`
}
