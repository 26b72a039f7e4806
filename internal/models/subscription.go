package models

import "time"

// Subscription представляет подписку пользователя на книгу.
//
// Для пары (UserID, BookID) в любой момент времени существует не более одной
// записи с IsActive = true. Отписка переводит запись в неактивное состояние,
// записи никогда не удаляются и не активируются повторно: возобновлённая
// подписка — это всегда новая запись с новым идентификатором.
type Subscription struct {
	ID             string    `json:"id"`              // Уникальный идентификатор подписки (UUID)
	UserID         string    `json:"user_id"`         // Идентификатор пользователя
	BookID         string    `json:"book_id"`         // Идентификатор книги
	DateSubscribed time.Time `json:"date_subscribed"` // Дата оформления
	IsActive       bool      `json:"is_active"`       // Признак активности
}

// PurchaseRequest используется для приёма данных покупки подписки из JSON-запроса.
type PurchaseRequest struct {
	UserEmail string `json:"user_email" validate:"required,email"`
	BookID    string `json:"book_id" validate:"required,uuid"`
}

// UnsubscribeRequest используется для приёма данных отписки из JSON-запроса.
// Подписка указывается либо явным идентификатором, либо парой
// (почта пользователя, идентификатор книги).
type UnsubscribeRequest struct {
	ID        string `json:"id" validate:"omitempty,uuid"`
	UserEmail string `json:"user_email" validate:"omitempty,email"`
	BookID    string `json:"book_id" validate:"omitempty,uuid"`
}
