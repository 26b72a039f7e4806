// Package models содержит доменные структуры пользователя, книги и подписки,
// а также вспомогательные типы для приёма данных из JSON-запросов.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
type User struct {
	UID          string    // Уникальный идентификатор пользователя (UUID)
	Email        string    // Электронная почта (уникальная, ключ для входа)
	Username     string    // Имя пользователя
	FirstName    string    // Имя
	LastName     string    // Фамилия
	PasswordHash string    // Хэш пароля пользователя, никогда не исходный пароль
	CreatedAt    time.Time // Дата регистрации
}

// PublicUser — проекция пользователя без хэша пароля.
// Token заполняется только при аутентификации, регистрация токен не выдаёт.
type PublicUser struct {
	UID       string `json:"uid"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Token     string `json:"token,omitempty"`
}

// Public возвращает проекцию пользователя для внешних ответов.
func (u *User) Public() *PublicUser {
	return &PublicUser{
		UID:       u.UID,
		Email:     u.Email,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

// RegisterRequest используется для приёма данных регистрации из JSON-запроса.
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Username  string `json:"username" validate:"required,min=3,max=50"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Password  string `json:"password" validate:"required,min=6"`
}
