package models

import "errors"

// Доменные ошибки сервисного слоя. Хранилище переводит свои промахи
// в эти виды, инфраструктурные сбои пробрасываются как есть.
var (
	// ErrUserNotFound — пользователь с такой почтой или UID не найден.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken — пользователь с такой почтой уже зарегистрирован.
	ErrEmailTaken = errors.New("email already taken")
	// ErrBookNotFound — книга с таким идентификатором не найдена.
	ErrBookNotFound = errors.New("book not found")
	// ErrSubscriptionNotFound — подписка не найдена.
	ErrSubscriptionNotFound = errors.New("subscription not found")
	// ErrAlreadySubscribed — у пользователя уже есть активная подписка на книгу.
	ErrAlreadySubscribed = errors.New("user already subscribed to this book")
	// ErrNotSubscribed — подписка существует, но уже неактивна.
	ErrNotSubscribed = errors.New("subscription is not active")
	// ErrInvalidCredentials — неверная почта или пароль.
	// Какая именно часть неверна, намеренно не раскрывается.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
