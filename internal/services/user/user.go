// Package services содержит логику бизнес-уровня для регистрации
// и аутентификации пользователей.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/book-subscription/internal/lib/jwt"
	"github.com/magabrotheeeer/book-subscription/internal/lib/password"
	"github.com/magabrotheeeer/book-subscription/internal/models"
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя; занятая почта — models.ErrEmailTaken.
	CreateUser(ctx context.Context, user *models.User) error
	// GetUserByEmail возвращает пользователя по почте или models.ErrUserNotFound.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// UserService отвечает за регистрацию и аутентификацию.
type UserService struct {
	users    UserRepository
	jwtMaker jwt.Maker
}

// NewUserService создает новый экземпляр UserService.
func NewUserService(users UserRepository, jwtMaker jwt.Maker) *UserService {
	return &UserService{
		users:    users,
		jwtMaker: jwtMaker,
	}
}

// Register создает нового пользователя с хэшированием пароля.
// Токен при регистрации не выдаётся, вход выполняется отдельно.
func (s *UserService) Register(ctx context.Context, req models.RegisterRequest) (*models.PublicUser, error) {
	hashed, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		UID:          uuid.NewString(),
		Email:        req.Email,
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: hashed,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user.Public(), nil
}

// Authenticate проверяет пароль пользователя и генерирует JWT.
//
// Неизвестная почта и неверный пароль дают одинаковую ошибку
// models.ErrInvalidCredentials, чтобы не раскрывать, какая часть
// учётных данных неверна.
func (s *UserService) Authenticate(ctx context.Context, email, rawPassword string) (*models.PublicUser, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := password.Compare(user.PasswordHash, rawPassword); err != nil {
		return nil, models.ErrInvalidCredentials
	}

	token, err := s.jwtMaker.GenerateToken(user.UID, user.Email)
	if err != nil {
		return nil, err
	}

	public := user.Public()
	public.Token = token
	return public, nil
}
