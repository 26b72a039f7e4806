// Package services содержит бизнес-логику подписок: покупку, отписку и чтение
// с соблюдением инварианта "не более одной активной подписки на пару
// (пользователь, книга)".
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/magabrotheeeer/book-subscription/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/book-subscription/internal/lib/sl"
	"github.com/magabrotheeeer/book-subscription/internal/models"
)

// subscriptionEvents считает опубликованные события подписок по типу.
var subscriptionEvents = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "book_subscription_events_total",
	Help: "Количество событий жизненного цикла подписок по типу.",
}, []string{"type"})

// SubscriptionRepository определяет методы для работы с подписками в хранилище.
type SubscriptionRepository interface {
	// CreateSubscription вставляет новую запись; при нарушении уникальности
	// активной подписки возвращает models.ErrAlreadySubscribed.
	CreateSubscription(ctx context.Context, sub *models.Subscription) error
	// GetSubscriptionByID возвращает подписку по ID.
	GetSubscriptionByID(ctx context.Context, id string) (*models.Subscription, error)
	// GetActiveSubscription возвращает активную подписку пары (пользователь, книга).
	GetActiveSubscription(ctx context.Context, userID, bookID string) (*models.Subscription, error)
	// DeactivateSubscription гасит активную подписку, возвращает число изменённых строк.
	DeactivateSubscription(ctx context.Context, id string) (int, error)
	// ListSubscriptionsByUser возвращает подписки пользователя, включая историю.
	ListSubscriptionsByUser(ctx context.Context, userID string) ([]*models.Subscription, error)
}

// UserReader описывает доступ на чтение к пользователям.
type UserReader interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// BookReader описывает доступ на чтение к каталогу книг.
type BookReader interface {
	GetBookByID(ctx context.Context, id string) (*models.Book, error)
}

// EventPublisher публикует события подписок во внешнюю шину.
type EventPublisher interface {
	PublishSubscriptionEvent(event rabbitmq.SubscriptionEvent) error
}

// SubscriptionService реализует бизнес-логику подписок.
//
// Порядок проверок фиксирован: сначала существование пользователя, затем
// книги, затем доменный инвариант. Ошибки коллабораторов, не являющиеся
// промахами поиска, пробрасываются без изменений.
type SubscriptionService struct {
	repo      SubscriptionRepository
	users     UserReader
	books     BookReader
	publisher EventPublisher
	log       *slog.Logger
}

// NewSubscriptionService создает новый экземпляр SubscriptionService.
// publisher может быть nil, тогда события не публикуются.
func NewSubscriptionService(repo SubscriptionRepository, users UserReader, books BookReader,
	publisher EventPublisher, log *slog.Logger) *SubscriptionService {
	return &SubscriptionService{
		repo:      repo,
		users:     users,
		books:     books,
		publisher: publisher,
		log:       log,
	}
}

// Purchase оформляет новую активную подписку пользователя на книгу.
//
// Возвращает models.ErrUserNotFound, models.ErrBookNotFound или
// models.ErrAlreadySubscribed. Предварительная проверка активной подписки
// даёт точный ответ в обычном случае, а частичный уникальный индекс в
// хранилище закрывает гонку двух конкурентных покупок: проигравший тоже
// получает models.ErrAlreadySubscribed.
func (s *SubscriptionService) Purchase(ctx context.Context, userEmail, bookID string) (*models.Subscription, error) {
	const op = "services.subscription.Purchase"

	user, err := s.users.GetUserByEmail(ctx, userEmail)
	if err != nil {
		return nil, err
	}
	book, err := s.books.GetBookByID(ctx, bookID)
	if err != nil {
		return nil, err
	}

	_, err = s.repo.GetActiveSubscription(ctx, user.UID, book.ID)
	if err == nil {
		return nil, models.ErrAlreadySubscribed
	}
	if !errors.Is(err, models.ErrSubscriptionNotFound) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sub := &models.Subscription{
		ID:             uuid.NewString(),
		UserID:         user.UID,
		BookID:         book.ID,
		DateSubscribed: time.Now().UTC(),
		IsActive:       true,
	}
	if err := s.repo.CreateSubscription(ctx, sub); err != nil {
		return nil, err
	}

	s.log.Info("subscription purchased",
		slog.String("subscription_id", sub.ID),
		slog.String("user_id", sub.UserID),
		slog.String("book_id", sub.BookID))
	s.publishEvent(rabbitmq.EventPurchased, sub)

	return sub, nil
}

// Unsubscribe гасит активную подписку пользователя на книгу по паре
// (почта пользователя, идентификатор книги).
func (s *SubscriptionService) Unsubscribe(ctx context.Context, userEmail, bookID string) error {
	user, err := s.users.GetUserByEmail(ctx, userEmail)
	if err != nil {
		return err
	}
	sub, err := s.repo.GetActiveSubscription(ctx, user.UID, bookID)
	if err != nil {
		return err
	}
	return s.deactivate(ctx, sub)
}

// UnsubscribeByID гасит активную подписку по её идентификатору.
//
// Если подписка существует, но уже неактивна, возвращает models.ErrNotSubscribed:
// повторная отписка — это ошибка вызывающего, а не no-op.
func (s *SubscriptionService) UnsubscribeByID(ctx context.Context, id string) error {
	sub, err := s.repo.GetSubscriptionByID(ctx, id)
	if err != nil {
		return err
	}
	if !sub.IsActive {
		return models.ErrNotSubscribed
	}
	return s.deactivate(ctx, sub)
}

// deactivate гасит запись и публикует событие. Нулевое число изменённых
// строк означает, что конкурентная отписка успела раньше — второй
// вызывающий получает models.ErrNotSubscribed.
func (s *SubscriptionService) deactivate(ctx context.Context, sub *models.Subscription) error {
	rows, err := s.repo.DeactivateSubscription(ctx, sub.ID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrNotSubscribed
	}

	s.log.Info("subscription cancelled", slog.String("subscription_id", sub.ID))
	s.publishEvent(rabbitmq.EventCancelled, sub)
	return nil
}

// GetActive возвращает текущую активную подписку пользователя на книгу.
func (s *SubscriptionService) GetActive(ctx context.Context, userEmail, bookID string) (*models.Subscription, error) {
	user, err := s.users.GetUserByEmail(ctx, userEmail)
	if err != nil {
		return nil, err
	}
	return s.repo.GetActiveSubscription(ctx, user.UID, bookID)
}

// GetByID возвращает подписку по её идентификатору без побочных эффектов.
func (s *SubscriptionService) GetByID(ctx context.Context, id string) (*models.Subscription, error) {
	return s.repo.GetSubscriptionByID(ctx, id)
}

// ListForUser возвращает историю подписок пользователя.
func (s *SubscriptionService) ListForUser(ctx context.Context, userEmail string) ([]*models.Subscription, error) {
	user, err := s.users.GetUserByEmail(ctx, userEmail)
	if err != nil {
		return nil, err
	}
	return s.repo.ListSubscriptionsByUser(ctx, user.UID)
}

// publishEvent публикует событие подписки. Сбой шины не ломает операцию,
// а только логируется.
func (s *SubscriptionService) publishEvent(eventType string, sub *models.Subscription) {
	subscriptionEvents.WithLabelValues(eventType).Inc()
	if s.publisher == nil {
		return
	}
	event := rabbitmq.SubscriptionEvent{
		Type:           eventType,
		SubscriptionID: sub.ID,
		UserID:         sub.UserID,
		BookID:         sub.BookID,
		OccurredAt:     time.Now().UTC(),
	}
	if err := s.publisher.PublishSubscriptionEvent(event); err != nil {
		s.log.Warn("failed to publish subscription event",
			slog.String("type", eventType), sl.Err(err))
	}
}
