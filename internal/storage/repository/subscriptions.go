package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/book-subscription/internal/models"
)

// CreateSubscription вставляет новую запись подписки.
//
// Частичный уникальный индекс subscriptions_active_user_book_idx гарантирует
// не более одной активной подписки на пару (user_id, book_id); его нарушение
// переводится в models.ErrAlreadySubscribed, так что проигравший гонку
// конкурентных покупок получает ту же ошибку, что и повторная покупка.
func (s *Storage) CreateSubscription(ctx context.Context, sub *models.Subscription) error {
	const op = "storage.CreateSubscription"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscriptions (id, user_id, book_id, date_subscribed, is_active)
			  VALUES ($1, $2, $3, $4, $5)`
	_, err := s.DB.ExecContext(ctx, query,
		sub.ID, sub.UserID, sub.BookID, sub.DateSubscribed, sub.IsActive)
	if err != nil {
		if isUniqueViolation(err, "subscriptions_active_user_book_idx") {
			return models.ErrAlreadySubscribed
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetSubscriptionByID возвращает подписку по её ID.
func (s *Storage) GetSubscriptionByID(ctx context.Context, id string) (*models.Subscription, error) {
	const op = "storage.GetSubscriptionByID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_id, book_id, date_subscribed, is_active
			  FROM subscriptions
			  WHERE id = $1`
	sub := &models.Subscription{}
	row := s.DB.QueryRowContext(ctx, query, id)
	if err := row.Scan(&sub.ID, &sub.UserID, &sub.BookID,
		&sub.DateSubscribed, &sub.IsActive); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sub, nil
}

// GetActiveSubscription возвращает активную подписку пары (пользователь, книга).
func (s *Storage) GetActiveSubscription(ctx context.Context, userID, bookID string) (*models.Subscription, error) {
	const op = "storage.GetActiveSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_id, book_id, date_subscribed, is_active
			  FROM subscriptions
			  WHERE user_id = $1
			    AND book_id = $2
			    AND is_active`
	sub := &models.Subscription{}
	row := s.DB.QueryRowContext(ctx, query, userID, bookID)
	if err := row.Scan(&sub.ID, &sub.UserID, &sub.BookID,
		&sub.DateSubscribed, &sub.IsActive); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sub, nil
}

// DeactivateSubscription переводит подписку в неактивное состояние.
// Возвращает количество изменённых строк: 0 означает, что запись уже
// неактивна или не существует — обе конкурентные отписки корректны,
// выигрывает одна.
func (s *Storage) DeactivateSubscription(ctx context.Context, id string) (int, error) {
	const op = "storage.DeactivateSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscriptions
			  SET is_active = FALSE
			  WHERE id = $1
			    AND is_active`
	result, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListSubscriptionsByUser возвращает все подписки пользователя, включая историю.
func (s *Storage) ListSubscriptionsByUser(ctx context.Context, userID string) ([]*models.Subscription, error) {
	const op = "storage.ListSubscriptionsByUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_id, book_id, date_subscribed, is_active
			  FROM subscriptions
			  WHERE user_id = $1
			  ORDER BY date_subscribed`
	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Subscription
	for rows.Next() {
		var sub models.Subscription
		if err := rows.Scan(&sub.ID, &sub.UserID, &sub.BookID,
			&sub.DateSubscribed, &sub.IsActive); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
