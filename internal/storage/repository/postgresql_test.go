package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/book-subscription/internal/models"
)

func newTestUser(email string) *models.User {
	return &models.User{
		UID:          uuid.NewString(),
		Email:        email,
		Username:     "testuser",
		FirstName:    "Ivan",
		LastName:     "Petrov",
		PasswordHash: "hashedpassword",
		CreatedAt:    time.Now().UTC(),
	}
}

func newTestBook(title string) *models.Book {
	return &models.Book{
		ID:            uuid.NewString(),
		Title:         title,
		Description:   "test description",
		Price:         9.99,
		Author:        "Frank Herbert",
		DatePublished: time.Date(1965, 8, 1, 0, 0, 0, 0, time.UTC),
		Category:      models.CategoryFiction,
		Genre:         "Science Fiction",
		ImageURL:      "https://covers.example.com/dune.jpg",
	}
}

func newTestSubscription(userID, bookID string) *models.Subscription {
	return &models.Subscription{
		ID:             uuid.NewString(),
		UserID:         userID,
		BookID:         bookID,
		DateSubscribed: time.Now().UTC(),
		IsActive:       true,
	}
}

func TestStorage_Users(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()

	t.Run("создание и чтение пользователя", func(t *testing.T) {
		user := newTestUser("reader@example.com")
		require.NoError(t, storage.CreateUser(ctx, user))

		got, err := storage.GetUserByEmail(ctx, "reader@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.UID, got.UID)
		assert.Equal(t, user.PasswordHash, got.PasswordHash)

		got, err = storage.GetUserByUID(ctx, user.UID)
		require.NoError(t, err)
		assert.Equal(t, "reader@example.com", got.Email)
	})

	t.Run("повторная почта отклоняется", func(t *testing.T) {
		first := newTestUser("dup@example.com")
		require.NoError(t, storage.CreateUser(ctx, first))

		second := newTestUser("dup@example.com")
		err := storage.CreateUser(ctx, second)
		assert.ErrorIs(t, err, models.ErrEmailTaken)
	})

	t.Run("неизвестная почта", func(t *testing.T) {
		_, err := storage.GetUserByEmail(ctx, "ghost@example.com")
		assert.ErrorIs(t, err, models.ErrUserNotFound)
	})
}

func TestStorage_Books(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()

	t.Run("создание, список и удаление книги", func(t *testing.T) {
		book := newTestBook("Dune")
		require.NoError(t, storage.CreateBook(ctx, book))

		got, err := storage.GetBookByID(ctx, book.ID)
		require.NoError(t, err)
		assert.Equal(t, "Dune", got.Title)
		assert.InDelta(t, 9.99, got.Price, 0.001)

		books, err := storage.ListBooks(ctx)
		require.NoError(t, err)
		require.Len(t, books, 1)

		require.NoError(t, storage.DeleteBook(ctx, book.ID))

		_, err = storage.GetBookByID(ctx, book.ID)
		assert.ErrorIs(t, err, models.ErrBookNotFound)
	})

	t.Run("список отсортирован по названию", func(t *testing.T) {
		require.NoError(t, storage.CreateBook(ctx, newTestBook("Zen in the Art of Writing")))
		require.NoError(t, storage.CreateBook(ctx, newTestBook("Animal Farm")))

		books, err := storage.ListBooks(ctx)
		require.NoError(t, err)
		require.Len(t, books, 2)
		assert.Equal(t, "Animal Farm", books[0].Title)
		assert.Equal(t, "Zen in the Art of Writing", books[1].Title)
	})

	t.Run("удаление несуществующей книги", func(t *testing.T) {
		err := storage.DeleteBook(ctx, uuid.NewString())
		assert.ErrorIs(t, err, models.ErrBookNotFound)
	})
}

func TestStorage_Subscriptions(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()

	user := newTestUser("reader@example.com")
	require.NoError(t, storage.CreateUser(ctx, user))
	book := newTestBook("Dune")
	require.NoError(t, storage.CreateBook(ctx, book))

	t.Run("жизненный цикл подписки", func(t *testing.T) {
		sub := newTestSubscription(user.UID, book.ID)
		require.NoError(t, storage.CreateSubscription(ctx, sub))

		active, err := storage.GetActiveSubscription(ctx, user.UID, book.ID)
		require.NoError(t, err)
		assert.Equal(t, sub.ID, active.ID)

		// Вторая активная подписка на ту же пару запрещена индексом
		err = storage.CreateSubscription(ctx, newTestSubscription(user.UID, book.ID))
		assert.ErrorIs(t, err, models.ErrAlreadySubscribed)

		rows, err := storage.DeactivateSubscription(ctx, sub.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, rows)

		// Погашенная подписка сохраняется как история
		got, err := storage.GetSubscriptionByID(ctx, sub.ID)
		require.NoError(t, err)
		assert.False(t, got.IsActive)

		_, err = storage.GetActiveSubscription(ctx, user.UID, book.ID)
		assert.ErrorIs(t, err, models.ErrSubscriptionNotFound)

		// Повторное гашение ничего не меняет
		rows, err = storage.DeactivateSubscription(ctx, sub.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, rows)
	})

	t.Run("возобновление создает новую запись", func(t *testing.T) {
		renewed := newTestSubscription(user.UID, book.ID)
		require.NoError(t, storage.CreateSubscription(ctx, renewed))

		subs, err := storage.ListSubscriptionsByUser(ctx, user.UID)
		require.NoError(t, err)
		require.Len(t, subs, 2)

		ids := map[string]bool{}
		for _, s := range subs {
			ids[s.ID] = true
		}
		assert.Len(t, ids, 2, "renewed subscription must have a distinct id")
	})
}

// TestStorage_ConcurrentPurchase проверяет, что гонку двух конкурентных
// покупок разрешает частичный уникальный индекс: побеждает ровно одна.
func TestStorage_ConcurrentPurchase(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()

	user := newTestUser("racer@example.com")
	require.NoError(t, storage.CreateUser(ctx, user))
	book := newTestBook("Dune")
	require.NoError(t, storage.CreateBook(ctx, book))

	const attempts = 8
	errs := make([]error, attempts)

	var wg sync.WaitGroup
	var start sync.WaitGroup
	start.Add(1)
	for i := range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			start.Wait()
			errs[i] = storage.CreateSubscription(ctx, newTestSubscription(user.UID, book.ID))
		}()
	}
	start.Done()
	wg.Wait()

	var successes, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		default:
			require.ErrorIs(t, err, models.ErrAlreadySubscribed)
			conflicts++
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, conflicts)
}
