package repository

import (
	"context"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// testSchema повторяет миграцию 000001_init для тестового контейнера.
const testSchema = `
        DROP TABLE IF EXISTS subscriptions CASCADE;
        DROP TABLE IF EXISTS books CASCADE;
        DROP TABLE IF EXISTS users CASCADE;

        CREATE TABLE users (
            uid UUID PRIMARY KEY,
            email TEXT NOT NULL,
            username TEXT NOT NULL,
            first_name TEXT NOT NULL,
            last_name TEXT NOT NULL,
            password_hash TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            CONSTRAINT users_email_key UNIQUE (email)
        );

        CREATE TABLE books (
            id UUID PRIMARY KEY,
            title TEXT NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            price NUMERIC(12, 2) NOT NULL CHECK (price >= 0),
            author TEXT NOT NULL,
            date_published DATE NOT NULL,
            category TEXT NOT NULL CHECK (category IN ('Fiction', 'NonFiction')),
            genre TEXT NOT NULL,
            image_url TEXT NOT NULL
        );

        CREATE TABLE subscriptions (
            id UUID PRIMARY KEY,
            user_id UUID NOT NULL REFERENCES users(uid),
            book_id UUID NOT NULL REFERENCES books(id),
            date_subscribed TIMESTAMPTZ NOT NULL,
            is_active BOOLEAN NOT NULL DEFAULT true
        );

        CREATE UNIQUE INDEX subscriptions_active_user_book_idx
            ON subscriptions (user_id, book_id) WHERE is_active;
        CREATE INDEX subscriptions_user_id_idx ON subscriptions (user_id);
    `

// setupTestDatabase поднимает контейнер PostgreSQL и применяет схему.
func setupTestDatabase(t *testing.T) (*Storage, func()) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForAll(
				wait.ForListeningPort(nat.Port("5432/tcp")),
				wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			).WithDeadline(3*time.Minute),
		),
	)
	require.NoError(t, err, "failed to start container")

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "failed to get connection string")

	// Пробуем подключиться несколько раз с ретраями
	var storage *Storage
	for range 10 {
		storage, err = New(connStr)
		if err == nil {
			err = storage.DB.Ping()
			if err == nil {
				break
			}
		}
		time.Sleep(1 * time.Second)
	}
	require.NoError(t, err, "failed to create storage after retries")

	_, err = storage.DB.Exec(testSchema)
	require.NoError(t, err, "failed to create tables")

	cleanup := func() {
		if storage != nil && storage.DB != nil {
			_ = storage.DB.Close()
		}
		if postgresContainer != nil {
			_ = postgresContainer.Terminate(ctx)
		}
	}

	return storage, cleanup
}
