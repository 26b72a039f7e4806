package booksubscription

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/book-subscription/internal/cache"
	"github.com/magabrotheeeer/book-subscription/internal/config"
	"github.com/magabrotheeeer/book-subscription/internal/lib/jwt"
	"github.com/magabrotheeeer/book-subscription/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/book-subscription/internal/lib/sl"
	"github.com/magabrotheeeer/book-subscription/internal/migrations"
	bookservice "github.com/magabrotheeeer/book-subscription/internal/services/book"
	subservice "github.com/magabrotheeeer/book-subscription/internal/services/subscription"
	userservice "github.com/magabrotheeeer/book-subscription/internal/services/user"
	"github.com/magabrotheeeer/book-subscription/internal/storage/repository"
)

// App связывает HTTP-сервер и внешние соединения сервиса.
type App struct {
	server   *http.Server
	logger   *slog.Logger
	db       *repository.Storage
	amqpConn *amqp.Connection
}

// New собирает приложение: хранилище, миграции, кеш, брокер событий,
// бизнес-сервисы и маршруты. Недоступность RabbitMQ не фатальна,
// сервис продолжает работу без публикации событий.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	var (
		publisher subservice.EventPublisher
		amqpConn  *amqp.Connection
	)
	if cfg.RabbitMQConnection.URL != "" {
		amqpConn, err = rabbitmq.Connect(cfg.RabbitMQConnection.URL,
			cfg.RabbitMQConnection.Retries, cfg.RabbitMQConnection.RetryDelay)
		if err != nil {
			logger.Warn("rabbitmq is unavailable, events will not be published", sl.Err(err))
		} else {
			ch, chErr := rabbitmq.SetupChannel(amqpConn, cfg.RabbitMQConnection.Queue,
				cfg.RabbitMQConnection.RoutingKey)
			if chErr != nil {
				logger.Warn("failed to setup rabbitmq channel, events will not be published", sl.Err(chErr))
			} else {
				publisher = rabbitmq.NewPublisher(ch)
			}
		}
	}

	jwtMaker := jwt.NewMaker(cfg.JWTToken.JWTSecretKey, cfg.JWTToken.TokenTTL)

	userService := userservice.NewUserService(db, jwtMaker)
	bookService := bookservice.NewBookService(db, cacheRedis, logger)
	subscriptionService := subservice.NewSubscriptionService(db, db, db, publisher, logger)

	limiter := rate.NewLimiter(rate.Limit(10), 20)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, jwtMaker, limiter, userService, bookService, subscriptionService)

	srv := &http.Server{
		Addr:         cfg.HTTPServer.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.TimeoutHTTP,
		WriteTimeout: cfg.HTTPServer.TimeoutHTTP,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	return &App{
		server:   srv,
		logger:   logger,
		db:       db,
		amqpConn: amqpConn,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его при отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if a.amqpConn != nil {
			_ = a.amqpConn.Close()
		}
		_ = a.db.DB.Close()
		return err
	}
}
