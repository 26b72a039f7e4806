// Package booksubscription собирает HTTP-приложение сервиса книжных подписок:
// маршруты, middleware и жизненный цикл сервера.
package booksubscription

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/book-subscription/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/book-subscription/internal/http/handlers/auth/register"
	bookcreate "github.com/magabrotheeeer/book-subscription/internal/http/handlers/book/create"
	booklist "github.com/magabrotheeeer/book-subscription/internal/http/handlers/book/list"
	bookremove "github.com/magabrotheeeer/book-subscription/internal/http/handlers/book/remove"
	"github.com/magabrotheeeer/book-subscription/internal/http/handlers/subscription/health"
	sublist "github.com/magabrotheeeer/book-subscription/internal/http/handlers/subscription/list"
	"github.com/magabrotheeeer/book-subscription/internal/http/handlers/subscription/purchase"
	"github.com/magabrotheeeer/book-subscription/internal/http/handlers/subscription/read"
	"github.com/magabrotheeeer/book-subscription/internal/http/handlers/subscription/unsubscribe"
	"github.com/magabrotheeeer/book-subscription/internal/http/middlewarectx"
	"github.com/magabrotheeeer/book-subscription/internal/lib/jwt"
	bookservice "github.com/magabrotheeeer/book-subscription/internal/services/book"
	subservice "github.com/magabrotheeeer/book-subscription/internal/services/subscription"
	userservice "github.com/magabrotheeeer/book-subscription/internal/services/user"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, jwtMaker jwt.Maker, limiter *rate.Limiter,
	userService *userservice.UserService, bookService *bookservice.BookService,
	subscriptionService *subservice.SubscriptionService) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, userService).ServeHTTP)
		r.Post("/login", login.New(logger, userService).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(jwtMaker, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger, limiter))
			r.Get("/books", booklist.New(logger, bookService).ServeHTTP)
			r.Post("/books", bookcreate.New(logger, bookService).ServeHTTP)
			r.Delete("/books/{id}", bookremove.New(logger, bookService).ServeHTTP)
			r.Post("/subscriptions/purchase", purchase.New(logger, subscriptionService).ServeHTTP)
			r.Post("/subscriptions/unsubscribe", unsubscribe.New(logger, subscriptionService).ServeHTTP)
			r.Get("/subscriptions/list", sublist.New(logger, subscriptionService).ServeHTTP)
			r.Get("/subscriptions/{id}", read.New(logger, subscriptionService).ServeHTTP)
		})

		r.Get("/health", health.New(logger).ServeHTTP)
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
