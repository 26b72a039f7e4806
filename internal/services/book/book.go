// Package services содержит бизнес-логику каталога книг с кешированием списка.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/book-subscription/internal/lib/sl"
	"github.com/magabrotheeeer/book-subscription/internal/models"
)

// Ключ кеша списка книг. Список один на весь каталог.
const listCacheKey = "books:list"

// BookRepository определяет методы для работы с книгами в хранилище.
type BookRepository interface {
	// CreateBook вставляет новую книгу.
	CreateBook(ctx context.Context, book *models.Book) error
	// GetBookByID возвращает книгу по ID или models.ErrBookNotFound.
	GetBookByID(ctx context.Context, id string) (*models.Book, error)
	// ListBooks возвращает все книги каталога.
	ListBooks(ctx context.Context) ([]*models.Book, error)
	// DeleteBook удаляет книгу по ID или возвращает models.ErrBookNotFound.
	DeleteBook(ctx context.Context, id string) error
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// BookService реализует операции каталога. Сбои кеша не фатальны:
// они логируются, и запрос уходит в хранилище.
type BookService struct {
	repo  BookRepository
	cache Cache
	log   *slog.Logger
}

// NewBookService создает новый экземпляр BookService.
func NewBookService(repo BookRepository, cache Cache, log *slog.Logger) *BookService {
	return &BookService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// Add добавляет новую книгу в каталог и инвалидирует кеш списка.
func (s *BookService) Add(ctx context.Context, req models.CreateBookRequest) (*models.Book, error) {
	datePublished, err := time.Parse("2006-01-02", req.DatePublished)
	if err != nil {
		return nil, fmt.Errorf("invalid date_published: %w", err)
	}

	book := &models.Book{
		ID:            uuid.NewString(),
		Title:         req.Title,
		Description:   req.Description,
		Price:         req.Price,
		Author:        req.Author,
		DatePublished: datePublished,
		Category:      req.Category,
		Genre:         req.Genre,
		ImageURL:      req.ImageURL,
	}
	if err := s.repo.CreateBook(ctx, book); err != nil {
		return nil, err
	}

	s.log.Info("book added to catalog", slog.String("book_id", book.ID))
	s.invalidateList()

	return book, nil
}

// List возвращает все книги каталога, используя кеш или хранилище.
func (s *BookService) List(ctx context.Context) ([]*models.Book, error) {
	var cached []*models.Book
	found, err := s.cache.Get(listCacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read books from cache", sl.Err(err))
	}
	if found {
		return cached, nil
	}

	books, err := s.repo.ListBooks(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(listCacheKey, books, time.Hour); err != nil {
		s.log.Warn("failed to cache books list", sl.Err(err))
	}
	return books, nil
}

// GetByID возвращает книгу по её идентификатору.
func (s *BookService) GetByID(ctx context.Context, id string) (*models.Book, error) {
	return s.repo.GetBookByID(ctx, id)
}

// Delete удаляет книгу из каталога и инвалидирует кеш списка.
func (s *BookService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetBookByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteBook(ctx, id); err != nil {
		return err
	}

	s.log.Info("book removed from catalog", slog.String("book_id", id))
	s.invalidateList()
	return nil
}

func (s *BookService) invalidateList() {
	if err := s.cache.Invalidate(listCacheKey); err != nil {
		s.log.Warn("failed to invalidate books cache", slog.String("key", listCacheKey), sl.Err(err))
	}
}
