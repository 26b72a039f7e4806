package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/book-subscription/internal/models"
)

// CreateBook вставляет новую книгу в каталог.
func (s *Storage) CreateBook(ctx context.Context, book *models.Book) error {
	const op = "storage.CreateBook"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO books (id, title, description, price, author, date_published,
			      category, genre, image_url)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := s.DB.ExecContext(ctx, query,
		book.ID, book.Title, book.Description, book.Price, book.Author,
		book.DatePublished, book.Category, book.Genre, book.ImageURL)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetBookByID возвращает книгу по её ID.
func (s *Storage) GetBookByID(ctx context.Context, id string) (*models.Book, error) {
	const op = "storage.GetBookByID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, title, description, price, author, date_published, category, genre, image_url
			  FROM books
			  WHERE id = $1`
	b := &models.Book{}
	row := s.DB.QueryRowContext(ctx, query, id)
	if err := row.Scan(&b.ID, &b.Title, &b.Description, &b.Price, &b.Author,
		&b.DatePublished, &b.Category, &b.Genre, &b.ImageURL); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrBookNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return b, nil
}

// ListBooks возвращает все книги каталога.
func (s *Storage) ListBooks(ctx context.Context) ([]*models.Book, error) {
	const op = "storage.ListBooks"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, title, description, price, author, date_published, category, genre, image_url
			  FROM books
			  ORDER BY title`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Book
	for rows.Next() {
		var b models.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Description, &b.Price, &b.Author,
			&b.DatePublished, &b.Category, &b.Genre, &b.ImageURL); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// DeleteBook удаляет книгу по ID.
// Возвращает models.ErrBookNotFound, если такой книги нет.
func (s *Storage) DeleteBook(ctx context.Context, id string) error {
	const op = "storage.DeleteBook"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM books WHERE id = $1`
	result, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return models.ErrBookNotFound
	}
	return nil
}
