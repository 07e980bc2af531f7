package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"bookshelf/internal/repository"
)

// ReviewService gestiona la única reseña que cada usuario posee por libro.
// La identidad llega ya resuelta como username plano; este servicio nunca
// vuelve a validar credenciales.
type ReviewService struct {
	logger *zap.Logger
	books  repository.BookRepository
}

// ReviewReceipt confirma una mutación de reseña.
type ReviewReceipt struct {
	BookTitle string `json:"book_title"`
	Review    string `json:"review,omitempty"`
}

// BookReviews es la vista de lectura de las reseñas de un libro.
type BookReviews struct {
	ISBN        string            `json:"isbn"`
	BookTitle   string            `json:"book_title"`
	ReviewCount int               `json:"review_count"`
	Reviews     map[string]string `json:"reviews"`
}

func NewReviewService(logger *zap.Logger, books repository.BookRepository) *ReviewService {
	return &ReviewService{
		logger: logger,
		books:  books,
	}
}

// PutReview crea o reemplaza la reseña del usuario sobre un libro. Una
// segunda escritura del mismo usuario sobrescribe, nunca duplica.
func (s *ReviewService) PutReview(ctx context.Context, username, isbn, text string) (ReviewReceipt, error) {
	if strings.TrimSpace(username) == "" {
		return ReviewReceipt{}, ErrUnauthenticated
	}
	if strings.TrimSpace(isbn) == "" || strings.TrimSpace(text) == "" {
		return ReviewReceipt{}, fmt.Errorf("%w: isbn and review text are required", ErrInvalidInput)
	}

	book, err := s.books.Get(ctx, isbn)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ReviewReceipt{}, ErrBookNotFound
		}
		return ReviewReceipt{}, err
	}
	if err := s.books.UpsertReview(ctx, isbn, username, text); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ReviewReceipt{}, ErrBookNotFound
		}
		return ReviewReceipt{}, err
	}

	if s.logger != nil {
		s.logger.Info("review upserted",
			zap.String("username", username),
			zap.String("isbn", isbn),
		)
	}
	return ReviewReceipt{BookTitle: book.Title, Review: text}, nil
}

// DeleteReview elimina la reseña del usuario. Las tres precondiciones
// incumplidas producen sub-causas distintas del mismo NotFound.
func (s *ReviewService) DeleteReview(ctx context.Context, username, isbn string) (ReviewReceipt, error) {
	if strings.TrimSpace(username) == "" {
		return ReviewReceipt{}, ErrUnauthenticated
	}

	book, err := s.books.Get(ctx, isbn)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ReviewReceipt{}, fmt.Errorf("%w: book not found with ISBN: %s", ErrNotFound, isbn)
		}
		return ReviewReceipt{}, err
	}
	if err := s.books.DeleteReview(ctx, isbn, username); err != nil {
		switch {
		case errors.Is(err, repository.ErrNoReviews):
			return ReviewReceipt{}, ErrBookNoReviews
		case errors.Is(err, repository.ErrReviewNotFound):
			return ReviewReceipt{}, ErrUserReviewNone
		case errors.Is(err, repository.ErrNotFound):
			return ReviewReceipt{}, fmt.Errorf("%w: book not found with ISBN: %s", ErrNotFound, isbn)
		default:
			return ReviewReceipt{}, err
		}
	}

	if s.logger != nil {
		s.logger.Info("review deleted",
			zap.String("username", username),
			zap.String("isbn", isbn),
		)
	}
	return ReviewReceipt{BookTitle: book.Title}, nil
}

// GetReviews devuelve las reseñas de un libro. No requiere identidad y un
// libro sin reseñas responde con mapa vacío, no con error.
func (s *ReviewService) GetReviews(ctx context.Context, isbn string) (BookReviews, error) {
	book, err := s.books.Get(ctx, isbn)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return BookReviews{}, fmt.Errorf("%w: book not found with ISBN: %s", ErrNotFound, isbn)
		}
		return BookReviews{}, err
	}
	reviews := book.Reviews
	if reviews == nil {
		reviews = map[string]string{}
	}
	return BookReviews{
		ISBN:        book.ISBN,
		BookTitle:   book.Title,
		ReviewCount: len(reviews),
		Reviews:     reviews,
	}, nil
}
