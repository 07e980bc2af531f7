package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"bookshelf/internal/domain"
	"bookshelf/internal/repository"
)

// SearchService ejecuta búsquedas asíncronas sobre el catálogo. Cada
// llamada se suspende en un punto de espera configurable que simula la
// latencia de un backend remoto; la suspensión nunca retiene locks del
// catálogo, así que no bloquea mutaciones ni otras búsquedas. El contexto
// del caller cancela la espera.
type SearchService struct {
	logger *zap.Logger
	books  repository.BookRepository
	delay  time.Duration
}

type AuthorResult struct {
	Count int           `json:"count"`
	Books []domain.Book `json:"books"`
}

type TitleMatch struct {
	domain.Book
	MatchQuality string `json:"match_quality"`
}

type TitleResult struct {
	SearchTerm   string       `json:"search_term"`
	TotalMatches int          `json:"total_matches"`
	Books        []TitleMatch `json:"books"`
}

type BookList struct {
	Total int           `json:"total"`
	Books []domain.Book `json:"books"`
}

const (
	MatchExact   = "exact"
	MatchPartial = "partial"
)

func NewSearchService(logger *zap.Logger, books repository.BookRepository, delay time.Duration) *SearchService {
	if delay < 0 {
		delay = 0
	}
	return &SearchService{
		logger: logger,
		books:  books,
		delay:  delay,
	}
}

// ListBooks devuelve el catálogo completo por la vía asíncrona.
func (s *SearchService) ListBooks(ctx context.Context) (BookList, error) {
	if err := s.wait(ctx); err != nil {
		return BookList{}, err
	}
	books, err := s.books.List(ctx)
	if err != nil {
		return BookList{}, err
	}
	return BookList{Total: len(books), Books: books}, nil
}

// FindByISBN busca un libro por clave directa.
func (s *SearchService) FindByISBN(ctx context.Context, isbn string) (domain.Book, error) {
	if err := s.wait(ctx); err != nil {
		return domain.Book{}, err
	}
	book, err := s.books.Get(ctx, isbn)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Book{}, fmt.Errorf("%w: book with ISBN %s not found", ErrNotFound, isbn)
		}
		return domain.Book{}, err
	}
	return book, nil
}

// FindByAuthor busca por substring del autor, sin distinguir mayúsculas.
// La entrada en blanco se rechaza antes de tocar el catálogo.
func (s *SearchService) FindByAuthor(ctx context.Context, name string) (AuthorResult, error) {
	if strings.TrimSpace(name) == "" {
		return AuthorResult{}, fmt.Errorf("%w: author name cannot be empty", ErrInvalidInput)
	}
	if err := s.wait(ctx); err != nil {
		return AuthorResult{}, err
	}

	books, err := s.books.List(ctx)
	if err != nil {
		return AuthorResult{}, err
	}
	needle := strings.ToLower(name)
	var matches []domain.Book
	for _, b := range books {
		if strings.Contains(strings.ToLower(b.Author), needle) {
			matches = append(matches, b)
		}
	}
	if len(matches) == 0 {
		return AuthorResult{}, fmt.Errorf("%w: no books found for author: %s", ErrNotFound, name)
	}
	return AuthorResult{Count: len(matches), Books: matches}, nil
}

// FindByTitle busca por substring del título normalizado y etiqueta cada
// resultado como exact o partial. Todos los exact preceden a los partial;
// dentro de cada categoría se conserva el orden del catálogo.
func (s *SearchService) FindByTitle(ctx context.Context, title string) (TitleResult, error) {
	if strings.TrimSpace(title) == "" {
		return TitleResult{}, fmt.Errorf("%w: search title cannot be empty", ErrInvalidInput)
	}
	if err := s.wait(ctx); err != nil {
		return TitleResult{}, err
	}

	books, err := s.books.List(ctx)
	if err != nil {
		return TitleResult{}, err
	}
	needle := normalizeTitle(title)
	var exact, partial []TitleMatch
	for _, b := range books {
		candidate := normalizeTitle(b.Title)
		if !strings.Contains(candidate, needle) {
			continue
		}
		if candidate == needle {
			exact = append(exact, TitleMatch{Book: b, MatchQuality: MatchExact})
		} else {
			partial = append(partial, TitleMatch{Book: b, MatchQuality: MatchPartial})
		}
	}
	matches := append(exact, partial...)
	if len(matches) == 0 {
		return TitleResult{}, fmt.Errorf("%w: no books found with title containing: %q", ErrNotFound, title)
	}
	return TitleResult{
		SearchTerm:   title,
		TotalMatches: len(matches),
		Books:        matches,
	}, nil
}

// wait es el punto de suspensión: simula la latencia del backend y se
// aborta cuando el contexto del caller se cancela.
func (s *SearchService) wait(ctx context.Context) error {
	if s.delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		if s.logger != nil {
			s.logger.Debug("search cancelled during simulated wait", zap.Error(ctx.Err()))
		}
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// normalizeTitle pasa a minúsculas, recorta extremos y colapsa espacios
// internos a uno solo.
func normalizeTitle(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
