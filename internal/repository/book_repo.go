package repository

import (
	"context"
	"errors"
	"sync"

	"bookshelf/internal/domain"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrNoReviews      = errors.New("book has no reviews")
	ErrReviewNotFound = errors.New("review not found")
)

// BookRepository define el contrato de acceso al catálogo de libros.
type BookRepository interface {
	Get(ctx context.Context, isbn string) (domain.Book, error)
	List(ctx context.Context) ([]domain.Book, error)
	UpsertReview(ctx context.Context, isbn, username, text string) error
	DeleteReview(ctx context.Context, isbn, username string) error
}

// MemoryBookRepository implementa BookRepository sobre un mapa en memoria.
// El orden de inserción del seed se conserva para listados estables.
type MemoryBookRepository struct {
	mu    sync.RWMutex
	books map[string]domain.Book
	order []string
}

func NewMemoryBookRepository(seed []domain.Book) *MemoryBookRepository {
	r := &MemoryBookRepository{
		books: make(map[string]domain.Book, len(seed)),
		order: make([]string, 0, len(seed)),
	}
	for _, b := range seed {
		if b.ISBN == "" {
			continue
		}
		if _, ok := r.books[b.ISBN]; ok {
			continue
		}
		stored := b.Copy()
		if stored.Reviews == nil {
			stored.Reviews = make(map[string]string)
		}
		r.books[b.ISBN] = stored
		r.order = append(r.order, b.ISBN)
	}
	return r
}

func (r *MemoryBookRepository) Get(_ context.Context, isbn string) (domain.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	book, ok := r.books[isbn]
	if !ok {
		return domain.Book{}, ErrNotFound
	}
	return book.Copy(), nil
}

func (r *MemoryBookRepository) List(_ context.Context) ([]domain.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Book, 0, len(r.order))
	for _, isbn := range r.order {
		out = append(out, r.books[isbn].Copy())
	}
	return out, nil
}

func (r *MemoryBookRepository) UpsertReview(_ context.Context, isbn, username, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	book, ok := r.books[isbn]
	if !ok {
		return ErrNotFound
	}
	// Un slot por usuario: la segunda escritura reemplaza, nunca duplica.
	book.Reviews[username] = text
	return nil
}

func (r *MemoryBookRepository) DeleteReview(_ context.Context, isbn, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	book, ok := r.books[isbn]
	if !ok {
		return ErrNotFound
	}
	if len(book.Reviews) == 0 {
		return ErrNoReviews
	}
	if _, ok := book.Reviews[username]; !ok {
		return ErrReviewNotFound
	}
	delete(book.Reviews, username)
	return nil
}
