package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"bookshelf/internal/domain"
	"bookshelf/internal/repository"
)

type countingBookRepo struct {
	repository.BookRepository
	listCalls int
	getCalls  int
}

func (c *countingBookRepo) List(ctx context.Context) ([]domain.Book, error) {
	c.listCalls++
	return c.BookRepository.List(ctx)
}

func (c *countingBookRepo) Get(ctx context.Context, isbn string) (domain.Book, error) {
	c.getCalls++
	return c.BookRepository.Get(ctx, isbn)
}

func searchFixture(delay time.Duration) (*SearchService, *countingBookRepo) {
	repo := &countingBookRepo{
		BookRepository: repository.NewMemoryBookRepository([]domain.Book{
			{ISBN: "1", Title: "The Alchemist", Author: "Paulo Coelho"},
			{ISBN: "2", Title: "The Alchemist's Daughter", Author: "Katharine McMahon"},
			{ISBN: "3", Title: "Pride and Prejudice", Author: "Jane Austen"},
		}),
	}
	return NewSearchService(zap.NewNop(), repo, delay), repo
}

func TestSearchServiceFindByISBN(t *testing.T) {
	svc, _ := searchFixture(0)

	book, err := svc.FindByISBN(context.Background(), "3")
	if err != nil {
		t.Fatalf("find by isbn: %v", err)
	}
	if book.Title != "Pride and Prejudice" {
		t.Fatalf("unexpected book: %+v", book)
	}

	_, err = svc.FindByISBN(context.Background(), "404")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSearchServiceFindByAuthorCaseInsensitive(t *testing.T) {
	svc, _ := searchFixture(0)

	result, err := svc.FindByAuthor(context.Background(), "jane AUSTEN")
	if err != nil {
		t.Fatalf("find by author: %v", err)
	}
	if result.Count != 1 || result.Books[0].ISBN != "3" {
		t.Fatalf("unexpected result: %+v", result)
	}

	_, err = svc.FindByAuthor(context.Background(), "nobody")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSearchServiceBlankInputRejectedBeforeLookup(t *testing.T) {
	svc, repo := searchFixture(50 * time.Millisecond)

	start := time.Now()
	if _, err := svc.FindByAuthor(context.Background(), ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.FindByTitle(context.Background(), "   "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if repo.listCalls != 0 {
		t.Fatalf("expected no catalog lookup for blank input, got %d", repo.listCalls)
	}
	if elapsed := time.Since(start); elapsed >= 50*time.Millisecond {
		t.Fatalf("expected rejection before the simulated wait, took %v", elapsed)
	}
}

func TestSearchServiceFindByTitleNormalization(t *testing.T) {
	svc, _ := searchFixture(0)

	for _, query := range []string{"the alchemist", " The   Alchemist "} {
		result, err := svc.FindByTitle(context.Background(), query)
		if err != nil {
			t.Fatalf("find by title %q: %v", query, err)
		}
		if result.TotalMatches != 2 {
			t.Fatalf("expected 2 matches for %q, got %d", query, result.TotalMatches)
		}
		if result.Books[0].ISBN != "1" || result.Books[0].MatchQuality != MatchExact {
			t.Fatalf("expected exact match first for %q, got %+v", query, result.Books[0])
		}
		if result.Books[1].ISBN != "2" || result.Books[1].MatchQuality != MatchPartial {
			t.Fatalf("expected partial match second for %q, got %+v", query, result.Books[1])
		}
	}
}

func TestSearchServiceFindByTitleNotFound(t *testing.T) {
	svc, _ := searchFixture(0)

	_, err := svc.FindByTitle(context.Background(), "zzz")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSearchServiceListBooks(t *testing.T) {
	svc, _ := searchFixture(0)

	result, err := svc.ListBooks(context.Background())
	if err != nil {
		t.Fatalf("list books: %v", err)
	}
	if result.Total != 3 || len(result.Books) != 3 {
		t.Fatalf("expected whole catalog, got %+v", result)
	}
}

func TestSearchServiceCancellation(t *testing.T) {
	svc, repo := searchFixture(5 * time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.FindByAuthor(ctx, "austen")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if repo.listCalls != 0 {
		t.Fatalf("expected cancelled search to skip the lookup, got %d", repo.listCalls)
	}
}

func TestSearchServiceSuspensionDoesNotBlockMutations(t *testing.T) {
	svc, repo := searchFixture(200 * time.Millisecond)
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = svc.FindByAuthor(ctx, "austen")
	}()

	// La mutación debe completar mientras la búsqueda sigue suspendida.
	start := time.Now()
	if err := repo.UpsertReview(ctx, "3", "alice", "lovely"); err != nil {
		t.Fatalf("upsert during search: %v", err)
	}
	if elapsed := time.Since(start); elapsed >= 150*time.Millisecond {
		t.Fatalf("mutation blocked by suspended search, took %v", elapsed)
	}
	<-done
}
