package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"bookshelf/internal/domain"
)

// PgBookRepository carga el catálogo inicial desde Postgres. Solo se usa en
// el arranque: el estado de reseñas vive siempre en memoria.
type PgBookRepository struct {
	pool *pgxpool.Pool
}

func NewPgBookRepository(pool *pgxpool.Pool) *PgBookRepository {
	return &PgBookRepository{pool: pool}
}

// LoadAll devuelve los libros de la tabla books ordenados por posición.
func (r *PgBookRepository) LoadAll(ctx context.Context) ([]domain.Book, error) {
	const query = `
		SELECT isbn, title, author
		FROM books
		ORDER BY position
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []domain.Book
	for rows.Next() {
		var b domain.Book
		if err := rows.Scan(&b.ISBN, &b.Title, &b.Author); err != nil {
			return nil, err
		}
		b.Reviews = make(map[string]string)
		books = append(books, b)
	}
	return books, rows.Err()
}
