package repository

import (
	"encoding/json"
	"os"

	"bookshelf/internal/domain"
)

// DefaultSeed devuelve el catálogo embebido que se usa cuando no hay
// fuente externa configurada.
func DefaultSeed() []domain.Book {
	return []domain.Book{
		{ISBN: "1", Title: "Things Fall Apart", Author: "Chinua Achebe"},
		{ISBN: "2", Title: "Fairy tales", Author: "Hans Christian Andersen"},
		{ISBN: "3", Title: "The Divine Comedy", Author: "Dante Alighieri"},
		{ISBN: "4", Title: "The Epic Of Gilgamesh", Author: "Unknown"},
		{ISBN: "5", Title: "The Book Of Job", Author: "Unknown"},
		{ISBN: "6", Title: "One Thousand and One Nights", Author: "Unknown"},
		{ISBN: "7", Title: "Njal's Saga", Author: "Unknown"},
		{ISBN: "8", Title: "Pride and Prejudice", Author: "Jane Austen"},
		{ISBN: "9", Title: "Le Pere Goriot", Author: "Honore de Balzac"},
		{ISBN: "10", Title: "Molloy, Malone Dies, The Unnamable, the trilogy", Author: "Samuel Beckett"},
	}
}

// LoadSeedFile lee un catálogo desde un archivo JSON (lista ordenada de
// libros con isbn, title y author).
func LoadSeedFile(path string) ([]domain.Book, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var books []domain.Book
	if err := json.Unmarshal(data, &books); err != nil {
		return nil, err
	}
	for i := range books {
		if books[i].Reviews == nil {
			books[i].Reviews = make(map[string]string)
		}
	}
	return books, nil
}
