package domain

// Book representa un libro del catálogo con sus reseñas por usuario.
type Book struct {
	ISBN    string            `json:"isbn"`
	Title   string            `json:"title"`
	Author  string            `json:"author"`
	Reviews map[string]string `json:"reviews"`
}

// Copy devuelve una copia independiente del libro, incluido el mapa de reseñas.
func (b Book) Copy() Book {
	out := b
	out.Reviews = make(map[string]string, len(b.Reviews))
	for username, text := range b.Reviews {
		out.Reviews[username] = text
	}
	return out
}
