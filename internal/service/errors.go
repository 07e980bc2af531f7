package service

import (
	"errors"
	"fmt"
)

// Taxonomía de errores del núcleo. Cada fallo cruza los límites de
// componente como valor tipado; la capa HTTP lo traduce a status codes.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrNotFound           = errors.New("not found")
)

// NotFound es un único tipo de fallo con sub-causas distinguibles por
// mensaje (libro desconocido, libro sin reseñas, usuario sin reseña).
var (
	ErrBookNotFound   = fmt.Errorf("%w: book not found", ErrNotFound)
	ErrBookNoReviews  = fmt.Errorf("%w: no reviews found for this book", ErrNotFound)
	ErrUserReviewNone = fmt.Errorf("%w: you haven't reviewed this book yet", ErrNotFound)
)
