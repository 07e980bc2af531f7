package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bookshelf/internal/repository"
	"bookshelf/internal/service"
)

// BookHandler expone el catálogo: listado y lookup síncronos contra el
// store, y las búsquedas asíncronas a través de SearchService.
type BookHandler struct {
	logger *zap.Logger
	books  repository.BookRepository
	search *service.SearchService
}

func NewBookHandler(logger *zap.Logger, books repository.BookRepository, search *service.SearchService) *BookHandler {
	return &BookHandler{
		logger: logger,
		books:  books,
		search: search,
	}
}

// ListBooks maneja GET /books.
func (h *BookHandler) ListBooks(c *gin.Context) {
	books, err := h.books.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list books failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list books"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": len(books), "books": books})
}

// GetBook maneja GET /books/:isbn.
func (h *BookHandler) GetBook(c *gin.Context) {
	isbn := c.Param("isbn")
	book, err := h.books.Get(c.Request.Context(), isbn)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "book not found with ISBN: " + isbn})
			return
		}
		h.logger.Error("get book failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not get book"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"book": book})
}

// SearchBooks maneja GET /search/books.
func (h *BookHandler) SearchBooks(c *gin.Context) {
	result, err := h.search.ListBooks(c.Request.Context())
	if err != nil {
		h.searchError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// SearchByISBN maneja GET /search/isbn/:isbn.
func (h *BookHandler) SearchByISBN(c *gin.Context) {
	book, err := h.search.FindByISBN(c.Request.Context(), c.Param("isbn"))
	if err != nil {
		h.searchError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"book": book})
}

// SearchByAuthor maneja GET /search/author/:author.
func (h *BookHandler) SearchByAuthor(c *gin.Context) {
	result, err := h.search.FindByAuthor(c.Request.Context(), c.Param("author"))
	if err != nil {
		h.searchError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// SearchByTitle maneja GET /search/title/:title.
func (h *BookHandler) SearchByTitle(c *gin.Context) {
	result, err := h.search.FindByTitle(c.Request.Context(), c.Param("title"))
	if err != nil {
		h.searchError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// searchError traduce la taxonomía del núcleo a status codes. Un contexto
// cancelado se reporta como timeout del cliente, no como fallo interno.
func (h *BookHandler) searchError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusRequestTimeout, gin.H{"error": "search cancelled"})
	default:
		h.logger.Error("search failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
	}
}
