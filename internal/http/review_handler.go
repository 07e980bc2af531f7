package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bookshelf/internal/service"
)

// ReviewHandler expone lectura y mutación de reseñas. Las mutaciones pasan
// antes por el middleware de sesión, que deja la identidad en el contexto.
type ReviewHandler struct {
	logger  *zap.Logger
	reviews *service.ReviewService
}

func NewReviewHandler(logger *zap.Logger, reviews *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		logger:  logger,
		reviews: reviews,
	}
}

// GetReviews maneja GET /books/:isbn/reviews.
func (h *ReviewHandler) GetReviews(c *gin.Context) {
	result, err := h.reviews.GetReviews(c.Request.Context(), c.Param("isbn"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("get reviews failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not get reviews"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// PutReview maneja PUT /auth/review/:isbn.
func (h *ReviewHandler) PutReview(c *gin.Context) {
	username, ok := GetAuthUsername(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "please login first"})
		return
	}

	var req struct {
		Review string `json:"review"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid review request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	receipt, err := h.reviews.PutReview(c.Request.Context(), username, c.Param("isbn"), req.Review)
	if err != nil {
		h.reviewError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "review added/updated successfully",
		"book":    receipt.BookTitle,
		"review":  receipt.Review,
	})
}

// DeleteReview maneja DELETE /auth/review/:isbn.
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	username, ok := GetAuthUsername(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "please login first"})
		return
	}

	receipt, err := h.reviews.DeleteReview(c.Request.Context(), username, c.Param("isbn"))
	if err != nil {
		h.reviewError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "review deleted successfully",
		"book":    receipt.BookTitle,
	})
}

func (h *ReviewHandler) reviewError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "please login first"})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.logger.Error("review operation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not process review"})
	}
}
