package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bookshelf/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	sessions *service.SessionService,
	userH *UserHandler,
	bookH *BookHandler,
	reviewH *ReviewHandler,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	// Acceso anónimo: registro, catálogo y búsquedas.
	r.POST("/register", userH.Register)

	books := r.Group("/books")
	books.GET("", bookH.ListBooks)
	books.GET("/:isbn", bookH.GetBook)
	books.GET("/:isbn/reviews", reviewH.GetReviews)

	search := r.Group("/search")
	search.GET("/books", bookH.SearchBooks)
	search.GET("/isbn/:isbn", bookH.SearchByISBN)
	search.GET("/author/:author", bookH.SearchByAuthor)
	search.GET("/title/:title", bookH.SearchByTitle)

	// Sesiones y mutaciones de reseñas (requieren identidad resuelta).
	auth := r.Group("/auth")
	auth.POST("/login", userH.Login)
	auth.POST("/logout", userH.Logout)

	review := auth.Group("/review")
	review.Use(SessionAuthMiddleware(sessions))
	review.PUT("/:isbn", reviewH.PutReview)
	review.DELETE("/:isbn", reviewH.DeleteReview)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
