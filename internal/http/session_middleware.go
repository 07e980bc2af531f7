package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"bookshelf/internal/service"
)

const authUsernameKey = "auth_username"

// SessionAuthMiddleware resuelve el token de sesión una sola vez por
// request y deja el username en el contexto; los handlers autorizados lo
// reciben como identidad plana.
func SessionAuthMiddleware(sessions *service.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if sessions == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "sessions not configured"})
			c.Abort()
			return
		}

		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "please login first"})
			c.Abort()
			return
		}

		token := strings.TrimSpace(header[len("Bearer "):])
		username, err := sessions.Resolve(token)
		if err != nil {
			if errors.Is(err, service.ErrSessionExpired) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "session expired, please login again"})
			} else {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid session"})
			}
			c.Abort()
			return
		}

		c.Set(authUsernameKey, username)
		c.Next()
	}
}

// GetAuthUsername obtiene el username resuelto desde el contexto.
func GetAuthUsername(c *gin.Context) (string, bool) {
	val, ok := c.Get(authUsernameKey)
	if !ok {
		return "", false
	}
	username, ok := val.(string)
	return username, ok
}
