package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/theanh205-kkt/webdt/session"
)

const identityKey = "identity"

// ValidateToken checks the bearer token and stores the decoded identity in
// the request context for handlers downstream.
func ValidateToken(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader("Authorization")
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is missing"})
			c.Abort()
			return
		}
		tokenString = strings.TrimPrefix(tokenString, "Bearer ")

		ident, err := sessions.Parse(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(identityKey, ident)
		c.Next()
	}
}

// Identity returns the identity set by ValidateToken. The zero value means
// the request was not authenticated.
func Identity(c *gin.Context) session.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return session.Identity{}
	}
	ident, _ := v.(session.Identity)
	return ident
}
