package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireAdmin refuses requests whose session role is not "admin". It must
// run after ValidateToken.
func RequireAdmin(c *gin.Context) {
	if !Identity(c).IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin role required"})
		c.Abort()
		return
	}
	c.Next()
}
