package authControllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/theanh205-kkt/webdt/checkout"
	"github.com/theanh205-kkt/webdt/middleware"
	"github.com/theanh205-kkt/webdt/models"
	"github.com/theanh205-kkt/webdt/session"
	"github.com/theanh205-kkt/webdt/store"
)

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RegisterInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"fullName" binding:"required"`
	Phone    string `json:"phone"`
}

// POST /auth/login
//
// Looks the account up by email and compares the password literally. Unknown
// email and wrong password produce the same generic response.
func Login(client *store.Client, sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input LoginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var users []models.User
		if err := client.ListFilter(c.Request.Context(), store.Users, "email", input.Email, &users); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign in"})
			return
		}
		if len(users) == 0 || users[0].Password != input.Password {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Incorrect email or password"})
			return
		}

		user := users[0]
		ident := session.Identity{
			UserID:   user.ID,
			Email:    user.Email,
			FullName: user.FullName,
			Role:     user.Role,
		}
		token, err := sessions.Issue(ident)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign in"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"token": token, "user": ident})
	}
}

// POST /auth/register
//
// Probes the users collection for the email first; the store itself does not
// enforce uniqueness.
func Register(client *store.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input RegisterInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var existing []models.User
		if err := client.ListFilter(c.Request.Context(), store.Users, "email", input.Email, &existing); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register"})
			return
		}
		if len(existing) > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "Email is already in use"})
			return
		}

		payload := map[string]any{
			"email":     input.Email,
			"password":  input.Password,
			"fullName":  input.FullName,
			"phone":     input.Phone,
			"role":      models.RoleUser,
			"createdAt": time.Now().UTC(),
		}
		var created models.User
		if err := client.Create(c.Request.Context(), store.Users, payload, &created); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register"})
			return
		}

		c.JSON(http.StatusCreated, created.Public())
	}
}

// POST /user/logout
//
// Sessions are stateless tokens, so logout only discards the in-memory
// checkout flow; the client drops its stored identity record.
func Logout(flows *checkout.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident := middleware.Identity(c)
		flows.Reset(ident.UserID)
		c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
	}
}
