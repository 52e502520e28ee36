package userControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/theanh205-kkt/webdt/middleware"
	"github.com/theanh205-kkt/webdt/models"
	"github.com/theanh205-kkt/webdt/store"
)

type UpdateProfileInput struct {
	FullName *string `json:"fullName"`
	Phone    *string `json:"phone"`
}

// GetProfile returns the authenticated user's record without the password.
// GET /user/
func GetProfile(st *store.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident := middleware.Identity(c)

		var user models.User
		if err := st.Get(c.Request.Context(), store.Users, ident.UserID, &user); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
			}
			return
		}
		c.JSON(http.StatusOK, user.Public())
	}
}

// UpdateProfile patches the mutable profile fields.
// PUT /user/
func UpdateProfile(st *store.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident := middleware.Identity(c)

		var input UpdateProfileInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		updates := gin.H{}
		if input.FullName != nil {
			updates["fullName"] = *input.FullName
		}
		if input.Phone != nil {
			updates["phone"] = *input.Phone
		}
		if len(updates) > 0 {
			if err := st.Patch(c.Request.Context(), store.Users, ident.UserID, updates); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"message": "Profile updated"})
	}
}

// GetAllUsers lists accounts for the back office, passwords stripped.
// GET /admin/users
func GetAllUsers(st *store.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var users []models.User
		if err := st.List(c.Request.Context(), store.Users, &users); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
			return
		}

		public := make([]models.PublicUser, len(users))
		for i, u := range users {
			public[i] = u.Public()
		}
		c.JSON(http.StatusOK, public)
	}
}

// DeleteUser removes an account. Admin accounts are refused here, before
// any delete reaches the store.
// DELETE /admin/users/:id
func DeleteUser(st *store.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
			return
		}

		var users []models.User
		if err := st.List(c.Request.Context(), store.Users, &users); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
			return
		}

		var target *models.User
		for i := range users {
			if users[i].ID == id {
				target = &users[i]
				break
			}
		}
		if target == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		if target.Role == models.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Cannot delete an admin account"})
			return
		}

		if err := st.Remove(c.Request.Context(), store.Users, id); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
	}
}
