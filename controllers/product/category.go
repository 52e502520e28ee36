package productcontroller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/theanh205-kkt/webdt/models"
	"github.com/theanh205-kkt/webdt/store"
)

// GetAllCategories returns every category.
func GetAllCategories(st *store.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var categories []models.Category
		if err := st.List(c.Request.Context(), store.Categories, &categories); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
			return
		}
		c.JSON(http.StatusOK, categories)
	}
}

// CreateCategory adds a category.
// POST /admin/categories
func CreateCategory(st *store.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.CategoryInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var created models.Category
		if err := st.Create(c.Request.Context(), store.Categories, input, &created); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
			return
		}
		c.JSON(http.StatusCreated, created)
	}
}

// UpdateCategory renames a category.
// PUT /admin/categories/:id
func UpdateCategory(st *store.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID"})
			return
		}

		var input models.CategoryInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		if err := st.Update(c.Request.Context(), store.Categories, id, input); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update category"})
			}
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Category updated"})
	}
}

// DeleteCategory removes a category. Products referencing it keep their
// categoryID; they just stop matching that catalog filter.
// DELETE /admin/categories/:id
func DeleteCategory(st *store.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID"})
			return
		}

		if err := st.Remove(c.Request.Context(), store.Categories, id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete category"})
			}
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
	}
}
