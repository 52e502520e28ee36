package productcontroller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/theanh205-kkt/webdt/store"
)

// DeleteProduct removes a catalog entry. Cart rows that snapshot this
// product are untouched; they keep their copied name and price.
// DELETE /admin/products/:id
func DeleteProduct(st *store.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}

		if err := st.Remove(c.Request.Context(), store.Products, id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
			}
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
	}
}
