package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/theanh205-kkt/webdt/models"
	"github.com/theanh205-kkt/webdt/store"
)

// CreateProduct adds a catalog entry; the store assigns the id.
// POST /admin/products
func CreateProduct(st *store.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.ProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var created models.Product
		if err := st.Create(c.Request.Context(), store.Products, input, &created); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
			return
		}

		c.JSON(http.StatusCreated, created)
	}
}
