package productcontroller

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/theanh205-kkt/webdt/models"
	"github.com/theanh205-kkt/webdt/store"
)

// FilterCatalog narrows the product list to a category selection and a
// case-insensitive name search. The selection "all" (or empty) matches every
// category; a product whose categoryID dangles simply never matches a
// concrete selection.
func FilterCatalog(products []models.Product, category, search string) []models.Product {
	filtered := make([]models.Product, 0, len(products))
	needle := strings.ToLower(search)
	for _, p := range products {
		if category != "" && category != "all" {
			id, err := strconv.Atoi(category)
			if err != nil || p.CategoryID != id {
				continue
			}
		}
		if needle != "" && !strings.Contains(strings.ToLower(p.Name), needle) {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered
}

// GetProducts lists the catalog.
// Query params: category (id or "all"), search (name substring).
func GetProducts(st *store.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var products []models.Product
		if err := st.List(c.Request.Context(), store.Products, &products); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}

		category := c.DefaultQuery("category", "all")
		search := c.Query("search")
		c.JSON(http.StatusOK, FilterCatalog(products, category, search))
	}
}
