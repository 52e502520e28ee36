package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"

	"github.com/theanh205-kkt/webdt/models"
	"github.com/theanh205-kkt/webdt/store"
)

// ExportProductsToExcel streams the catalog as an xlsx download.
// GET /admin/products/export-excel
func ExportProductsToExcel(st *store.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var products []models.Product
		if err := st.List(c.Request.Context(), store.Products, &products); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Products")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
			return
		}

		// Header row
		headers := []string{"ID", "Name", "Price", "Quantity", "Description", "Image", "CategoryID"}
		headerRow := sheet.AddRow()
		for _, h := range headers {
			headerRow.AddCell().SetValue(h)
		}

		// Data rows
		for _, p := range products {
			row := sheet.AddRow()
			row.AddCell().SetValue(p.ID)
			row.AddCell().SetValue(p.Name)
			row.AddCell().SetValue(p.Price)
			row.AddCell().SetValue(p.Quantity)
			row.AddCell().SetValue(p.Description)
			row.AddCell().SetValue(p.Image)
			row.AddCell().SetValue(p.CategoryID)
		}

		// Set response headers for download
		c.Header("Content-Disposition", "attachment; filename=products.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := file.Write(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
			return
		}
	}
}
