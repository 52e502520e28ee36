package productcontroller

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"

	"github.com/theanh205-kkt/webdt/models"
	"github.com/theanh205-kkt/webdt/store"
)

// ImportProductsFromExcel bulk-loads the catalog from an uploaded sheet with
// the same column layout the export produces. Rows with an ID update that
// product; rows without one create a new product. Malformed rows are
// counted and skipped.
// POST /admin/products/import-excel
func ImportProductsFromExcel(st *store.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		excelFileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is required"})
			return
		}

		file, err := excelFileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open Excel file"})
			return
		}
		defer file.Close()

		xlFile, err := xlsx.OpenReaderAt(file, excelFileHeader.Size)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse Excel file"})
			return
		}

		if len(xlFile.Sheets) == 0 || xlFile.Sheets[0].MaxRow < 2 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is empty or missing header row"})
			return
		}

		sheet := xlFile.Sheets[0]
		createdCount, updatedCount, skippedCount := 0, 0, 0

		for i := 1; i < sheet.MaxRow; i++ {
			row := sheet.Rows[i]

			get := func(index int) string {
				if index < len(row.Cells) {
					return strings.TrimSpace(row.Cells[index].String())
				}
				return ""
			}

			idStr := get(0)
			name := get(1)
			price, err1 := strconv.ParseFloat(get(2), 64)
			quantity, _ := strconv.Atoi(get(3))
			description := get(4)
			image := get(5)
			categoryID, _ := strconv.Atoi(get(6))

			if name == "" || err1 != nil || price < 0 {
				skippedCount++
				continue
			}

			input := models.ProductInput{
				Name:        name,
				Price:       price,
				Quantity:    quantity,
				Description: description,
				Image:       image,
				CategoryID:  categoryID,
			}

			if idStr != "" {
				id, convErr := strconv.Atoi(idStr)
				if convErr != nil {
					skippedCount++
					continue
				}
				if err := st.Update(c.Request.Context(), store.Products, id, input); err != nil {
					skippedCount++
					continue
				}
				updatedCount++
				continue
			}

			if err := st.Create(c.Request.Context(), store.Products, input, nil); err != nil {
				skippedCount++
				continue
			}
			createdCount++
		}

		c.JSON(http.StatusOK, gin.H{
			"created": createdCount,
			"updated": updatedCount,
			"skipped": skippedCount,
		})
	}
}
