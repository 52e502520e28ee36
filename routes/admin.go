package routes

import (
	"github.com/gin-gonic/gin"

	productControllers "github.com/theanh205-kkt/webdt/controllers/product"
	userControllers "github.com/theanh205-kkt/webdt/controllers/user"
	"github.com/theanh205-kkt/webdt/middleware"
)

// SetupAdminRoutes registers all "/admin/*" endpoints. Requires a session
// token carrying the admin role.
func SetupAdminRoutes(r *gin.Engine, deps Deps) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.ValidateToken(deps.Sessions), middleware.RequireAdmin)
	{
		// ─────────── Product Management ───────────
		productAdmin := adminGroup.Group("/products")
		{
			productAdmin.GET("", productControllers.GetProducts(deps.Store))
			productAdmin.POST("", productControllers.CreateProduct(deps.Store))
			productAdmin.PUT("/:id", productControllers.UpdateProduct(deps.Store))
			productAdmin.DELETE("/:id", productControllers.DeleteProduct(deps.Store))
			productAdmin.POST("/import-excel", productControllers.ImportProductsFromExcel(deps.Store))
			productAdmin.GET("/export-excel", productControllers.ExportProductsToExcel(deps.Store))
		}

		// ─────────── Category Management ───────────
		categoryAdmin := adminGroup.Group("/categories")
		{
			categoryAdmin.GET("", productControllers.GetAllCategories(deps.Store))
			categoryAdmin.POST("", productControllers.CreateCategory(deps.Store))
			categoryAdmin.PUT("/:id", productControllers.UpdateCategory(deps.Store))
			categoryAdmin.DELETE("/:id", productControllers.DeleteCategory(deps.Store))
		}

		// ─────────── User Management ───────────
		userAdmin := adminGroup.Group("/users")
		{
			userAdmin.GET("", userControllers.GetAllUsers(deps.Store))
			userAdmin.DELETE("/:id", userControllers.DeleteUser(deps.Store))
		}
	}
}
