package routes

import (
	"github.com/gin-gonic/gin"

	authControllers "github.com/theanh205-kkt/webdt/controllers/auth"
	productControllers "github.com/theanh205-kkt/webdt/controllers/product"
)

// SetupAuthRoutes registers the public endpoints: sign-in, sign-up and the
// browsable catalog.
func SetupAuthRoutes(r *gin.Engine, deps Deps) {
	auth := r.Group("/auth")
	{
		auth.POST("/login", authControllers.Login(deps.Client, deps.Sessions))
		auth.POST("/register", authControllers.Register(deps.Client))
	}

	// ──────────────── Browse Catalog ────────────────
	r.GET("/products", productControllers.GetProducts(deps.Store))          // GET /products?category=all&search=
	r.GET("/products/:id", productControllers.GetProductByID(deps.Store))   // GET /products/:id
	r.GET("/categories", productControllers.GetAllCategories(deps.Store))   // GET /categories
}
