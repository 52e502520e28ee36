package routes

import (
	"github.com/gin-gonic/gin"

	authControllers "github.com/theanh205-kkt/webdt/controllers/auth"
	cartControllers "github.com/theanh205-kkt/webdt/controllers/cart"
	checkoutControllers "github.com/theanh205-kkt/webdt/controllers/checkout"
	orderControllers "github.com/theanh205-kkt/webdt/controllers/order"
	userControllers "github.com/theanh205-kkt/webdt/controllers/user"
	"github.com/theanh205-kkt/webdt/middleware"
)

// SetupUserRoutes registers all "/user/*" endpoints. Requires a valid
// session token.
func SetupUserRoutes(r *gin.Engine, deps Deps) {
	userGroup := r.Group("/user")
	userGroup.Use(middleware.ValidateToken(deps.Sessions))
	{
		// ──────────────── Profile & Session ────────────────
		userGroup.GET("/", userControllers.GetProfile(deps.Store))    // GET /user/
		userGroup.PUT("/", userControllers.UpdateProfile(deps.Store)) // PUT /user/
		userGroup.POST("/logout", authControllers.Logout(deps.Checkout))

		// ──────────────── Shopping Cart ────────────────
		cartGroup := userGroup.Group("/cart")
		{
			cartGroup.GET("/", cartControllers.GetCart(deps.Store))              // GET /user/cart
			cartGroup.POST("/", cartControllers.AddItem(deps.Store))             // POST /user/cart
			cartGroup.PATCH("/:id", cartControllers.UpdateQuantity(deps.Store))  // PATCH /user/cart/:id
			cartGroup.DELETE("/:id", cartControllers.DeleteItem(deps.Store))     // DELETE /user/cart/:id
			cartGroup.DELETE("/", cartControllers.ClearCart(deps.Store))         // DELETE /user/cart
		}

		// ──────────────── Checkout Flow ────────────────
		checkoutGroup := userGroup.Group("/checkout")
		{
			checkoutGroup.GET("/", checkoutControllers.GetState(deps.Checkout))              // GET /user/checkout
			checkoutGroup.POST("/proceed", checkoutControllers.Proceed(deps.Checkout))       // POST /user/checkout/proceed
			checkoutGroup.POST("/shipping", checkoutControllers.SubmitShipping(deps.Checkout)) // POST /user/checkout/shipping
			checkoutGroup.POST("/back", checkoutControllers.Back(deps.Checkout))             // POST /user/checkout/back
			checkoutGroup.POST("/submit", checkoutControllers.Submit(deps.Checkout, deps.OrderHub)) // POST /user/checkout/submit
		}

		// ──────────────── Order History ────────────────
		userGroup.GET("/orders", orderControllers.GetMyOrders(deps.Store)) // GET /user/orders
	}
}
