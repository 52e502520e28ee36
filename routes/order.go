package routes

import (
	"github.com/gin-gonic/gin"

	orderControllers "github.com/theanh205-kkt/webdt/controllers/order"
	"github.com/theanh205-kkt/webdt/middleware"
)

// SetupOrderRoutes registers back-office order management and the live
// order feed.
func SetupOrderRoutes(r *gin.Engine, deps Deps) {
	orders := r.Group("/admin/orders")
	orders.Use(middleware.ValidateToken(deps.Sessions), middleware.RequireAdmin)
	{
		orders.GET("", orderControllers.GetAllOrders(deps.Store))
		orders.GET("/:id", orderControllers.GetOrderByID(deps.Store))
		orders.PATCH("/:id/status", orderControllers.UpdateOrderStatus(deps.Store, deps.OrderHub))
		orders.DELETE("/:id", orderControllers.DeleteOrder(deps.Store))

		// websocket endpoint for real-time order updates
		orders.GET("/ws", orderControllers.Subscribe(deps.OrderHub))
	}
}
