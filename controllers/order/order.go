package orderControllers

import (
	"errors"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/theanh205-kkt/webdt/middleware"
	"github.com/theanh205-kkt/webdt/models"
	"github.com/theanh205-kkt/webdt/store"
)

type UpdateStatusInput struct {
	Status string `json:"status" binding:"required"`
}

// GetMyOrders lists the authenticated user's orders, newest first.
// GET /user/orders
func GetMyOrders(st *store.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident := middleware.Identity(c)

		var orders []models.Order
		if err := st.List(c.Request.Context(), store.Orders, &orders); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}

		mine := make([]models.Order, 0, len(orders))
		for _, o := range orders {
			if o.UserID == ident.UserID {
				mine = append(mine, o)
			}
		}
		sort.Slice(mine, func(i, j int) bool { return mine[i].CreatedAt.After(mine[j].CreatedAt) })

		c.JSON(http.StatusOK, mine)
	}
}

// GetAllOrders lists every order for the back office, newest first.
// GET /admin/orders
func GetAllOrders(st *store.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := st.List(c.Request.Context(), store.Orders, &orders); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}
		sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
		c.JSON(http.StatusOK, orders)
	}
}

// GetOrderByID returns one order.
// GET /admin/orders/:id
func GetOrderByID(st *store.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
			return
		}

		var order models.Order
		if err := st.Get(c.Request.Context(), store.Orders, id, &order); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
			}
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// UpdateOrderStatus sets the status to any of the five values, with no
// transition graph between them, and bumps updatedAt. Subscribers on the
// websocket feed are notified.
// PATCH /admin/orders/:id/status
func UpdateOrderStatus(st *store.Cache, hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
			return
		}

		var input UpdateStatusInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		status, err := models.ParseOrderStatus(input.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		updatedAt := time.Now().UTC()
		patch := gin.H{"status": status, "updatedAt": updatedAt}
		if err := st.Patch(c.Request.Context(), store.Orders, id, patch); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order status"})
			}
			return
		}

		hub.Broadcast(OrderEvent{Type: "status_changed", OrderID: id, Status: status, At: updatedAt})
		c.JSON(http.StatusOK, gin.H{"message": "Order status updated"})
	}
}

// DeleteOrder removes an order outright.
// DELETE /admin/orders/:id
func DeleteOrder(st *store.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
			return
		}

		if err := st.Remove(c.Request.Context(), store.Orders, id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete order"})
			}
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Order deleted"})
	}
}
