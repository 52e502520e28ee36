package checkoutControllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/theanh205-kkt/webdt/checkout"
	orderControllers "github.com/theanh205-kkt/webdt/controllers/order"
	"github.com/theanh205-kkt/webdt/middleware"
	"github.com/theanh205-kkt/webdt/models"
)

type SubmitInput struct {
	PaymentMethod string `json:"paymentMethod" binding:"required"`
}

// GET /user/checkout
func GetState(flows *checkout.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident := middleware.Identity(c)
		c.JSON(http.StatusOK, flows.Flow(ident.UserID).State())
	}
}

// Proceed advances cart -> shipping when the cart is non-empty.
// POST /user/checkout/proceed
func Proceed(flows *checkout.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident := middleware.Identity(c)
		if err := flows.Proceed(c.Request.Context(), ident); err != nil {
			respondFlowError(c, err)
			return
		}
		c.JSON(http.StatusOK, flows.Flow(ident.UserID).State())
	}
}

// SubmitShipping validates the delivery form and advances to payment.
// POST /user/checkout/shipping
func SubmitShipping(flows *checkout.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident := middleware.Identity(c)

		var form checkout.ShippingForm
		if err := c.ShouldBindJSON(&form); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		if err := flows.Flow(ident.UserID).SubmitShipping(form); err != nil {
			var fieldErrs checkout.FieldErrors
			if errors.As(err, &fieldErrs) {
				c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid shipping form", "fields": fieldErrs})
				return
			}
			respondFlowError(c, err)
			return
		}
		c.JSON(http.StatusOK, flows.Flow(ident.UserID).State())
	}
}

// Back steps toward the cart, keeping entered values.
// POST /user/checkout/back
func Back(flows *checkout.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident := middleware.Identity(c)
		flow := flows.Flow(ident.UserID)
		flow.Back()
		c.JSON(http.StatusOK, flow.State())
	}
}

// Submit places the order and clears the cart. On failure the flow stays in
// the payment stage so the shopper can retry.
// POST /user/checkout/submit
func Submit(flows *checkout.Manager, hub *orderControllers.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident := middleware.Identity(c)

		var input SubmitInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		method, err := models.ParsePaymentMethod(input.PaymentMethod)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		order, err := flows.Submit(c.Request.Context(), ident, method)
		if err != nil {
			respondFlowError(c, err)
			return
		}

		hub.Broadcast(orderControllers.OrderEvent{
			Type:    "order_placed",
			OrderID: order.ID,
			Status:  order.Status,
			At:      time.Now().UTC(),
		})
		c.JSON(http.StatusCreated, order)
	}
}

func respondFlowError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, checkout.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please sign in to continue"})
	case errors.Is(err, checkout.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
	case errors.Is(err, checkout.ErrWrongStage):
		c.JSON(http.StatusConflict, gin.H{"error": "Checkout is not at the right step"})
	case errors.Is(err, checkout.ErrSubmitInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": "Order submission already in progress"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong, please try again"})
	}
}
