package cartControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/theanh205-kkt/webdt/models"
	"github.com/theanh205-kkt/webdt/store"
)

type AddItemInput struct {
	ProductID int `json:"productId" binding:"required"`
	Quantity  int `json:"quantity" binding:"required,min=1"`
}

type QuantityInput struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// findByProduct locates an existing cart row for the product, if any.
func findByProduct(items []models.CartItem, productID int) (models.CartItem, bool) {
	for _, item := range items {
		if item.ProductID == productID {
			return item, true
		}
	}
	return models.CartItem{}, false
}

// GET /user/cart
func GetCart(st *store.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var items []models.CartItem
		if err := st.List(c.Request.Context(), store.Cart, &items); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": items, "total": models.CartTotal(items)})
	}
}

// AddItem puts a product in the cart. A row holding the same product gets
// its quantity bumped instead of a duplicate row; a new row snapshots the
// product's name, price and image at this instant and never tracks later
// product edits.
// POST /user/cart
func AddItem(st *store.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input AddItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var product models.Product
		if err := st.Get(c.Request.Context(), store.Products, input.ProductID, &product); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Product does not exist"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate product"})
			}
			return
		}

		var items []models.CartItem
		if err := st.List(c.Request.Context(), store.Cart, &items); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}

		existing, ok := findByProduct(items, input.ProductID)
		inCart := 0
		if ok {
			inCart = existing.Quantity
		}
		if inCart+input.Quantity > product.Quantity {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Quantity exceeds available stock"})
			return
		}

		if ok {
			newQuantity := existing.Quantity + input.Quantity
			if err := st.Patch(c.Request.Context(), store.Cart, existing.ID, gin.H{"quantity": newQuantity}); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart item"})
				return
			}
			existing.Quantity = newQuantity
			c.JSON(http.StatusOK, existing)
			return
		}

		payload := gin.H{
			"productId": product.ID,
			"name":      product.Name,
			"price":     product.Price,
			"quantity":  input.Quantity,
			"image":     product.Image,
		}
		var created models.CartItem
		if err := st.Create(c.Request.Context(), store.Cart, payload, &created); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add item to cart"})
			return
		}
		c.JSON(http.StatusCreated, created)
	}
}

// UpdateQuantity sets a cart row's quantity.
// PATCH /user/cart/:id
func UpdateQuantity(st *store.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cart item ID"})
			return
		}

		var input QuantityInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		if err := st.Patch(c.Request.Context(), store.Cart, id, gin.H{"quantity": input.Quantity}); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart item"})
			}
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Quantity updated"})
	}
}

// DELETE /user/cart/:id
func DeleteItem(st *store.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cart item ID"})
			return
		}

		if err := st.Remove(c.Request.Context(), store.Cart, id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete item"})
			}
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart item deleted"})
	}
}

// ClearCart deletes every row, one call per item in cart order.
// DELETE /user/cart
func ClearCart(st *store.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var items []models.CartItem
		if err := st.List(c.Request.Context(), store.Cart, &items); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}
		for _, item := range items {
			if err := st.Remove(c.Request.Context(), store.Cart, item.ID); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
	}
}
