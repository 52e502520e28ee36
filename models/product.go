package models

// Product is a catalog entry as stored in the "products" collection.
// Quantity is stock on hand, not a cart amount.
type Product struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	CategoryID  int     `json:"categoryID"`
}

// ProductInput is the payload for creating or replacing a product;
// the store assigns the id.
type ProductInput struct {
	Name        string  `json:"name" binding:"required"`
	Price       float64 `json:"price" binding:"min=0"`
	Quantity    int     `json:"quantity" binding:"min=0"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	CategoryID  int     `json:"categoryID"`
}
