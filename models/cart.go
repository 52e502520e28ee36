package models

// CartItem is a row in the "cart" collection. Name, price and image are a
// snapshot of the product taken when the item was added; later product edits
// do not propagate here.
type CartItem struct {
	ID        int     `json:"id"`
	ProductID int     `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Image     string  `json:"image"`
}

// Subtotal is the snapshot price times the quantity in the cart.
func (i CartItem) Subtotal() float64 {
	return i.Price * float64(i.Quantity)
}

// CartTotal sums subtotals over all items using the snapshot prices,
// never the live product prices.
func CartTotal(items []CartItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Subtotal()
	}
	return total
}
