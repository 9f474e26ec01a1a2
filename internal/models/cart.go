package models

import "fmt"

// Cart represents the current user's shopping cart. The server owns it;
// the client holds a read-through copy refreshed on demand.
type Cart struct {
	ID    string     `json:"id,omitempty"`
	Items []CartItem `json:"items"`
	Total float64    `json:"total"`
}

// CartItem represents one line in the cart.
type CartItem struct {
	ItemID       string  `json:"itemId"`
	TicketTypeID string  `json:"ticketTypeId"`
	Quantity     int     `json:"quantity"`
	UnitPrice    float64 `json:"unitPrice"`
	LineTotal    float64 `json:"lineTotal"`
}

// EmptyCart is what a 404 from GET /cart/mine resolves to.
func EmptyCart() *Cart {
	return &Cart{Items: []CartItem{}, Total: 0}
}

// Validate checks the server-stated arithmetic: every line total must be
// quantity times unit price, and the cart total must be the sum of lines.
func (c *Cart) Validate() error {
	var sum float64
	for _, item := range c.Items {
		want := float64(item.Quantity) * item.UnitPrice
		if item.LineTotal != want {
			return fmt.Errorf("cart item %s: line total %.2f, expected %.2f", item.ItemID, item.LineTotal, want)
		}
		sum += item.LineTotal
	}
	if c.Total != sum {
		return fmt.Errorf("cart total %.2f, expected %.2f", c.Total, sum)
	}
	return nil
}

// BadgeCount is the number shown in the navigation badge. Counted as
// distinct cart lines, matching the line count on the cart page.
func (c *Cart) BadgeCount() int {
	return len(c.Items)
}

// AddCartItemRequest is the body for POST /cart/items.
type AddCartItemRequest struct {
	TicketTypeID string `json:"ticketTypeId"`
	Quantity     int    `json:"quantity"`
}

// UpdateCartItemRequest is the body for PATCH /cart/items/{id}.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}
