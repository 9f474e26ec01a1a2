package api

import (
	"context"
	"net/url"

	"iticket-storefront/internal/models"
)

// GetMyCart reads the current user's cart. A 404 means the user simply
// has no cart yet and resolves to an empty one rather than an error.
func (c *Client) GetMyCart(ctx context.Context) (*models.Cart, error) {
	var cart models.Cart
	if err := c.get(ctx, "/cart/mine", nil, &cart); err != nil {
		if IsNotFound(err) {
			return models.EmptyCart(), nil
		}
		return nil, err
	}
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	return &cart, nil
}

// GetCartCount is the lightweight badge derivation: distinct cart lines,
// with every failure degrading to zero since the badge is non-critical.
func (c *Client) GetCartCount(ctx context.Context) int {
	cart, err := c.GetMyCart(ctx)
	if err != nil {
		return 0
	}
	return cart.BadgeCount()
}

// AddCartItem adds a ticket type to the cart and returns the new cart.
func (c *Client) AddCartItem(ctx context.Context, ticketTypeID string, quantity int) (*models.Cart, error) {
	var cart models.Cart
	req := models.AddCartItemRequest{TicketTypeID: ticketTypeID, Quantity: quantity}
	if err := c.post(ctx, "/cart/items", req, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// UpdateCartItem changes a line's quantity and returns the new cart.
func (c *Client) UpdateCartItem(ctx context.Context, itemID string, quantity int) (*models.Cart, error) {
	var cart models.Cart
	req := models.UpdateCartItemRequest{Quantity: quantity}
	if err := c.patch(ctx, "/cart/items/"+url.PathEscape(itemID), req, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// RemoveCartItem deletes a line and returns the new cart.
func (c *Client) RemoveCartItem(ctx context.Context, itemID string) (*models.Cart, error) {
	var cart models.Cart
	if err := c.delete(ctx, "/cart/items/"+url.PathEscape(itemID), &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// ClearCart empties the cart.
func (c *Client) ClearCart(ctx context.Context) error {
	return c.delete(ctx, "/cart/clear", nil)
}
