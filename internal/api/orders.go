package api

import (
	"context"
	"net/url"
	"strconv"

	"iticket-storefront/internal/models"
)

// CreateOrder builds an order server-side from the current cart plus an
// optional promo code.
func (c *Client) CreateOrder(ctx context.Context, promoCode *string) (*models.Order, error) {
	var order models.Order
	if err := c.post(ctx, "/orders", models.CreateOrderRequest{PromoCode: promoCode}, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// ListMyOrders fetches a page of the user's order history.
func (c *Client) ListMyOrders(ctx context.Context, page, pageSize int) (*models.PageResponse[models.OrderListItem], error) {
	query := url.Values{}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		query.Set("pageSize", strconv.Itoa(pageSize))
	}

	var resp models.PageResponse[models.OrderListItem]
	if err := c.get(ctx, "/orders/mine", query, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetOrder fetches one order. Unlike cart reads, a missing order is a
// genuine not-found error.
func (c *Client) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := c.get(ctx, "/orders/"+url.PathEscape(id), nil, &order); err != nil {
		if IsNotFound(err) {
			return nil, models.ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}
