package api

import (
	"context"

	"iticket-storefront/internal/models"
)

// CheckPromo validates a promo code against a subtotal. The verdict is
// ephemeral; the code is applied for real when the order is created.
func (c *Client) CheckPromo(ctx context.Context, code string, subtotal float64) (*models.PromoCheckResult, error) {
	var result models.PromoCheckResult
	req := models.PromoCheckRequest{Code: code, Subtotal: subtotal}
	if err := c.post(ctx, "/promo/check", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
