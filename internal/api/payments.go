package api

import (
	"context"
	"net/url"

	"iticket-storefront/internal/models"
)

// CreateIntent creates a payment intent for an order.
func (c *Client) CreateIntent(ctx context.Context, orderID string) (*models.PaymentIntent, error) {
	var intent models.PaymentIntent
	if err := c.post(ctx, "/payments/"+url.PathEscape(orderID)+"/intent", nil, &intent); err != nil {
		return nil, err
	}
	return &intent, nil
}

// CapturePayment finalizes a previously issued payment intent.
func (c *Client) CapturePayment(ctx context.Context, paymentID string) (*models.PaymentDetails, error) {
	var payment models.PaymentDetails
	if err := c.post(ctx, "/payments/"+url.PathEscape(paymentID)+"/capture", nil, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}
