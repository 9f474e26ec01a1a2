package api

import (
	"context"
	"net/url"
	"strconv"

	"iticket-storefront/internal/models"
)

// ListNotifications reads the current user's notifications, newest first.
func (c *Client) ListNotifications(ctx context.Context, take int) ([]models.Notification, error) {
	query := url.Values{}
	if take > 0 {
		query.Set("take", strconv.Itoa(take))
	}

	var notifications []models.Notification
	if err := c.get(ctx, "/notifications/mine", query, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}
