package api

import (
	"context"
	"fmt"
	"net/url"

	"iticket-storefront/internal/models"
)

// ListFavorites reads the user's favorite events. A 404 means no
// favorites yet and resolves to an empty list.
func (c *Client) ListFavorites(ctx context.Context) ([]models.FavoriteEvent, error) {
	var favorites []models.FavoriteEvent
	if err := c.get(ctx, "/favorites/mine", nil, &favorites); err != nil {
		if IsNotFound(err) {
			return []models.FavoriteEvent{}, nil
		}
		return nil, err
	}
	return favorites, nil
}

// AddFavorite marks an event as a favorite. Adding an already-favorited
// event is idempotent: a conflict from the server counts as success.
func (c *Client) AddFavorite(ctx context.Context, eventID string) error {
	if eventID == "" {
		return fmt.Errorf("event id is required: %w", models.ErrInvalidInput)
	}
	err := c.post(ctx, "/favorites/"+url.PathEscape(eventID), nil, nil)
	if err != nil && IsConflict(err) {
		return nil
	}
	return err
}

// RemoveFavorite unmarks an event.
func (c *Client) RemoveFavorite(ctx context.Context, eventID string) error {
	if eventID == "" {
		return fmt.Errorf("event id is required: %w", models.ErrInvalidInput)
	}
	return c.delete(ctx, "/favorites/"+url.PathEscape(eventID), nil)
}
