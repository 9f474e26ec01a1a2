package api

import (
	"context"
	"net/url"
	"strconv"

	"iticket-storefront/internal/models"
)

// ListEvents fetches the default event listing.
func (c *Client) ListEvents(ctx context.Context) ([]models.EventListItem, error) {
	var events []models.EventListItem
	if err := c.get(ctx, "/events", nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// SearchEvents runs a filtered search against GET /events/search.
func (c *Client) SearchEvents(ctx context.Context, params models.EventSearchParams) (*models.EventSearchResponse, error) {
	query := url.Values{}
	if params.Query != "" {
		query.Set("q", params.Query)
	}
	if params.Category != "" {
		query.Set("category", params.Category)
	}
	if params.FromUTC != "" {
		query.Set("fromUtc", params.FromUTC)
	}
	if params.ToUTC != "" {
		query.Set("toUtc", params.ToUTC)
	}
	if params.Take > 0 {
		query.Set("take", strconv.Itoa(params.Take))
	}
	if params.Skip > 0 {
		query.Set("skip", strconv.Itoa(params.Skip))
	}

	var resp models.EventSearchResponse
	if err := c.get(ctx, "/events/search", query, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetEvent fetches the full event view with performances and ticket types.
func (c *Client) GetEvent(ctx context.Context, id string) (*models.EventDetails, error) {
	var event models.EventDetails
	if err := c.get(ctx, "/events/"+url.PathEscape(id), nil, &event); err != nil {
		if IsNotFound(err) {
			return nil, models.ErrEventNotFound
		}
		return nil, err
	}
	return &event, nil
}

// ListCategories returns the category names for the search filter.
func (c *Client) ListCategories(ctx context.Context, search string) ([]string, error) {
	query := url.Values{}
	if search != "" {
		query.Set("search", search)
	}

	var categories []string
	if err := c.get(ctx, "/categories", query, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}
