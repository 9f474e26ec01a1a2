package api

import (
	"context"
	"fmt"

	"iticket-storefront/internal/models"
	"iticket-storefront/internal/session"
)

// Login exchanges credentials for tokens. Storing the access token is the
// caller's job; the session store is mutated only by login, logout and
// the 401 handler.
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := c.post(ctx, "/auth/login", req, &resp); err != nil {
		return nil, err
	}
	if !session.IsValidToken(resp.Access) {
		return nil, fmt.Errorf("login returned an unusable access token")
	}
	return &resp, nil
}

// Register creates an account. The API returns no body on success.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) error {
	return c.post(ctx, "/auth/register", req, nil)
}

// Refresh exchanges a refresh token for a new access token.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := c.post(ctx, "/auth/refresh", models.RefreshRequest{Refresh: refreshToken}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
