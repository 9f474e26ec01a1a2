package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"iticket-storefront/internal/session"
)

// Config configures the API client.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client talks to the remote iTicket API. It attaches the bearer token
// from the session store to every request except the auth endpoints, and
// reacts to 401 responses by clearing the session and notifying the
// auth-failure hook. One instance is shared by all handlers.
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *session.Store

	// onAuthFailure runs after a 401 has cleared the session. The web
	// layer uses it to schedule the login redirect.
	onAuthFailure func()
}

// New creates an API client bound to the session store.
func New(config Config, store *session.Store) *Client {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		session:    store,
	}
}

// OnAuthFailure registers the hook invoked when a 401 clears the session.
func (c *Client) OnAuthFailure(hook func()) {
	c.onAuthFailure = hook
}

// isAuthRoute reports whether the path is one of the unauthenticated auth
// endpoints. Those never carry an Authorization header.
func isAuthRoute(path string) bool {
	p := strings.ToLower(path)
	return strings.Contains(p, "/auth/login") ||
		strings.Contains(p, "/auth/register") ||
		strings.Contains(p, "/auth/refresh")
}

// do issues one request and decodes the JSON response into out (when out
// is non-nil). Error responses come back as *APIError; transport
// failures wrap ErrNetwork.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(data)
	}

	requestURL := c.baseURL + path
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	if !isAuthRoute(path) {
		if token := c.session.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrNetwork, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.handleErrorResponse(resp, path)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return nil
}

// handleErrorResponse turns an error status into an *APIError. A 401 on a
// non-auth route is the one globally-propagating failure: the session is
// cleared and the auth-failure hook fires before the error returns.
func (c *Client) handleErrorResponse(resp *http.Response, path string) error {
	var body errorBody
	if data, err := io.ReadAll(resp.Body); err == nil && len(data) > 0 {
		// A non-JSON body just falls back to status-derived wording
		_ = json.Unmarshal(data, &body)
	}

	apiErr := newAPIError(resp.StatusCode, body)

	if resp.StatusCode == http.StatusUnauthorized && !isAuthRoute(path) {
		_ = c.session.Clear()
		if c.onAuthFailure != nil {
			c.onAuthFailure()
		}
	}

	return apiErr
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, nil, body, out)
}

func (c *Client) delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, out)
}
