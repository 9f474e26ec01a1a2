package middleware

import (
	"context"
	"net/http"

	"iticket-storefront/internal/session"
)

type contextKey string

const cartCountKey contextKey = "cart_count"

// CartCounter is the slice of the API client the badge needs.
type CartCounter interface {
	GetCartCount(ctx context.Context) int
}

// CartBadge keeps the lightweight "items in cart" count available to the
// navigation on every page without each handler loading the full cart.
// The badge is non-critical: every failure degrades to zero.
type CartBadge struct {
	counter CartCounter
	store   *session.Store
}

// NewCartBadge creates the badge middleware.
func NewCartBadge(counter CartCounter, store *session.Store) *CartBadge {
	return &CartBadge{counter: counter, store: store}
}

// Refresh fetches the count for page renders. Only GET page loads pay
// the cost; mutations redirect into a GET anyway.
func (b *CartBadge) Refresh(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		count := 0
		if r.Method == http.MethodGet && b.store.IsAuthenticated() {
			count = b.counter.GetCartCount(r.Context())
		}

		ctx := context.WithValue(r.Context(), cartCountKey, count)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetCartCount retrieves the badge count from the request context.
func GetCartCount(ctx context.Context) int {
	count, ok := ctx.Value(cartCountKey).(int)
	if !ok {
		return 0
	}
	return count
}
