package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"iticket-storefront/internal/session"
)

// Auth pages that must never be redirect targets of themselves. Guarding
// these breaks the 401 redirect loop.
var authPages = []string{"/login", "/register"}

// IsAuthPage reports whether the path renders an authentication form.
func IsAuthPage(path string) bool {
	for _, page := range authPages {
		if path == page || strings.HasPrefix(path, page+"/") {
			return true
		}
	}
	return false
}

// LoginRedirectURL builds the login redirect preserving the original path
// as a return-to parameter. Auth pages and empty paths get a plain /login.
func LoginRedirectURL(originalPath string) string {
	if originalPath == "" || originalPath == "/" || IsAuthPage(originalPath) {
		return "/login"
	}
	return "/login?redirect=" + url.QueryEscape(originalPath)
}

// Guard gates navigation to authenticated-only views based on the
// session store's single authenticated predicate.
type Guard struct {
	store *session.Store
}

// NewGuard creates a route guard over the session store.
func NewGuard(store *session.Store) *Guard {
	return &Guard{store: store}
}

// RequireAuth redirects unauthenticated requests to the login page,
// keeping the original path for the post-login return. Requests already
// on an auth page pass through so the guard can never loop.
func (g *Guard) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if IsAuthPage(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		switch g.store.CurrentState() {
		case session.StateUninitialized, session.StateInitializing:
			// Avoid a false-negative flash-redirect while the store is
			// still reconciling durable storage
			w.Header().Set("Retry-After", "1")
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`<!DOCTYPE html><html><head><meta http-equiv="refresh" content="1"></head><body>Checking authentication...</body></html>`))
			return
		}

		if !g.store.IsAuthenticated() {
			http.Redirect(w, r, LoginRedirectURL(r.URL.Path), http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r)
	})
}
