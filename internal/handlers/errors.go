package handlers

import (
	"log"
	"net/http"

	"iticket-storefront/internal/api"
	"iticket-storefront/internal/middleware"
)

// redirectOnAuthFailure sends the user to login after the API client has
// cleared the session on a 401. Requests already on an auth page are
// left alone so the redirect can never loop.
func redirectOnAuthFailure(w http.ResponseWriter, r *http.Request) {
	if middleware.IsAuthPage(r.URL.Path) {
		return
	}
	http.Redirect(w, r, middleware.LoginRedirectURL(r.URL.Path), http.StatusSeeOther)
}

// renderLoadError renders a page-level load failure as an inline error
// state with the page's own retry affordance. Authentication failures
// redirect instead; everything else stays local to the page.
func (r *Renderer) renderLoadError(w http.ResponseWriter, req *http.Request, page, title string, err error) {
	if api.IsUnauthorized(err) {
		redirectOnAuthFailure(w, req)
		return
	}

	log.Printf("%s: load failed: %v", page, err)

	status := http.StatusBadGateway
	if api.IsNetwork(err) {
		status = http.StatusServiceUnavailable
	}
	r.Render(w, req, status, page, PageData{
		Title: title,
		Error: api.UserMessage(err),
	})
}
