package handlers

import (
	"net/http"

	"iticket-storefront/internal/api"
	"iticket-storefront/internal/models"

	"github.com/go-chi/chi/v5"
)

// FavoritesHandler serves the favorites page and its mutations.
type FavoritesHandler struct {
	api      *api.Client
	renderer *Renderer
	flash    *Flash
}

// NewFavoritesHandler creates the favorites handler.
func NewFavoritesHandler(client *api.Client, renderer *Renderer, flash *Flash) *FavoritesHandler {
	return &FavoritesHandler{api: client, renderer: renderer, flash: flash}
}

type favoritesPageData struct {
	Favorites []models.FavoriteEvent
}

// List renders the user's favorite events.
func (h *FavoritesHandler) List(w http.ResponseWriter, r *http.Request) {
	favorites, err := h.api.ListFavorites(r.Context())
	if err != nil {
		h.renderer.renderLoadError(w, r, "favorites.html", "Favorites", err)
		return
	}

	h.renderer.Render(w, r, http.StatusOK, "favorites.html", PageData{
		Title:   "Favorites",
		Flashes: h.flash.Pop(w, r),
		Data:    favoritesPageData{Favorites: favorites},
	})
}

// Add marks an event as a favorite. Adding twice silently succeeds.
func (h *FavoritesHandler) Add(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")

	if err := h.api.AddFavorite(r.Context(), eventID); err != nil {
		if api.IsUnauthorized(err) {
			redirectOnAuthFailure(w, r)
			return
		}
		h.flash.Error(w, r, api.UserMessage(err))
	} else {
		h.flash.Success(w, r, "Added to favorites.")
	}

	http.Redirect(w, r, backTo(r, "/favorites"), http.StatusSeeOther)
}

// Remove unmarks an event.
func (h *FavoritesHandler) Remove(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")

	if err := h.api.RemoveFavorite(r.Context(), eventID); err != nil && !api.IsNotFound(err) {
		if api.IsUnauthorized(err) {
			redirectOnAuthFailure(w, r)
			return
		}
		h.flash.Error(w, r, api.UserMessage(err))
	} else {
		h.flash.Success(w, r, "Removed from favorites.")
	}

	http.Redirect(w, r, backTo(r, "/favorites"), http.StatusSeeOther)
}
