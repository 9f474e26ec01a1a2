package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"iticket-storefront/internal/api"
	"iticket-storefront/internal/models"

	"github.com/go-chi/chi/v5"
)

const eventsPageSize = 24

// EventsHandler serves the public browse pages.
type EventsHandler struct {
	api      *api.Client
	renderer *Renderer
	flash    *Flash
}

// NewEventsHandler creates the events handler.
func NewEventsHandler(client *api.Client, renderer *Renderer, flash *Flash) *EventsHandler {
	return &EventsHandler{api: client, renderer: renderer, flash: flash}
}

type eventsPageData struct {
	Events     []models.EventListItem
	Categories []string
	Query      string
	Category   string
	Page       int
	PrevPage   int
	NextPage   int
	HasMore    bool
}

type eventPageData struct {
	Event *models.EventDetails
}

// Home renders the event listing, optionally filtered by search query
// and category.
func (h *EventsHandler) Home(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	category := r.URL.Query().Get("category")
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}

	data := eventsPageData{Query: query, Category: category, Page: page, PrevPage: page - 1, NextPage: page + 1}

	// The category filter is decorative; its failure never blocks the page
	if categories, err := h.api.ListCategories(r.Context(), ""); err == nil {
		data.Categories = categories
	}

	if query == "" && category == "" && page == 1 {
		events, err := h.api.ListEvents(r.Context())
		if err != nil {
			h.renderer.renderLoadError(w, r, "events.html", "Events", err)
			return
		}
		data.Events = events
	} else {
		resp, err := h.api.SearchEvents(r.Context(), models.EventSearchParams{
			Query:    query,
			Category: category,
			Take:     eventsPageSize,
			Skip:     (page - 1) * eventsPageSize,
		})
		if err != nil {
			h.renderer.renderLoadError(w, r, "events.html", "Events", err)
			return
		}
		data.Events = resp.Items
		data.HasMore = resp.HasMore
	}

	h.renderer.Render(w, r, http.StatusOK, "events.html", PageData{
		Title:   "Events",
		Flashes: h.flash.Pop(w, r),
		Data:    data,
	})
}

// Details renders one event with its performances and ticket types.
func (h *EventsHandler) Details(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	event, err := h.api.GetEvent(r.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrEventNotFound) {
			h.renderer.Render(w, r, http.StatusNotFound, "event.html", PageData{
				Title: "Event Not Found",
				Error: "This event doesn't exist or is no longer available.",
			})
			return
		}
		h.renderer.renderLoadError(w, r, "event.html", "Event", err)
		return
	}

	h.renderer.Render(w, r, http.StatusOK, "event.html", PageData{
		Title:   event.Title,
		Flashes: h.flash.Pop(w, r),
		Data:    eventPageData{Event: event},
	})
}
