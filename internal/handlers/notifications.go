package handlers

import (
	"net/http"

	"iticket-storefront/internal/api"
	"iticket-storefront/internal/models"
)

const notificationsTake = 50

// NotificationsHandler serves the notifications page.
type NotificationsHandler struct {
	api      *api.Client
	renderer *Renderer
	flash    *Flash
}

// NewNotificationsHandler creates the notifications handler.
func NewNotificationsHandler(client *api.Client, renderer *Renderer, flash *Flash) *NotificationsHandler {
	return &NotificationsHandler{api: client, renderer: renderer, flash: flash}
}

type notificationsPageData struct {
	Notifications []models.Notification
}

// List renders the user's notifications.
func (h *NotificationsHandler) List(w http.ResponseWriter, r *http.Request) {
	notifications, err := h.api.ListNotifications(r.Context(), notificationsTake)
	if err != nil {
		h.renderer.renderLoadError(w, r, "notifications.html", "Notifications", err)
		return
	}

	h.renderer.Render(w, r, http.StatusOK, "notifications.html", PageData{
		Title:   "Notifications",
		Flashes: h.flash.Pop(w, r),
		Data:    notificationsPageData{Notifications: notifications},
	})
}
