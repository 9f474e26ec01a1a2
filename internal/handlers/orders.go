package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"iticket-storefront/internal/api"
	"iticket-storefront/internal/models"

	"github.com/go-chi/chi/v5"
)

const ordersPageSize = 20

// OrdersHandler serves the order history and order detail pages.
type OrdersHandler struct {
	api      *api.Client
	renderer *Renderer
	flash    *Flash
}

// NewOrdersHandler creates the orders handler.
func NewOrdersHandler(client *api.Client, renderer *Renderer, flash *Flash) *OrdersHandler {
	return &OrdersHandler{api: client, renderer: renderer, flash: flash}
}

type ordersPageData struct {
	Orders   []models.OrderListItem
	Page     int
	HasPrev  bool
	HasNext  bool
	PrevPage int
	NextPage int
}

type orderPageData struct {
	Order *models.Order
}

// List renders a page of the user's order history.
func (h *OrdersHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}

	resp, err := h.api.ListMyOrders(r.Context(), page, ordersPageSize)
	if err != nil {
		h.renderer.renderLoadError(w, r, "orders.html", "Orders", err)
		return
	}

	h.renderer.Render(w, r, http.StatusOK, "orders.html", PageData{
		Title:   "Orders",
		Flashes: h.flash.Pop(w, r),
		Data: ordersPageData{
			Orders:   resp.Items,
			Page:     page,
			HasPrev:  page > 1,
			HasNext:  page*ordersPageSize < resp.Total,
			PrevPage: page - 1,
			NextPage: page + 1,
		},
	})
}

// Details renders one order with its items and payment.
func (h *OrdersHandler) Details(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	order, err := h.api.GetOrder(r.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrOrderNotFound) {
			h.renderer.Render(w, r, http.StatusNotFound, "order.html", PageData{
				Title: "Order Not Found",
				Error: "This order doesn't exist.",
			})
			return
		}
		h.renderer.renderLoadError(w, r, "order.html", "Order", err)
		return
	}

	h.renderer.Render(w, r, http.StatusOK, "order.html", PageData{
		Title:   "Order #" + strconv.Itoa(order.OrderNumber),
		Flashes: h.flash.Pop(w, r),
		Data:    orderPageData{Order: order},
	})
}
