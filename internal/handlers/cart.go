package handlers

import (
	"log"
	"net/http"
	"strconv"

	"iticket-storefront/internal/api"
	"iticket-storefront/internal/models"

	"github.com/go-chi/chi/v5"
)

// CartHandler serves the cart page and its mutations. The cart itself is
// server-owned; every view fetches it fresh.
type CartHandler struct {
	api      *api.Client
	renderer *Renderer
	flash    *Flash
}

// NewCartHandler creates the cart handler.
func NewCartHandler(client *api.Client, renderer *Renderer, flash *Flash) *CartHandler {
	return &CartHandler{api: client, renderer: renderer, flash: flash}
}

type cartPageData struct {
	Cart *models.Cart
}

type cartRemovePageData struct {
	Item models.CartItem
}

// View renders the cart page.
func (h *CartHandler) View(w http.ResponseWriter, r *http.Request) {
	cart, err := h.api.GetMyCart(r.Context())
	if err != nil {
		h.renderer.renderLoadError(w, r, "cart.html", "Cart", err)
		return
	}

	if err := cart.Validate(); err != nil {
		// Server arithmetic is authoritative; log the disagreement but
		// still show what it sent
		log.Printf("cart: %v", err)
	}

	h.renderer.Render(w, r, http.StatusOK, "cart.html", PageData{
		Title:   "Cart",
		Flashes: h.flash.Pop(w, r),
		Data:    cartPageData{Cart: cart},
	})
}

// AddItem handles the add-to-cart post from an event page.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	ticketTypeID := r.FormValue("ticketTypeId")
	quantity, err := strconv.Atoi(r.FormValue("quantity"))
	if ticketTypeID == "" || err != nil || quantity < 1 {
		h.flash.Error(w, r, "Choose a ticket type and a quantity of at least 1.")
		http.Redirect(w, r, backTo(r, "/"), http.StatusSeeOther)
		return
	}

	if _, err := h.api.AddCartItem(r.Context(), ticketTypeID, quantity); err != nil {
		if api.IsUnauthorized(err) {
			redirectOnAuthFailure(w, r)
			return
		}
		h.flash.Error(w, r, api.UserMessage(err))
		http.Redirect(w, r, backTo(r, "/"), http.StatusSeeOther)
		return
	}

	h.flash.Success(w, r, "Added to cart.")
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

// UpdateItem changes a line's quantity.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "id")
	quantity, err := strconv.Atoi(r.FormValue("quantity"))
	if err != nil || quantity < 1 {
		h.flash.Error(w, r, "Quantity must be at least 1.")
		http.Redirect(w, r, "/cart", http.StatusSeeOther)
		return
	}

	if _, err := h.api.UpdateCartItem(r.Context(), itemID, quantity); err != nil {
		if api.IsUnauthorized(err) {
			redirectOnAuthFailure(w, r)
			return
		}
		h.flash.Error(w, r, api.UserMessage(err))
	}
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

// ConfirmRemove renders the confirmation page before a destructive
// removal.
func (h *CartHandler) ConfirmRemove(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "id")

	cart, err := h.api.GetMyCart(r.Context())
	if err != nil {
		h.renderer.renderLoadError(w, r, "cart.html", "Cart", err)
		return
	}

	for _, item := range cart.Items {
		if item.ItemID == itemID {
			h.renderer.Render(w, r, http.StatusOK, "cart_remove.html", PageData{
				Title: "Remove Item",
				Data:  cartRemovePageData{Item: item},
			})
			return
		}
	}

	// Already gone; treat like a completed removal
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

// RemoveItem deletes a line after confirmation.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "id")

	if _, err := h.api.RemoveCartItem(r.Context(), itemID); err != nil {
		if api.IsUnauthorized(err) {
			redirectOnAuthFailure(w, r)
			return
		}
		h.flash.Error(w, r, api.UserMessage(err))
		http.Redirect(w, r, "/cart", http.StatusSeeOther)
		return
	}

	h.flash.Success(w, r, "Item removed from cart.")
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

// Clear empties the cart.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.api.ClearCart(r.Context()); err != nil && !api.IsNotFound(err) {
		if api.IsUnauthorized(err) {
			redirectOnAuthFailure(w, r)
			return
		}
		h.flash.Error(w, r, api.UserMessage(err))
		http.Redirect(w, r, "/cart", http.StatusSeeOther)
		return
	}

	h.flash.Success(w, r, "Cart cleared.")
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

// backTo returns the form's declared origin page, kept on-site.
func backTo(r *http.Request, fallback string) string {
	if back := safeReturnPath(r.FormValue("back")); back != "/" {
		return back
	}
	return fallback
}
