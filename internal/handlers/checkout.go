package handlers

import (
	"errors"
	"net/http"
	"sync"

	"iticket-storefront/internal/api"
	"iticket-storefront/internal/checkout"
	"iticket-storefront/internal/models"

	"github.com/google/uuid"
)

// CheckoutHandler drives the pay flow. One flow is kept per process (one
// signed-in user per process): a failed flow survives across requests so
// Pay can resume from the failed step with the identifiers it already
// holds instead of creating a second order.
type CheckoutHandler struct {
	api      *api.Client
	renderer *Renderer
	flash    *Flash

	mu   sync.Mutex
	flow *checkout.Flow
}

// NewCheckoutHandler creates the checkout handler.
func NewCheckoutHandler(client *api.Client, renderer *Renderer, flash *Flash) *CheckoutHandler {
	return &CheckoutHandler{api: client, renderer: renderer, flash: flash}
}

type checkoutPageData struct {
	Cart       *models.Cart
	PromoCode  string
	Promo      *models.PromoCheckResult
	PromoError string
	PayToken   string
	Log        []string
	StepError  string
	Resumable  bool
}

// Page renders the checkout form with the current cart.
func (h *CheckoutHandler) Page(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, http.StatusOK, checkoutPageData{})
}

// CheckPromo previews a promo code against the cart subtotal. The
// verdict is display-only; the code is applied for real during Pay.
func (h *CheckoutHandler) CheckPromo(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	code := r.FormValue("promo")
	if code == "" {
		http.Redirect(w, r, "/checkout", http.StatusSeeOther)
		return
	}

	cart, err := h.api.GetMyCart(r.Context())
	if err != nil {
		h.renderer.renderLoadError(w, r, "checkout.html", "Checkout", err)
		return
	}

	data := checkoutPageData{Cart: cart, PromoCode: code}
	result, err := h.api.CheckPromo(r.Context(), code, cart.Total)
	switch {
	case err != nil:
		if api.IsUnauthorized(err) {
			redirectOnAuthFailure(w, r)
			return
		}
		data.PromoError = api.UserMessage(err)
	case !result.IsValid:
		data.PromoError = promoRejectionMessage(result)
	default:
		data.Promo = result
	}

	h.renderWithToken(w, r, http.StatusOK, data)
}

func promoRejectionMessage(result *models.PromoCheckResult) string {
	if result.Reason != "" {
		return result.Reason
	}
	return "This promo code is not valid."
}

// Pay runs the checkout sequence: create order, create payment intent,
// capture, then confirm the order is Paid. The one-time form token makes
// a double submit a no-op redirect rather than a second charge attempt.
func (h *CheckoutHandler) Pay(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	if !h.flash.ConsumePayToken(w, r, r.FormValue("payToken")) {
		http.Redirect(w, r, "/checkout", http.StatusSeeOther)
		return
	}

	flow := h.currentOrNewFlow(r.FormValue("promo"))

	var processLog []string
	flow.SetObserver(func(e checkout.Event) {
		processLog = append(processLog, e.Message)
	})

	order, err := flow.Run(r.Context())
	if err != nil {
		if api.IsUnauthorized(err) {
			redirectOnAuthFailure(w, r)
			return
		}

		data := checkoutPageData{
			PromoCode: r.FormValue("promo"),
			Log:       processLog,
			StepError: stepFailureMessage(err),
			Resumable: flow.OrderID() != "",
		}
		h.renderPage(w, r, http.StatusBadGateway, data)
		return
	}

	h.clearFlow()
	h.flash.Success(w, r, "Payment successful. Your order is confirmed.")
	http.Redirect(w, r, "/orders/"+order.ID, http.StatusSeeOther)
}

func stepFailureMessage(err error) string {
	var stepErr *checkout.StepError
	if errors.As(err, &stepErr) {
		return "Failed to " + stepErr.Step.String() + ": " + api.UserMessage(stepErr.Err)
	}
	return api.UserMessage(err)
}

// currentOrNewFlow resumes an unfinished flow or starts a fresh one. A
// flow that never got past creating its order holds nothing worth
// resuming, so it is discarded and the freshly submitted promo code
// takes effect.
func (h *CheckoutHandler) currentOrNewFlow(promo string) *checkout.Flow {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.flow != nil && h.flow.CurrentState() != checkout.StateConfirmed && h.flow.OrderID() != "" {
		return h.flow
	}

	var promoCode *string
	if promo != "" {
		promoCode = &promo
	}
	h.flow = checkout.NewFlow(h.api, promoCode)
	return h.flow
}

func (h *CheckoutHandler) clearFlow() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.flow = nil
}

func (h *CheckoutHandler) renderPage(w http.ResponseWriter, r *http.Request, status int, data checkoutPageData) {
	if data.Cart == nil {
		cart, err := h.api.GetMyCart(r.Context())
		if err != nil {
			h.renderer.renderLoadError(w, r, "checkout.html", "Checkout", err)
			return
		}
		data.Cart = cart
	}
	h.renderWithToken(w, r, status, data)
}

func (h *CheckoutHandler) renderWithToken(w http.ResponseWriter, r *http.Request, status int, data checkoutPageData) {
	data.PayToken = uuid.NewString()
	h.flash.SetPayToken(w, r, data.PayToken)

	h.renderer.Render(w, r, status, "checkout.html", PageData{
		Title:   "Checkout",
		Flashes: h.flash.Pop(w, r),
		Data:    data,
	})
}
