package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"iticket-storefront/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// payRequest builds a POST /checkout/pay request carrying a freshly
// issued pay token, the way the rendered form would.
func payRequest(t *testing.T, flash *Flash, promo string) *http.Request {
	t.Helper()

	rec := httptest.NewRecorder()
	seed := httptest.NewRequest(http.MethodGet, "/checkout", nil)
	flash.SetPayToken(rec, seed, "token-for-test")
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := postForm("/checkout/pay", url.Values{
		"payToken": {"token-for-test"},
		"promo":    {promo},
	})
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

// checkoutOverrides swaps out individual fake API endpoints per test.
type checkoutOverrides struct {
	createOrder http.HandlerFunc
	capture     http.HandlerFunc
	getOrder    http.HandlerFunc
	promo       http.HandlerFunc
}

func checkoutAPIMux(t *testing.T, orderCalls *int32, overrides checkoutOverrides) *http.ServeMux {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /cart/mine", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.Cart{
			Items: []models.CartItem{{ItemID: "line-1", TicketTypeID: "tt-1", Quantity: 2, UnitPrice: 10, LineTotal: 20}},
			Total: 20,
		})
	})
	createOrder := overrides.createOrder
	if createOrder == nil {
		createOrder = func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(models.Order{ID: "order-1", OrderNumber: 42, Status: models.OrderStatusPending, Total: 20})
		}
	}
	mux.HandleFunc("POST /orders", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(orderCalls, 1)
		createOrder(w, r)
	})
	mux.HandleFunc("POST /payments/order-1/intent", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.PaymentIntent{PaymentID: "pay-1", OrderID: "order-1", Amount: 20})
	})

	capture := overrides.capture
	if capture == nil {
		capture = func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(models.PaymentDetails{ID: "pay-1", OrderID: "order-1", Status: "Captured"})
		}
	}
	mux.HandleFunc("POST /payments/pay-1/capture", capture)

	getOrder := overrides.getOrder
	if getOrder == nil {
		getOrder = func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(models.Order{ID: "order-1", OrderNumber: 42, Status: models.OrderStatusPaid, Total: 20})
		}
	}
	mux.HandleFunc("GET /orders/order-1", getOrder)

	if overrides.promo != nil {
		mux.HandleFunc("POST /promo/check", overrides.promo)
	}
	return mux
}

func TestCheckoutHandler_Pay(t *testing.T) {
	t.Run("successful payment redirects to the confirmed order", func(t *testing.T) {
		// Setup
		var orderCalls int32
		client, store, renderer, flash, cleanup := newTestEnv(t, checkoutAPIMux(t, &orderCalls, checkoutOverrides{}))
		defer cleanup()
		require.NoError(t, store.SetToken("valid-token", nil))
		handler := NewCheckoutHandler(client, renderer, flash)

		// Execute
		rec := httptest.NewRecorder()
		handler.Pay(rec, payRequest(t, flash, ""))

		// Assertions
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/orders/order-1", rec.Header().Get("Location"))
		assert.Equal(t, int32(1), atomic.LoadInt32(&orderCalls))
	})

	t.Run("a submit without a pay token is bounced back to checkout", func(t *testing.T) {
		// Setup
		var orderCalls int32
		client, store, renderer, flash, cleanup := newTestEnv(t, checkoutAPIMux(t, &orderCalls, checkoutOverrides{}))
		defer cleanup()
		require.NoError(t, store.SetToken("valid-token", nil))
		handler := NewCheckoutHandler(client, renderer, flash)

		// Execute
		rec := httptest.NewRecorder()
		handler.Pay(rec, postForm("/checkout/pay", url.Values{"payToken": {"never-issued"}}))

		// Assertions
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/checkout", rec.Header().Get("Location"))
		assert.Zero(t, atomic.LoadInt32(&orderCalls))
	})

	t.Run("a failed capture keeps the order and retrying resumes without a second order", func(t *testing.T) {
		// Setup
		var orderCalls int32
		captureAttempts := 0
		mux := checkoutAPIMux(t, &orderCalls, checkoutOverrides{
			capture: func(w http.ResponseWriter, r *http.Request) {
				captureAttempts++
				if captureAttempts == 1 {
					w.WriteHeader(http.StatusBadGateway)
					json.NewEncoder(w).Encode(map[string]string{"message": "Payment provider unavailable"})
					return
				}
				json.NewEncoder(w).Encode(models.PaymentDetails{ID: "pay-1", OrderID: "order-1", Status: "Captured"})
			},
		})
		client, store, renderer, flash, cleanup := newTestEnv(t, mux)
		defer cleanup()
		require.NoError(t, store.SetToken("valid-token", nil))
		handler := NewCheckoutHandler(client, renderer, flash)

		// Execute: first attempt fails at capture
		rec := httptest.NewRecorder()
		handler.Pay(rec, payRequest(t, flash, ""))

		// Assertions: the failure page names the step and offers a retry
		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Contains(t, rec.Body.String(), "capture payment")
		assert.Contains(t, rec.Body.String(), "Payment provider unavailable")
		assert.Contains(t, rec.Body.String(), "Retry Payment")

		// Execute: retry succeeds
		rec = httptest.NewRecorder()
		handler.Pay(rec, payRequest(t, flash, ""))

		// Assertions: no second order was created
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/orders/order-1", rec.Header().Get("Location"))
		assert.Equal(t, int32(1), atomic.LoadInt32(&orderCalls))
		assert.Equal(t, 2, captureAttempts)
	})

	t.Run("a rejected promo does not wedge later attempts with a corrected code", func(t *testing.T) {
		// Setup: the server rejects promo "EXPIRED" at order creation
		var orderCalls int32
		var promosSeen []string
		mux := checkoutAPIMux(t, &orderCalls, checkoutOverrides{
			createOrder: func(w http.ResponseWriter, r *http.Request) {
				var req models.CreateOrderRequest
				require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				promo := ""
				if req.PromoCode != nil {
					promo = *req.PromoCode
				}
				promosSeen = append(promosSeen, promo)
				if promo == "EXPIRED" {
					w.WriteHeader(http.StatusUnprocessableEntity)
					json.NewEncoder(w).Encode(map[string]string{"message": "This promo code has expired"})
					return
				}
				json.NewEncoder(w).Encode(models.Order{ID: "order-1", OrderNumber: 42, Status: models.OrderStatusPending, Total: 20})
			},
		})
		client, store, renderer, flash, cleanup := newTestEnv(t, mux)
		defer cleanup()
		require.NoError(t, store.SetToken("valid-token", nil))
		handler := NewCheckoutHandler(client, renderer, flash)

		// Execute: first attempt fails before any order exists
		rec := httptest.NewRecorder()
		handler.Pay(rec, payRequest(t, flash, "EXPIRED"))

		// Assertions: nothing to resume, so no retry affordance
		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Contains(t, rec.Body.String(), "This promo code has expired")
		assert.NotContains(t, rec.Body.String(), "Retry Payment")

		// Execute: second attempt with the corrected code
		rec = httptest.NewRecorder()
		handler.Pay(rec, payRequest(t, flash, "SAVE5"))

		// Assertions: the new code reached the server and checkout finished
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/orders/order-1", rec.Header().Get("Location"))
		assert.Equal(t, []string{"EXPIRED", "SAVE5"}, promosSeen)
	})

	t.Run("an order that never reaches Paid fails the confirm step", func(t *testing.T) {
		// Setup
		var orderCalls int32
		mux := checkoutAPIMux(t, &orderCalls, checkoutOverrides{
			getOrder: func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(models.Order{ID: "order-1", OrderNumber: 42, Status: models.OrderStatusPending})
			},
		})
		client, store, renderer, flash, cleanup := newTestEnv(t, mux)
		defer cleanup()
		require.NoError(t, store.SetToken("valid-token", nil))
		handler := NewCheckoutHandler(client, renderer, flash)

		// Execute
		rec := httptest.NewRecorder()
		handler.Pay(rec, payRequest(t, flash, ""))

		// Assertions
		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Contains(t, rec.Body.String(), "confirm order status")
	})

	t.Run("the process log shows every completed step", func(t *testing.T) {
		// Setup
		var orderCalls int32
		mux := checkoutAPIMux(t, &orderCalls, checkoutOverrides{
			getOrder: func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(models.Order{ID: "order-1", Status: models.OrderStatusPending})
			},
		})
		client, store, renderer, flash, cleanup := newTestEnv(t, mux)
		defer cleanup()
		require.NoError(t, store.SetToken("valid-token", nil))
		handler := NewCheckoutHandler(client, renderer, flash)

		// Execute
		rec := httptest.NewRecorder()
		handler.Pay(rec, payRequest(t, flash, ""))

		// Assertions
		body := rec.Body.String()
		assert.Contains(t, body, "Creating order...")
		assert.Contains(t, body, "Order created: #order-1")
		assert.Contains(t, body, "Creating payment intent...")
		assert.Contains(t, body, "Capturing payment...")
	})
}

func TestCheckoutHandler_CheckPromo(t *testing.T) {
	t.Run("a valid code shows the discounted total", func(t *testing.T) {
		// Setup
		var orderCalls int32
		mux := checkoutAPIMux(t, &orderCalls, checkoutOverrides{
			promo: func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(models.PromoCheckResult{IsValid: true, Discount: 5, TotalAfter: 15})
			},
		})
		client, store, renderer, flash, cleanup := newTestEnv(t, mux)
		defer cleanup()
		require.NoError(t, store.SetToken("valid-token", nil))
		handler := NewCheckoutHandler(client, renderer, flash)

		// Execute
		rec := httptest.NewRecorder()
		handler.CheckPromo(rec, postForm("/checkout/promo", url.Values{"promo": {"SAVE5"}}))

		// Assertions
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "discount $5.00")
		assert.Contains(t, rec.Body.String(), "new total $15.00")
	})

	t.Run("a rejected code shows the server's reason", func(t *testing.T) {
		// Setup
		var orderCalls int32
		mux := checkoutAPIMux(t, &orderCalls, checkoutOverrides{
			promo: func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(models.PromoCheckResult{IsValid: false, Reason: "This code has expired"})
			},
		})
		client, store, renderer, flash, cleanup := newTestEnv(t, mux)
		defer cleanup()
		require.NoError(t, store.SetToken("valid-token", nil))
		handler := NewCheckoutHandler(client, renderer, flash)

		// Execute
		rec := httptest.NewRecorder()
		handler.CheckPromo(rec, postForm("/checkout/promo", url.Values{"promo": {"EXPIRED"}}))

		// Assertions
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "This code has expired")
	})
}
