package models

// Order statuses as reported by the API. Status transitions happen
// server-side only; the client never assumes a transition it has not
// re-fetched.
const (
	OrderStatusPending   = "Pending"
	OrderStatusPaid      = "Paid"
	OrderStatusCancelled = "Cancelled"
)

// Order is the full order view returned by POST /orders and GET /orders/{id}.
type Order struct {
	ID          string          `json:"id"`
	OrderNumber int             `json:"orderNumber"`
	Status      string          `json:"status"`
	Subtotal    float64         `json:"subtotal"`
	Discount    float64         `json:"discount,omitempty"`
	Total       float64         `json:"total"`
	Items       []OrderItem     `json:"items"`
	Payment     *PaymentDetails `json:"payment,omitempty"`
	CreatedAt   string          `json:"createdAt,omitempty"`
}

// OrderItem is one purchased line within an order.
type OrderItem struct {
	TicketTypeID string  `json:"ticketTypeId"`
	TicketName   string  `json:"ticketName,omitempty"`
	Quantity     int     `json:"quantity"`
	UnitPrice    float64 `json:"unitPrice"`
	LineTotal    float64 `json:"lineTotal"`
}

// OrderListItem is one row in the order history.
type OrderListItem struct {
	ID          string  `json:"id"`
	OrderNumber int     `json:"orderNumber"`
	Status      string  `json:"status"`
	Total       float64 `json:"total"`
	CreatedAt   string  `json:"createdAt"`
}

// PageResponse is the paged envelope used by GET /orders/mine.
type PageResponse[T any] struct {
	Items    []T `json:"items"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

// CreateOrderRequest is the body for POST /orders. The order is built
// server-side from the current cart; the promo code is the only input.
type CreateOrderRequest struct {
	PromoCode *string `json:"promoCode"`
}
