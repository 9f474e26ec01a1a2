package models

// PaymentIntent is the server record representing an authorized but not
// yet captured payment, created by POST /payments/{orderId}/intent.
type PaymentIntent struct {
	PaymentID string  `json:"paymentId"`
	OrderID   string  `json:"orderId"`
	Amount    float64 `json:"amount"`
	Status    string  `json:"status"`
	CreatedAt string  `json:"createdAt,omitempty"`
}

// PaymentDetails is the captured payment returned by POST /payments/{paymentId}/capture.
type PaymentDetails struct {
	ID                string  `json:"id"`
	OrderID           string  `json:"orderId"`
	Amount            float64 `json:"amount"`
	Status            string  `json:"status"`
	Provider          string  `json:"provider"`
	ProviderReference string  `json:"providerReference,omitempty"`
	PaidAt            *string `json:"paidAt,omitempty"`
	CreatedAt         string  `json:"createdAt,omitempty"`
}
