package models

// Promo discount types.
const (
	PromoTypePercent = "Percent"
	PromoTypeAmount  = "Amount"
)

// PromoCheckRequest validates a promo code against a subtotal via
// POST /promo/check.
type PromoCheckRequest struct {
	Code     string  `json:"code"`
	Subtotal float64 `json:"subtotal"`
}

// PromoCheckResult is the server's verdict on a promo code. Ephemeral:
// computed per checkout attempt and never persisted client-side.
type PromoCheckResult struct {
	IsValid    bool    `json:"isValid"`
	Reason     string  `json:"reason,omitempty"`
	Code       string  `json:"code"`
	Type       string  `json:"type"`
	Value      float64 `json:"value"`
	Discount   float64 `json:"discount"`
	TotalAfter float64 `json:"totalAfter"`
	StartsAt   *string `json:"startsAt,omitempty"`
	EndsAt     *string `json:"endsAt,omitempty"`
	UsageLimit *int    `json:"usageLimit,omitempty"`
	UsedCount  int     `json:"usedCount"`
}
