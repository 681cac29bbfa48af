package domain

import "time"

type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

type OrderItem struct {
	ProductID   string  `json:"id"`
	ProductName string  `json:"name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	Subtotal    float64 `json:"subtotal"`
}

// OrderPayload is the body sent to the payment-preference endpoint.
type OrderPayload struct {
	Customer        Customer       `json:"customer"`
	ShippingAddress Address        `json:"shippingAddress"`
	Items           []OrderItem    `json:"items"`
	Shipping        ShippingOption `json:"shipping"`
	Subtotal        float64        `json:"subtotal"`
	Total           float64        `json:"total"`
}

// OrderSummary is the recomputed view shown before submission. Total is
// always derived from the current items and selection, never stored.
type OrderSummary struct {
	Items      []OrderItem     `json:"items"`
	Subtotal   float64         `json:"subtotal"`
	Shipping   *ShippingOption `json:"shipping,omitempty"`
	Total      float64         `json:"total"`
	ComputedAt time.Time       `json:"computedAt"`
}
