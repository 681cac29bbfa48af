package domain

// ShippingOption is one quoted shipping method. Options are never persisted;
// they are recomputed whenever the destination or the cart changes.
type ShippingOption struct {
	Name    string  `json:"name"`
	Price   float64 `json:"price"`
	EtaDays int     `json:"etaDays"`
}
