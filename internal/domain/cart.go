package domain

// CartLine is one product in the cart. Name, Price and ImageURL are the
// display snapshot captured when the product was added; the checkout summary
// re-resolves prices against the live catalog before an order is submitted.
type CartLine struct {
	ProductID string  `json:"id"`
	Name      string  `json:"name,omitempty"`
	Price     float64 `json:"price"`
	ImageURL  string  `json:"imageUrl,omitempty"`
	Quantity  int     `json:"quantity"`
}

type CartTotals struct {
	ItemCount int     `json:"itemCount"`
	Subtotal  float64 `json:"subtotal"`
}

// Totals sums quantities and snapshot prices over the given lines.
func Totals(lines []CartLine) CartTotals {
	var t CartTotals
	for _, line := range lines {
		t.ItemCount += line.Quantity
		t.Subtotal += line.Price * float64(line.Quantity)
	}
	return t
}

// CloneLines returns an independent copy so callers cannot mutate engine
// state through a returned slice.
func CloneLines(lines []CartLine) []CartLine {
	if lines == nil {
		return nil
	}
	out := make([]CartLine, len(lines))
	copy(out, lines)
	return out
}
