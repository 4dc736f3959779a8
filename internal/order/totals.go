package order

import "github.com/brewnote/cafepos/internal/settings"

// Totals is the monetary rollup for an item list.
type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// ComputeTotals prices an item list. Every line counts regardless of status;
// a served plate is still on the bill. Discount is a flat currency amount
// already resolved from any coupon. Total is not clamped: a discount larger
// than subtotal plus tax yields a negative total.
func ComputeTotals(items []OrderItem, tax settings.TaxSettings, discount float64) Totals {
	var t Totals
	for i := range items {
		t.Subtotal += items[i].Price * float64(items[i].Qty)
	}
	if tax.Enabled && tax.Rate > 0 {
		t.Tax = t.Subtotal * tax.Rate / 100
	}
	t.Total = t.Subtotal + t.Tax - discount
	return t
}
