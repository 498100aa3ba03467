package checkout

import "github.com/shopspring/decimal"

// Fixed pricing policy, in USD.
var (
	FreeShippingThreshold = decimal.NewFromInt(100)
	FlatShipping          = decimal.NewFromInt(10)
	TaxRate               = decimal.RequireFromString("0.07")
)

// Totals are the priced amounts of a cart, all in USD.
type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// CalculateTotals prices a subtotal. Shipping is free strictly above the
// threshold; tax is rounded to cents.
func CalculateTotals(subtotal float64) Totals {
	sub := decimal.NewFromFloat(subtotal)
	shipping := FlatShipping
	if sub.GreaterThan(FreeShippingThreshold) {
		shipping = decimal.Zero
	}
	tax := sub.Mul(TaxRate).Round(2)
	return Totals{
		Subtotal: subtotal,
		Shipping: shipping.InexactFloat64(),
		Tax:      tax.InexactFloat64(),
		Total:    sub.Add(shipping).Add(tax).Round(2).InexactFloat64(),
	}
}
