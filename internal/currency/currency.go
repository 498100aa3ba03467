// Package currency converts canonical USD amounts into display amounts.
//
// Every stored amount in the storefront is USD; VES exists only at the
// presentation boundary.
package currency

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Currency is a display currency.
type Currency string

const (
	USD Currency = "USD"
	VES Currency = "VES"
)

// DefaultRateVES is the bolívares per dollar rate the storefront ships with.
const DefaultRateVES = 38.5

// Symbols maps each currency to its price prefix.
var Symbols = map[Currency]string{
	USD: "$",
	VES: "Bs.",
}

// All returns the supported currencies in display order.
func All() []Currency {
	return []Currency{USD, VES}
}

func (c Currency) Valid() bool {
	return c == USD || c == VES
}

// Parse validates a currency code. An empty string selects USD.
func Parse(s string) (Currency, error) {
	switch Currency(s) {
	case "", USD:
		return USD, nil
	case VES:
		return VES, nil
	default:
		return "", fmt.Errorf("currency: unsupported currency %q", s)
	}
}

// Converter turns USD amounts into amounts and strings in a display currency
// using a fixed exchange rate.
type Converter struct {
	rate    decimal.Decimal
	printer *message.Printer
}

// NewConverter builds a Converter with rateVES bolívares per dollar.
func NewConverter(rateVES float64) *Converter {
	return &Converter{
		rate:    decimal.NewFromFloat(rateVES),
		printer: message.NewPrinter(language.English),
	}
}

// Rate returns the configured VES rate.
func (c *Converter) Rate() float64 {
	return c.rate.InexactFloat64()
}

// Convert returns amountUSD expressed in cur.
func (c *Converter) Convert(amountUSD float64, cur Currency) float64 {
	if cur != VES {
		return amountUSD
	}
	return decimal.NewFromFloat(amountUSD).Mul(c.rate).InexactFloat64()
}

// Format renders amountUSD in cur. USD keeps two decimals without grouping
// ("$100.00"); VES is rounded to the nearest unit and grouped ("Bs. 3,850").
func (c *Converter) Format(amountUSD float64, cur Currency) string {
	amount := decimal.NewFromFloat(amountUSD)
	if cur != VES {
		return Symbols[USD] + amount.StringFixed(2)
	}
	units := amount.Mul(c.rate).Round(0).IntPart()
	return Symbols[VES] + " " + c.printer.Sprintf("%d", units)
}
