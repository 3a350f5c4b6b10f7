// Package renderer turns engine results into markdown, CSV and JSON for the
// command line.
package renderer

import (
	"github.com/shopspring/decimal"

	"github.com/hmoreau/netvalue"
)

// money formats an amount in the display currency.
func money(d decimal.Decimal, currency string) string {
	return netvalue.M(d, currency).String()
}

// moneyPtr formats an optional amount, "-" when absent.
func moneyPtr(d *decimal.Decimal, currency string) string {
	if d == nil {
		return "-"
	}
	return money(*d, currency)
}

// pct formats an optional percentage, "-" when absent.
func pct(d *decimal.Decimal) string {
	if d == nil {
		return "-"
	}
	return d.StringFixed(2) + "%"
}
