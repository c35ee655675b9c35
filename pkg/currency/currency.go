// Package currency renders amounts for display. Amounts are stored and
// computed as decimals; only HTTP responses carry the formatted string.
package currency

import "github.com/shopspring/decimal"

// Symbol is the Indian rupee sign used on bills
const Symbol = "₹"

// Format renders amount as "₹ 1234.50"
func Format(amount decimal.Decimal) string {
	return Symbol + " " + amount.StringFixed(2)
}
