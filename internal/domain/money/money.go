// Package money formats SEK amounts for user-facing messages.
package money

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.Swedish)

// SEK renders an amount with Swedish digit grouping and two decimals,
// e.g. 12500.5 -> "12 500,50 kr".
func SEK(amount float64) string {
	return printer.Sprintf("%.2f kr", amount)
}

// SEKWhole renders an amount without decimals, e.g. 12500 -> "12 500 kr".
func SEKWhole(amount float64) string {
	return printer.Sprintf("%.0f kr", amount)
}
