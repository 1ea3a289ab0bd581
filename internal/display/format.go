// Package display formats engine numbers for people: currency with thousands
// separators and percentages that fall back to "N/A" when undefined.
package display

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const NotAvailable = "N/A"

var printer = message.NewPrinter(language.AmericanEnglish)

// Currency formats whole dollars, e.g. 294000 -> "$294,000"
func Currency(amount int64) string {
	if amount < 0 {
		return printer.Sprintf("-$%d", -amount)
	}
	return printer.Sprintf("$%d", amount)
}

// Percent formats an ROI with one decimal, or N/A when it is undefined
func Percent(value float64, defined bool) string {
	if !defined {
		return NotAvailable
	}
	return printer.Sprintf("%.1f%%", value)
}
