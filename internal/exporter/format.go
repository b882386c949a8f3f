package exporter

import (
	"fmt"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// formatFloat formats a float64 value for CSV output with exactly 2 decimal places
func formatFloat(f float64) string {
	return fmt.Sprintf("%.2f", f)
}

// formatInt formats an int value for CSV output
func formatInt(i int) string {
	return strconv.Itoa(i)
}

// formatPercent renders a 0-1 rate as a percentage with 2 decimals
func formatPercent(rate float64) string {
	return fmt.Sprintf("%.2f%%", rate*100)
}

// formatMoney renders an amount with thousands separators and 2 decimals
func formatMoney(v float64) string {
	return printer.Sprintf("%.2f", v)
}

// formatCount renders a count with thousands separators
func formatCount(n int) string {
	return printer.Sprintf("%d", n)
}
