package view

import (
	"math"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatNumber renders v with thousands separators, keeping two decimals
// only when v is fractional.
func FormatNumber(v float64) string {
	if v == math.Trunc(v) {
		return printer.Sprintf("%.0f", v)
	}
	return printer.Sprintf("%.2f", v)
}

// FormatMYR renders an amount as "1,234,000 MYR".
func FormatMYR(d decimal.Decimal) string {
	f, _ := d.Round(0).Float64()
	return printer.Sprintf("%.0f MYR", f)
}

// FormatKg renders an emission amount as "3,220 kg CO2".
func FormatKg(v float64) string {
	return FormatNumber(v) + " kg CO2"
}
