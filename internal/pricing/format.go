package pricing

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var copPrinter = message.NewPrinter(language.MustParse("es-CO"))

// FormatCOP renders an amount in Colombian pesos without decimals, e.g. "$ 12.500".
func FormatCOP(amount float64) string {
	return "$ " + copPrinter.Sprint(number.Decimal(amount, number.MaxFractionDigits(0)))
}

// FormatQuantity renders a quantity with at most two decimals.
func FormatQuantity(quantity float64) string {
	return copPrinter.Sprint(number.Decimal(quantity, number.MaxFractionDigits(2)))
}
