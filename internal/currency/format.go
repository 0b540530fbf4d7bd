// ABOUTME: Locale formatting of bolívar amounts
// ABOUTME: Venezuelan grouping and decimal separators with two fraction digits

package currency

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.MustParse("es-VE"))

// Format renders amount with es-VE separators and exactly two decimals
func Format(amount float64) string {
	return printer.Sprintf("%v", number.Decimal(amount,
		number.MinFractionDigits(2),
		number.MaxFractionDigits(2),
	))
}

