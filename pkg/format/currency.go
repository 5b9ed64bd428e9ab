// Package format renders values for human-readable output.
package format

import (
	"math"

	"github.com/Rhymond/go-money"
	"github.com/iwvelando/peso-dashboard/pkg/mathutil"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Currency returns amount formatted in the given ISO currency, e.g.
// Currency(1234.5, "USD") == "$1,234.50". Absent values render as "-".
func Currency(amount float64, code string) string {
	if math.IsNaN(amount) {
		return "-"
	}
	fraction := 2
	if cur := money.GetCurrency(code); cur != nil {
		fraction = cur.Fraction
	}
	// NewFromFloat truncates; round to the currency's minor unit instead.
	return money.New(mathutil.ToMinorUnits(amount, fraction), code).Display()
}

// Percent returns v as a signed percentage with one decimal, e.g. "+12.5%".
// Absent values render as "-".
func Percent(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return printer.Sprintf("%+.1f%%", v)
}

// Number returns v with thousands separators and the given number of decimals.
// Absent values render as "-".
func Number(v float64, decimals int) string {
	if math.IsNaN(v) {
		return "-"
	}
	return printer.Sprintf("%.*f", decimals, v)
}
