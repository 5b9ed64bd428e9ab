package loader

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/iwvelando/peso-dashboard/pkg/constants"
	"github.com/shopspring/decimal"
)

// NumberLocale selects how numeric cells are written in a source file.
type NumberLocale string

// Supported number locales.
const (
	Standard     NumberLocale = constants.NumberLocaleStandard
	DecimalComma NumberLocale = constants.NumberLocaleDecimalComma
)

// Thousands separators are only accepted in groups of three digits.
var (
	standardGrouped     = regexp.MustCompile(`^[+-]?\d{1,3}(,\d{3})+(\.\d+)?$`)
	decimalCommaGrouped = regexp.MustCompile(`^[+-]?\d{1,3}(\.\d{3})+(,\d+)?$`)
)

// ParseNumber converts a numeric cell to float64. An empty cell is absent and
// returns NaN without error.
func ParseNumber(text string, locale NumberLocale) (float64, error) {
	d, ok, err := parseDecimal(text, locale)
	if err != nil || !ok {
		return math.NaN(), err
	}
	return d.InexactFloat64(), nil
}

// parseDecimal returns ok=false for an empty cell.
func parseDecimal(text string, locale NumberLocale) (decimal.Decimal, bool, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return decimal.Decimal{}, false, nil
	}

	switch locale {
	case DecimalComma:
		if strings.Contains(s, ".") {
			if !decimalCommaGrouped.MatchString(s) {
				return decimal.Decimal{}, false, fmt.Errorf("not a number")
			}
			s = strings.ReplaceAll(s, ".", "")
		}
		s = strings.Replace(s, ",", ".", 1)
	case Standard, "":
		if strings.Contains(s, ",") {
			if !standardGrouped.MatchString(s) {
				return decimal.Decimal{}, false, fmt.Errorf("not a number")
			}
			s = strings.ReplaceAll(s, ",", "")
		}
	default:
		return decimal.Decimal{}, false, fmt.Errorf("unknown number locale %q", locale)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false, fmt.Errorf("not a number")
	}
	return d, true, nil
}

// FormatNumber renders v in the given locale with the shortest exact decimal
// representation, so that ParseNumber(FormatNumber(v, l), l) == v.
// NaN renders as the empty cell.
func FormatNumber(v float64, locale NumberLocale) string {
	if math.IsNaN(v) {
		return ""
	}
	s := decimal.NewFromFloat(v).String()
	if locale != DecimalComma {
		return s
	}

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, fracPart, hasFrac := strings.Cut(s, ".")

	var b strings.Builder
	b.WriteString(sign)
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(digit)
	}
	if hasFrac {
		b.WriteByte(',')
		b.WriteString(fracPart)
	}
	return b.String()
}
