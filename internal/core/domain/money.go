package domain

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultCurrency is applied when an invoice does not name one.
const DefaultCurrency = "USD"

var moneyPrinter = message.NewPrinter(language.AmericanEnglish)

// FormatCurrency renders amount the way an en-US locale does: symbol, grouped
// digits and the currency's standard number of decimals ("$2,500.00",
// "¥1,800"). An empty code means USD; an unrecognised code is printed as a
// prefix with two decimals.
func FormatCurrency(amount decimal.Decimal, code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		code = DefaultCurrency
	}

	unit, err := currency.ParseISO(code)
	if err != nil {
		return code + " " + signOf(amount, 2) + groupDigits(amount, 2)
	}

	scale, _ := currency.Standard.Rounding(unit)
	symbol := moneyPrinter.Sprint(currency.Symbol(unit))
	return signOf(amount, scale) + symbol + groupDigits(amount, scale)
}

func signOf(amount decimal.Decimal, scale int) string {
	if amount.Round(int32(scale)).IsNegative() {
		return "-"
	}
	return ""
}

// groupDigits works on the digit string so amounts of any size are grouped.
func groupDigits(amount decimal.Decimal, scale int) string {
	fixed := amount.Abs().StringFixed(int32(scale))
	whole, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	b.Grow(len(whole) + len(whole)/3)
	for i, digit := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	grouped := b.String()
	if frac == "" {
		return grouped
	}
	return grouped + "." + frac
}
