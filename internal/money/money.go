// Package money formats rupiah amounts for display and parses the
// thousand-separated numbers users type into amount fields.
package money

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Prefix is written before every formatted amount.
const Prefix = "Rp "

var (
	printer = message.NewPrinter(language.Indonesian)

	billion  = decimal.NewFromInt(1_000_000_000)
	million  = decimal.NewFromInt(1_000_000)
	thousand = decimal.NewFromInt(1_000)
)

// Format renders amount with Indonesian digit grouping and no decimals,
// e.g. "Rp 1.500.000". Negative amounts are prefixed with "-".
func Format(amount decimal.Decimal) string {
	n := amount.Round(0).IntPart()
	if n < 0 {
		return "-" + Prefix + printer.Sprintf("%d", -n)
	}
	return Prefix + printer.Sprintf("%d", n)
}

// FormatInt is Format for whole rupiah values.
func FormatInt(amount int64) string {
	return Format(decimal.NewFromInt(amount))
}

// magnitude is one abbreviation step of FormatShort.
type magnitude struct {
	unit   decimal.Decimal
	places int32
	suffix string
}

// Largest first.
var magnitudes = []magnitude{
	{unit: billion, places: 1, suffix: "M"},
	{unit: million, places: 1, suffix: "jt"},
	{unit: thousand, places: 0, suffix: "rb"},
}

// FormatShort collapses large amounts to a magnitude suffix: "M" (miliar)
// and "jt" (juta) with one decimal digit, "rb" (ribu) with none. Amounts
// below one thousand after rounding use Format. A quotient that rounds up
// to 1000 moves to the next magnitude, so 999.999 renders as "Rp 1.0jt".
func FormatShort(amount decimal.Decimal) string {
	sign := ""
	abs := amount.Round(0)
	if abs.IsNegative() {
		sign = "-"
		abs = abs.Neg()
	}

	i := len(magnitudes)
	for j, m := range magnitudes {
		if abs.GreaterThanOrEqual(m.unit) {
			i = j
			break
		}
	}
	if i == len(magnitudes) {
		return Format(amount)
	}

	q := abs.Div(magnitudes[i].unit).Round(magnitudes[i].places)
	for i > 0 && q.GreaterThanOrEqual(thousand) {
		i--
		q = abs.Div(magnitudes[i].unit).Round(magnitudes[i].places)
	}
	return sign + Prefix + q.StringFixed(magnitudes[i].places) + magnitudes[i].suffix
}

// ParseUserInput keeps only the digits of s and parses them as an integer.
// It returns 0 when s has no digits or the value does not fit in an int64.
func ParseUserInput(s string) int64 {
	digits := digitsOf(s)
	if digits == "" {
		return 0
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// FormatUserInput regroups the digits of s with thousand separators as the
// user types, e.g. "1500000" -> "1.500.000". It returns "" when s has no
// usable digits.
func FormatUserInput(s string) string {
	digits := digitsOf(s)
	if digits == "" {
		return ""
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return ""
	}
	return printer.Sprintf("%d", n)
}

func digitsOf(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
