// Package format turns quote values into display strings.
package format

import (
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Currency rounds amount to the cent (half away from zero) and renders it
// with exactly two decimals, without symbol or grouping.
//
// Rounding happens on the binary float, so inputs such as 2.005 land on
// whichever side their float64 representation falls.
func Currency(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return strconv.FormatFloat(amount, 'f', 2, 64)
	}
	// decimal has no negative zero, so -0.001 renders "0.00"
	return decimal.NewFromFloat(amount * 100).Round(0).Shift(-2).StringFixed(2)
}

// CamelToSentenceCase turns an identifier such as "afterDelivery" into
// "After delivery".
func CamelToSentenceCase(id string) string {
	if id == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(id) + 4)
	for i, r := range id {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteByte(' ')
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}

	out := b.String()
	first, size := utf8.DecodeRuneInString(out)
	return string(unicode.ToUpper(first)) + out[size:]
}
