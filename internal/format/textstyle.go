package format

import (
	"github.com/printfn/fend/internal/bignum"
	"github.com/printfn/fend/internal/ferr"
	"github.com/printfn/fend/internal/kind"
	"github.com/printfn/fend/internal/units"
)

// renderTextStyle implements the non-numeric conversion targets that live
// on value.Number.TextStyle rather than on bignum.FormatStyle (spec.md
// §4.4): roman, words, string/text.
func renderTextStyle(style string, q units.Quantity) (string, error) {
	switch style {
	case "roman":
		neg, mag, err := nonNegativeInteger(q)
		if err != nil {
			return "", err
		}
		if neg {
			return "", ferr.New(kind.DomainError, "roman numerals do not support negative numbers")
		}
		return renderRoman(mag)
	case "words":
		neg, mag, err := nonNegativeInteger(q)
		if err != nil {
			return "", err
		}
		s, err := renderWords(mag)
		if err != nil {
			return "", err
		}
		if neg {
			s = "negative " + s
		}
		return s, nil
	case "string", "text":
		if !q.Magnitude.IsReal() {
			return "", ferr.New(kind.DomainError, "%s conversion requires a real number", style)
		}
		s, _, err := renderRat(q.Magnitude.Re.Value, bignum.AutoFormat(), q.BaseHint, false)
		return s, err
	}
	return "", ferr.New(kind.InvalidFormat, "unknown text style %q", style)
}

func nonNegativeInteger(q units.Quantity) (neg bool, mag bignum.BigUInt, err error) {
	if !q.Magnitude.IsReal() {
		return false, bignum.BigUInt{}, ferr.New(kind.DomainError, "requires a real number")
	}
	r := q.Magnitude.Re.Value
	if !r.IsInteger() {
		return false, bignum.BigUInt{}, ferr.New(kind.DomainError, "requires an integer")
	}
	return r.IsNegative(), r.Num.Magnitude(), nil
}
