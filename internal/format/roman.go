package format

import (
	"golang.org/x/text/unicode/norm"

	"github.com/printfn/fend/internal/bignum"
	"github.com/printfn/fend/internal/ferr"
	"github.com/printfn/fend/internal/kind"
)

// romanTable lists the standard subtractive-notation symbols, largest
// value first, for converting a 1..3999 magnitude to numerals.
var romanTable = []struct {
	value  int
	symbol string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

// overlineMark, applied after a roman letter and NFC-normalised, is the
// classical vinculum notation for "times one thousand".
const overlineMark = "̅"

// renderRoman converts mag to a roman numeral (spec.md §4.4 roman target).
// Magnitudes of 4000 or more are rendered using the conventional
// thousands-overline extension: the numeral for n/1000 is overlined and
// followed by the numeral for n%1000. This is applied recursively, so a
// magnitude in the millions acquires a doubly-overlined numeral (a
// simplification of the classical system, which reserves a distinct
// myriad notation for that range).
func renderRoman(mag bignum.BigUInt) (string, error) {
	if mag.IsZero() {
		return "", ferr.New(kind.DomainError, "roman numerals cannot represent zero")
	}
	return romanRecursive(mag)
}

func romanRecursive(mag bignum.BigUInt) (string, error) {
	thousand := bignum.FromUint64(1000)
	if mag.Cmp(thousand) < 0 {
		n, ok := mag.AsUint64()
		if !ok {
			return "", ferr.New(kind.InternalInvariantViolation, "roman chunk out of range")
		}
		return romanBasic(int(n)), nil
	}
	q, r, err := mag.DivMod(thousand)
	if err != nil {
		return "", err
	}
	high, err := romanRecursive(q)
	if err != nil {
		return "", err
	}
	out := overline(high)
	if r.IsZero() {
		return out, nil
	}
	rv, _ := r.AsUint64()
	return out + romanBasic(int(rv)), nil
}

func romanBasic(n int) string {
	var sb []byte
	for _, e := range romanTable {
		for n >= e.value {
			sb = append(sb, e.symbol...)
			n -= e.value
		}
	}
	return string(sb)
}

func overline(s string) string {
	var sb []byte
	for _, r := range s {
		sb = append(sb, string(r)...)
		sb = append(sb, overlineMark...)
	}
	return norm.NFC.String(string(sb))
}
