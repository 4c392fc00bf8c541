package format

import (
	"strings"

	"github.com/printfn/fend/internal/bignum"
	"github.com/printfn/fend/internal/ferr"
	"github.com/printfn/fend/internal/kind"
)

var onesWords = []string{
	"zero", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine",
	"ten", "eleven", "twelve", "thirteen", "fourteen", "fifteen", "sixteen",
	"seventeen", "eighteen", "nineteen",
}

var tensWords = []string{
	"", "", "twenty", "thirty", "forty", "fifty", "sixty", "seventy", "eighty", "ninety",
}

// scaleWords are the short-scale group names for each power-of-1000 group,
// extended past the commonly hard-coded vigintillion (10^63) to cover
// spec.md's upper bound of 10^66 - 1.
var scaleWords = []string{
	"", "thousand", "million", "billion", "trillion", "quadrillion",
	"quintillion", "sextillion", "septillion", "octillion", "nonillion",
	"decillion", "undecillion", "duodecillion", "tredecillion",
	"quattuordecillion", "quindecillion", "sexdecillion", "septendecillion",
	"octodecillion", "novemdecillion", "vigintillion", "unvigintillion",
}

// renderWords converts mag to English short-scale words (spec.md §4.4
// words target).
func renderWords(mag bignum.BigUInt) (string, error) {
	if mag.IsZero() {
		return "zero", nil
	}
	thousand := bignum.FromUint64(1000)
	var groups []uint64
	cur := mag
	for !cur.IsZero() {
		var rem bignum.BigUInt
		var err error
		cur, rem, err = cur.DivMod(thousand)
		if err != nil {
			return "", err
		}
		v, _ := rem.AsUint64()
		groups = append(groups, v)
	}
	if len(groups) > len(scaleWords) {
		return "", ferr.New(kind.OverflowGuard, "number is too large to spell out")
	}
	var parts []string
	for i := len(groups) - 1; i >= 0; i-- {
		if groups[i] == 0 {
			continue
		}
		w := threeDigitWords(int(groups[i]))
		if scaleWords[i] != "" {
			w += " " + scaleWords[i]
		}
		parts = append(parts, w)
	}
	return strings.Join(parts, " "), nil
}

func threeDigitWords(n int) string {
	if n < 20 {
		return onesWords[n]
	}
	if n < 100 {
		if n%10 == 0 {
			return tensWords[n/10]
		}
		return tensWords[n/10] + "-" + onesWords[n%10]
	}
	rest := n % 100
	if rest == 0 {
		return onesWords[n/100] + " hundred"
	}
	return onesWords[n/100] + " hundred and " + threeDigitWords(rest)
}
