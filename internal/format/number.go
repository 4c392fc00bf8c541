package format

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/printfn/fend/internal/bignum"
	"github.com/printfn/fend/internal/real"
	"github.com/printfn/fend/internal/units"
)

// cycleSearchLimit bounds how many fractional digits renderRat will walk
// while hunting for a repeating remainder before giving up and falling back
// to a rounded approximation. Most unit conversions and transcendental
// approximations cycle (or terminate) long before this.
const cycleSearchLimit = 4000

// defaultSigFigs is spec.md §4.4's "10 significant digits" fallback for the
// auto style when a value doesn't terminate in a short decimal.
const defaultSigFigs = 10

func renderMagnitude(q units.Quantity, opts Options) (string, error) {
	c := q.Magnitude
	group := !opts.PlainNumber && q.BaseHint == 10
	if c.IsReal() {
		return renderRealApprox(c.Re, q.BaseHint, q.FmtHint, opts.NoApprox, group)
	}
	reStr, err := renderRealApprox(c.Re, q.BaseHint, q.FmtHint, opts.NoApprox, group)
	if err != nil {
		return "", err
	}
	imAbs := c.Im
	neg := imAbs.Value.IsNegative()
	imAbs.Value = imAbs.Value.Abs()
	imStr, err := renderRealApprox(imAbs, q.BaseHint, q.FmtHint, opts.NoApprox, group)
	if err != nil {
		return "", err
	}
	sign := "+"
	if neg {
		sign = "-"
	}
	if c.Re.Value.IsZero() && c.Re.Value.Exact {
		if neg {
			return "-" + imStr + "i", nil
		}
		return imStr + "i", nil
	}
	return fmt.Sprintf("%s %s %si", reStr, sign, imStr), nil
}

func renderRealApprox(a real.RealApprox, base int, hint bignum.Format, noApprox, group bool) (string, error) {
	s, truncated, err := renderRat(a.Value, hint, base, noApprox)
	if err != nil {
		return "", err
	}
	if group {
		s = groupThousands(s)
	}
	if truncated && hint.Style != bignum.DecimalPlaces && hint.Style != bignum.SigFigs &&
		hint.Style != bignum.Fraction && hint.Style != bignum.MixedFraction && !noApprox {
		if !strings.HasPrefix(s, "approx. ") {
			s = "approx. " + s
		}
	}
	return s, nil
}

// groupThousands inserts digit-group separators into a rendered decimal's
// integer part (spec.md §4.4, suppressed by @plain_number). Fraction-style
// output ("3/4") and non-decimal bases are left untouched.
func groupThousands(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	if strings.ContainsAny(s, "/") {
		return sign + s
	}
	intPart, rest := s, ""
	if dot := strings.IndexByte(s, '.'); dot >= 0 {
		intPart, rest = s[:dot], s[dot:]
	}
	if len(intPart) <= 3 || !isAllDigits(intPart) {
		return sign + s
	}
	if v, err := strconv.ParseInt(intPart, 10, 64); err == nil {
		return sign + humanize.Comma(v) + rest
	}
	var sb strings.Builder
	n := len(intPart)
	for i, r := range intPart {
		if i > 0 && (n-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(r)
	}
	return sign + sb.String() + rest
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// renderRat renders r per hint's style, reporting whether the digits shown
// were truncated from a longer (non-terminating or not-fully-cycle-found)
// expansion — the signal renderRealApprox uses to decide the `approx. `
// prefix, independent of whether r itself is an exact rational.
func renderRat(r bignum.BigRat, hint bignum.Format, base int, noApprox bool) (string, bool, error) {
	if base == 0 {
		base = 10
	}
	neg := r.IsNegative()
	abs := r.Abs()

	switch hint.Style {
	case bignum.Fraction:
		fracS, fracErr := renderFraction(abs, base)
		s, err := withSign(neg, fracS, fracErr)
		return s, false, err
	case bignum.MixedFraction:
		mixedS, mixedErr := renderMixedFraction(abs, base)
		s, err := withSign(neg, mixedS, mixedErr)
		return s, false, err
	case bignum.DecimalPlaces:
		s, err := renderFixedPlaces(r, base, hint.N)
		return s, false, err
	case bignum.SigFigs:
		s, err := renderSigFigsStyle(r, base, hint.N)
		return s, false, err
	case bignum.Exact, bignum.Float:
		s, truncated, err := renderFullOrCycle(abs, base, true)
		if err != nil {
			return "", false, err
		}
		out, err := withSign(neg, s, nil)
		return out, truncated, err
	default: // Auto
		if abs.IsInteger() {
			s, err := intWithPrefix(abs.Num.Magnitude(), base)
			if err != nil {
				return "", false, err
			}
			out, err := withSign(neg, s, nil)
			return out, false, err
		}
		full, terminates, err := tryFullDecimal(abs, base)
		if err != nil {
			return "", false, err
		}
		if terminates {
			out, err := withSign(neg, full, nil)
			return out, false, err
		}
		if noApprox {
			s, truncated, err := renderFullOrCycle(abs, base, true)
			if err != nil {
				return "", false, err
			}
			out, err := withSign(neg, s, nil)
			return out, truncated, err
		}
		s, err := renderFixedPlacesTruncated(abs, base, defaultSigFigs)
		if err != nil {
			return "", false, err
		}
		out, err := withSign(neg, s, nil)
		return out, true, err
	}
}

func withSign(neg bool, s string, err error) (string, error) {
	if err != nil {
		return "", err
	}
	if neg {
		return "-" + s, nil
	}
	return s, nil
}

// intWithPrefix renders an integer magnitude in base, attaching the
// 0b/0o/0x/B# prefix spec.md §4.4 requires for any non-decimal base.
func intWithPrefix(mag bignum.BigUInt, base int) (string, error) {
	digits, err := mag.String(base)
	if err != nil {
		return "", err
	}
	return basePrefix(base) + digits, nil
}

func basePrefix(base int) string {
	switch base {
	case 2:
		return "0b"
	case 8:
		return "0o"
	case 16:
		return "0x"
	case 10:
		return ""
	default:
		return fmt.Sprintf("%d#", base)
	}
}

// tryFullDecimal renders abs (non-negative) as a terminating decimal in
// base if it terminates within cycleSearchLimit digits.
func tryFullDecimal(abs bignum.BigRat, base int) (string, bool, error) {
	intPart, fracDigits, _, _, terminates, err := longDivide(abs.Num.Magnitude(), abs.Den, base, cycleSearchLimit)
	if err != nil {
		return "", false, err
	}
	if !terminates {
		return "", false, nil
	}
	if fracDigits == "" {
		return intPart, true, nil
	}
	return intPart + "." + fracDigits, true, nil
}

// renderFullOrCycle renders abs as a decimal with a parenthesised repeating
// cycle when the expansion doesn't terminate (spec.md §4.4 float style,
// e.g. `1/3 to float` => "0.(3)"). allowApproxFallback governs what happens
// if even cycleSearchLimit digits aren't enough to find the cycle (huge
// denominators): fall back to a truncated 10-significant-figure display.
// The bool result reports whether that fallback (a true truncation) fired.
func renderFullOrCycle(abs bignum.BigRat, base int, allowApproxFallback bool) (string, bool, error) {
	intPart, fracDigits, cycleStart, cycleLen, terminates, err := longDivide(abs.Num.Magnitude(), abs.Den, base, cycleSearchLimit)
	if err != nil {
		return "", false, err
	}
	if terminates {
		if fracDigits == "" {
			return intPart, false, nil
		}
		return intPart + "." + fracDigits, false, nil
	}
	if cycleStart >= 0 {
		lead := fracDigits[:cycleStart]
		cycle := fracDigits[cycleStart : cycleStart+cycleLen]
		if lead == "" {
			return intPart + ".(" + cycle + ")", false, nil
		}
		return intPart + "." + lead + "(" + cycle + ")", false, nil
	}
	if !allowApproxFallback {
		return intPart + "." + fracDigits + "...", true, nil
	}
	s, err := renderFixedPlacesTruncated(abs, base, defaultSigFigs)
	return s, true, err
}

// longDivide performs schoolbook long division of numAbs/den in base,
// tracking remainders to detect a repeating cycle. cycleStart/cycleLen are
// -1/0 when the expansion terminates, or when no cycle was found within
// limit digits (the caller then falls back to rounding).
func longDivide(numAbs, den bignum.BigUInt, base int, limit int) (intPart, fracDigits string, cycleStart, cycleLen int, terminates bool, err error) {
	intQ, rem, err := numAbs.DivMod(den)
	if err != nil {
		return "", "", 0, 0, false, err
	}
	intPart, err = intQ.String(base)
	if err != nil {
		return "", "", 0, 0, false, err
	}
	if rem.IsZero() {
		return intPart, "", -1, 0, true, nil
	}
	baseU := bignum.FromUint64(uint64(base))
	seen := make(map[string]int)
	var digits strings.Builder
	cur := rem
	pos := 0
	cycleStart, cycleLen = -1, 0
	for {
		if cur.IsZero() {
			terminates = true
			break
		}
		key, _ := cur.String(16)
		if p, ok := seen[key]; ok {
			cycleStart, cycleLen = p, pos-p
			break
		}
		if pos >= limit {
			break
		}
		seen[key] = pos
		cur = cur.Mul(baseU)
		var q bignum.BigUInt
		q, cur, err = cur.DivMod(den)
		if err != nil {
			return "", "", 0, 0, false, err
		}
		d, err := q.String(base)
		if err != nil {
			return "", "", 0, 0, false, err
		}
		digits.WriteString(d)
		pos++
	}
	return intPart, digits.String(), cycleStart, cycleLen, terminates, nil
}

func renderFraction(abs bignum.BigRat, base int) (string, error) {
	if abs.IsInteger() {
		return intWithPrefix(abs.Num.Magnitude(), base)
	}
	num, err := abs.Num.Magnitude().String(base)
	if err != nil {
		return "", err
	}
	den, err := abs.Den.String(base)
	if err != nil {
		return "", err
	}
	return basePrefix(base) + num + "/" + den, nil
}

// renderMixedFraction implements spec.md §4.4's mixed-fraction target: a
// whole part plus a proper fraction when |value| > 1, otherwise a plain
// fraction.
func renderMixedFraction(abs bignum.BigRat, base int) (string, error) {
	if abs.Cmp(bignum.IntFromInt64(1)) <= 0 {
		return renderFraction(abs, base)
	}
	whole, rem, err := abs.Num.Magnitude().DivMod(abs.Den)
	if err != nil {
		return "", err
	}
	if rem.IsZero() {
		return intWithPrefix(whole, base)
	}
	wholeStr, err := intWithPrefix(whole, base)
	if err != nil {
		return "", err
	}
	numStr, err := rem.String(base)
	if err != nil {
		return "", err
	}
	denStr, err := abs.Den.String(base)
	if err != nil {
		return "", err
	}
	return wholeStr + " " + numStr + "/" + denStr, nil
}

func basePow(base, n int) bignum.BigUInt {
	out := bignum.FromUint64(1)
	b := bignum.FromUint64(uint64(base))
	for i := 0; i < n; i++ {
		out = out.Mul(b)
	}
	return out
}

// renderFixedPlaces implements the `N dp` target and the auto style's
// approximate fallback: round to n digits after the point, ties to even.
func renderFixedPlaces(r bignum.BigRat, base int, n int) (string, error) {
	if n < 0 {
		n = 0
	}
	neg := r.IsNegative()
	abs := r.Abs()
	scaleRat := bignum.Int(bignum.SIntFromUInt(false, basePow(base, n)))
	scaled, err := abs.Mul(scaleRat)
	if err != nil {
		return "", err
	}
	rounded := real.RoundHalfToEven(scaled)
	s, err := rounded.Num.Magnitude().String(base)
	if err != nil {
		return "", err
	}
	if n == 0 {
		return withSign(neg, basePrefix(base)+s, nil)
	}
	for len(s) <= n {
		s = "0" + s
	}
	cut := len(s) - n
	out := basePrefix(base) + s[:cut] + "." + s[cut:]
	return withSign(neg, out, nil)
}

// renderFixedPlacesTruncated is renderFixedPlaces's truncating counterpart,
// used by the Auto style's non-terminating fallback:
// original_source/core/src/num/bigrat.rs computes a round_up correction but
// never applies it (`if round_up { // todo }`), so fend's auto fallback
// truncates to n fractional digits instead of rounding.
func renderFixedPlacesTruncated(r bignum.BigRat, base int, n int) (string, error) {
	if n < 0 {
		n = 0
	}
	neg := r.IsNegative()
	abs := r.Abs()
	scaleRat := bignum.Int(bignum.SIntFromUInt(false, basePow(base, n)))
	scaled, err := abs.Mul(scaleRat)
	if err != nil {
		return "", err
	}
	truncated, _, err := scaled.Num.Magnitude().DivMod(scaled.Den)
	if err != nil {
		return "", err
	}
	s, err := truncated.String(base)
	if err != nil {
		return "", err
	}
	if n == 0 {
		return withSign(neg, basePrefix(base)+s, nil)
	}
	for len(s) <= n {
		s = "0" + s
	}
	cut := len(s) - n
	out := basePrefix(base) + s[:cut] + "." + s[cut:]
	return withSign(neg, out, nil)
}

// renderSigFigsStyle implements the `N sf` target: round to n significant
// digits, ties to even, placing the decimal point according to the value's
// order of magnitude in base.
func renderSigFigsStyle(r bignum.BigRat, base int, n int) (string, error) {
	if n < 1 {
		n = 1
	}
	if r.IsZero() {
		return "0", nil
	}
	neg := r.IsNegative()
	abs := r.Abs()
	e := magnitudeOrder(abs, base)
	shift := n - 1 - e
	var scaled bignum.BigRat
	var err error
	if shift >= 0 {
		scaled, err = abs.Mul(bignum.Int(bignum.SIntFromUInt(false, basePow(base, shift))))
	} else {
		scaled, err = abs.Div(bignum.Int(bignum.SIntFromUInt(false, basePow(base, -shift))))
	}
	if err != nil {
		return "", err
	}
	rounded := real.RoundHalfToEven(scaled)
	s, err := rounded.Num.Magnitude().String(base)
	if err != nil {
		return "", err
	}
	eAdj := e + (len(s) - n)
	var out string
	switch {
	case eAdj >= len(s)-1:
		out = s + strings.Repeat("0", eAdj-(len(s)-1))
	case eAdj >= 0:
		out = s[:eAdj+1] + "." + s[eAdj+1:]
	default:
		out = "0." + strings.Repeat("0", -eAdj-1) + s
	}
	return withSign(neg, basePrefix(base)+out, nil)
}

// magnitudeOrder returns e such that abs is in [base^e, base^(e+1)).
func magnitudeOrder(abs bignum.BigRat, base int) int {
	one := bignum.IntFromInt64(1)
	baseRat := bignum.IntFromInt64(int64(base))
	if abs.Cmp(one) >= 0 {
		e := 0
		cur := abs
		for cur.Cmp(baseRat) >= 0 {
			cur, _ = cur.Div(baseRat)
			e++
		}
		return e
	}
	e := -1
	cur := abs
	for cur.Cmp(one) < 0 {
		cur, _ = cur.Mul(baseRat)
		e--
	}
	return e
}
