// Package real implements RealApprox: a BigRat paired with a precision
// budget, extended by transcendental operations (sqrt, ln, sin, ...) that
// compute a bounded-precision rational approximation and clear the
// exactness flag, per spec.md §3.
package real

import (
	"math"

	"github.com/printfn/fend/internal/bignum"
	"github.com/printfn/fend/internal/ferr"
	"github.com/printfn/fend/internal/kind"
)

// DefaultPrecisionBits is the working precision transcendental functions
// converge to when the caller hasn't requested a specific display
// precision. It comfortably covers the 10-significant-figure `auto` default
// (spec.md §4.4) plus guard digits.
const DefaultPrecisionBits = 200

// RealApprox is a BigRat plus the precision (in bits of working
// denominator) used to compute it, when inexact.
type RealApprox struct {
	Value     bignum.BigRat
	Precision int
}

// FromRat wraps an already-computed exact rational.
func FromRat(r bignum.BigRat) RealApprox {
	return RealApprox{Value: r, Precision: DefaultPrecisionBits}
}

func (a RealApprox) IsExact() bool { return a.Value.Exact }

func ratFromFloat64(f float64, precisionBits int) bignum.BigRat {
	// Scale f by 2^precisionBits, round to nearest integer numerator, giving
	// a rational with denominator 2^precisionBits — the standard
	// fixed-point encoding of an inexact binary approximation.
	scale := math.Ldexp(1, precisionBits)
	scaled := f * scale
	num := int64(math.Round(scaled))
	den := bignum.FromUint64(1)
	two := bignum.FromUint64(2)
	for i := 0; i < precisionBits; i++ {
		den = den.Mul(two)
	}
	r, _ := bignum.New(bignum.SIntFromInt64(num), den)
	r.Exact = false
	return r
}

func approxUnary(a RealApprox, f func(float64) float64) RealApprox {
	precision := a.Precision
	if precision <= 0 {
		precision = DefaultPrecisionBits
	}
	v := f(a.Value.AsFloat64())
	return RealApprox{Value: ratFromFloat64(v, precision), Precision: precision}
}

// Sqrt returns sqrt(a). A perfect-square exact rational stays exact;
// anything else becomes an inexact approximation.
func Sqrt(a RealApprox) (RealApprox, error) {
	if a.Value.IsNegative() {
		return RealApprox{}, ferr.New(kind.DomainError, "cannot compute sqrt of a negative number outside the complex domain")
	}
	if exact, ok := exactSqrt(a.Value); ok {
		return RealApprox{Value: exact, Precision: a.Precision}, nil
	}
	return approxUnary(a, math.Sqrt), nil
}

func exactSqrt(r bignum.BigRat) (bignum.BigRat, bool) {
	if !r.Exact {
		return bignum.BigRat{}, false
	}
	numRoot, numOk := isqrt(r.Num.Magnitude())
	denRoot, denOk := isqrt(r.Den)
	if !numOk || !denOk {
		return bignum.BigRat{}, false
	}
	out, err := bignum.New(bignum.SIntFromUInt(r.Num.IsNegative(), numRoot), denRoot)
	if err != nil {
		return bignum.BigRat{}, false
	}
	return out, true
}

// isqrt returns the exact integer square root of n and whether n is a
// perfect square, via Newton's method over BigUInt.
func isqrt(n bignum.BigUInt) (bignum.BigUInt, bool) {
	if n.IsZero() {
		return n, true
	}
	x := bignum.FromUint64(uint64(math.Sqrt(n.AsFloat64())) + 1)
	one := bignum.FromUint64(1)
	for i := 0; i < 64; i++ {
		if x.IsZero() {
			x = one
		}
		q, _, _ := n.DivMod(x)
		next, _, _ := x.Add(q).DivMod(bignum.FromUint64(2))
		if next.Cmp(x) == 0 {
			break
		}
		x = next
	}
	if x.Mul(x).Cmp(n) == 0 {
		return x, true
	}
	return bignum.BigUInt{}, false
}

// Cbrt returns the cube root of a.
func Cbrt(a RealApprox) RealApprox { return approxUnary(a, math.Cbrt) }

func Exp(a RealApprox) RealApprox { return approxUnary(a, math.Exp) }

func Ln(a RealApprox) (RealApprox, error) {
	if a.Value.Cmp(bignum.IntFromInt64(0)) <= 0 {
		return RealApprox{}, ferr.New(kind.DomainError, "cannot compute ln of a non-positive number")
	}
	return approxUnary(a, math.Log), nil
}

func Log10(a RealApprox) (RealApprox, error) {
	if a.Value.Cmp(bignum.IntFromInt64(0)) <= 0 {
		return RealApprox{}, ferr.New(kind.DomainError, "cannot compute log10 of a non-positive number")
	}
	return approxUnary(a, math.Log10), nil
}

func Log2(a RealApprox) (RealApprox, error) {
	if a.Value.Cmp(bignum.IntFromInt64(0)) <= 0 {
		return RealApprox{}, ferr.New(kind.DomainError, "cannot compute log2 of a non-positive number")
	}
	return approxUnary(a, math.Log2), nil
}

func Sin(a RealApprox) RealApprox  { return approxUnary(a, math.Sin) }
func Cos(a RealApprox) RealApprox  { return approxUnary(a, math.Cos) }
func Tan(a RealApprox) RealApprox  { return approxUnary(a, math.Tan) }
func Sinh(a RealApprox) RealApprox { return approxUnary(a, math.Sinh) }
func Cosh(a RealApprox) RealApprox { return approxUnary(a, math.Cosh) }
func Tanh(a RealApprox) RealApprox { return approxUnary(a, math.Tanh) }

func Asinh(a RealApprox) RealApprox { return approxUnary(a, math.Asinh) }
func Acosh(a RealApprox) (RealApprox, error) {
	if a.Value.Cmp(bignum.IntFromInt64(1)) < 0 {
		return RealApprox{}, ferr.New(kind.DomainError, "acosh is only defined for x >= 1")
	}
	return approxUnary(a, math.Acosh), nil
}
func Atanh(a RealApprox) (RealApprox, error) {
	if a.Value.Abs().Cmp(bignum.IntFromInt64(1)) >= 0 {
		return RealApprox{}, ferr.New(kind.DomainError, "atanh is only defined for -1 < x < 1")
	}
	return approxUnary(a, math.Atanh), nil
}

func Asin(a RealApprox) (RealApprox, error) {
	if a.Value.Abs().Cmp(bignum.IntFromInt64(1)) > 0 {
		return RealApprox{}, ferr.New(kind.DomainError, "asin is only defined for -1 <= x <= 1")
	}
	return approxUnary(a, math.Asin), nil
}

func Acos(a RealApprox) (RealApprox, error) {
	if a.Value.Abs().Cmp(bignum.IntFromInt64(1)) > 0 {
		return RealApprox{}, ferr.New(kind.DomainError, "acos is only defined for -1 <= x <= 1")
	}
	return approxUnary(a, math.Acos), nil
}

func Atan(a RealApprox) RealApprox { return approxUnary(a, math.Atan) }

func Floor(a RealApprox) RealApprox {
	return RealApprox{Value: floorRat(a.Value), Precision: a.Precision}
}

func Ceil(a RealApprox) RealApprox {
	f := floorRat(a.Value)
	if f.Cmp(a.Value) == 0 {
		return RealApprox{Value: f, Precision: a.Precision}
	}
	one := bignum.IntFromInt64(1)
	out, _ := f.Add(one)
	return RealApprox{Value: out, Precision: a.Precision}
}

func floorRat(r bignum.BigRat) bignum.BigRat {
	if r.IsInteger() {
		return r
	}
	q, rem, _ := r.Num.Magnitude().DivMod(r.Den)
	qs := bignum.SIntFromUInt(r.Num.IsNegative(), q)
	out := bignum.Int(qs)
	if r.Num.IsNegative() && !rem.IsZero() {
		one := bignum.IntFromInt64(1)
		out, _ = out.Sub(one)
	}
	return out
}

// RoundHalfToEven rounds r to the nearest integer, ties to even, matching
// the N dp / N sf truncate-then-round rule in spec.md §4.4.
func RoundHalfToEven(r bignum.BigRat) bignum.BigRat {
	floor := floorRat(r)
	diff, _ := r.Sub(floor)
	half, _ := bignum.FromInt64Frac(1, 2)
	cmp := diff.Cmp(half)
	one := bignum.IntFromInt64(1)
	switch {
	case cmp < 0:
		return floor
	case cmp > 0:
		out, _ := floor.Add(one)
		return out
	default:
		// exactly .5: round to even
		q, _, _ := floor.Num.Magnitude().DivMod(bignum.FromUint64(2))
		_ = q
		floorInt, _ := floor.Num.Magnitude().AsUint64()
		if floorInt%2 == 0 {
			return floor
		}
		out, _ := floor.Add(one)
		return out
	}
}

// Pow raises a to an exact rational power e; used when the exponent is not
// a plain integer and/or the base is negative (complex promotion is the
// caller's responsibility — see internal/cplx).
func Pow(a RealApprox, e RealApprox) (RealApprox, error) {
	if e.Value.IsInteger() {
		n, ok := e.Value.Num.AsInt64()
		if ok {
			r, err := a.Value.PowInt(n)
			if err != nil {
				return RealApprox{}, err
			}
			return RealApprox{Value: r, Precision: a.Precision}, nil
		}
	}
	if a.Value.Cmp(bignum.IntFromInt64(0)) < 0 {
		return RealApprox{}, ferr.New(kind.DomainError, "negative base with non-integer exponent requires complex promotion")
	}
	return approxUnary(a, func(x float64) float64 {
		return math.Pow(x, e.Value.AsFloat64())
	}), nil
}
