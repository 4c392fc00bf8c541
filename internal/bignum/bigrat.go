package bignum

import (
	"strings"

	"github.com/printfn/fend/internal/ferr"
	"github.com/printfn/fend/internal/kind"
)

// BigRat is an exact (or bounded-precision-approximate) rational number:
// numerator/denominator in lowest terms, plus the display hints spec.md §3
// attaches to every rational (base hint, format hint) and the exactness
// flag transcendental operations clear.
type BigRat struct {
	Num   BigSInt
	Den   BigUInt // always >= 1
	Exact bool
	Base  int // 2..36, default 10
	Fmt   Format
}

// Int builds an exact integer rational.
func Int(n BigSInt) BigRat {
	return BigRat{Num: n, Den: FromUint64(1), Exact: true, Base: 10, Fmt: AutoFormat()}
}

// IntFromInt64 is a convenience constructor for small exact integers.
func IntFromInt64(n int64) BigRat { return Int(SIntFromInt64(n)) }

// New builds a normalised exact rational num/den.
func New(num BigSInt, den BigUInt) (BigRat, error) {
	if den.IsZero() {
		return BigRat{}, ferr.New(kind.DivisionByZero, "division by zero")
	}
	return BigRat{Num: num, Den: den, Exact: true, Base: 10, Fmt: AutoFormat()}.normalize(), nil
}

func (r BigRat) normalize() BigRat {
	if r.Num.IsZero() {
		r.Num = BigSInt{}
		r.Den = FromUint64(1)
		return r
	}
	g := Gcd(r.Num.Magnitude(), r.Den)
	if !g.IsZero() && g.Cmp(FromUint64(1)) != 0 {
		num, _, _ := r.Num.Magnitude().DivMod(g)
		den, _, _ := r.Den.DivMod(g)
		r.Num = SIntFromUInt(r.Num.IsNegative(), num)
		r.Den = den
	}
	return r
}

func (r BigRat) IsZero() bool     { return r.Num.IsZero() }
func (r BigRat) IsInteger() bool  { return r.Den.Cmp(FromUint64(1)) == 0 }
func (r BigRat) IsNegative() bool { return r.Num.IsNegative() }

func (r BigRat) withMeta(from BigRat) BigRat {
	r.Exact = r.Exact && from.Exact
	r.Base = from.Base
	r.Fmt = from.Fmt
	return r
}

// Add returns r + o, requiring a common denominator cross-multiplication.
func (r BigRat) Add(o BigRat) (BigRat, error) {
	num := r.Num.Mul(SIntFromUInt(false, o.Den)).Add(o.Num.Mul(SIntFromUInt(false, r.Den)))
	den := r.Den.Mul(o.Den)
	out, err := New(num, den)
	if err != nil {
		return BigRat{}, err
	}
	out.Exact = r.Exact && o.Exact
	out.Base, out.Fmt = r.Base, r.Fmt
	return out, nil
}

func (r BigRat) Neg() BigRat {
	out := r
	out.Num = r.Num.Neg()
	return out
}

func (r BigRat) Sub(o BigRat) (BigRat, error) { return r.Add(o.Neg()) }

// Mul returns r * o.
func (r BigRat) Mul(o BigRat) (BigRat, error) {
	num := r.Num.Mul(o.Num)
	den := r.Den.Mul(o.Den)
	out, err := New(num, den)
	if err != nil {
		return BigRat{}, err
	}
	out.Exact = r.Exact && o.Exact
	out.Base, out.Fmt = r.Base, r.Fmt
	return out, nil
}

// Div returns r / o.
func (r BigRat) Div(o BigRat) (BigRat, error) {
	if o.IsZero() {
		return BigRat{}, ferr.New(kind.DivisionByZero, "division by zero")
	}
	num := r.Num.Mul(SIntFromUInt(o.Num.IsNegative(), o.Den))
	den := r.Den.Mul(o.Num.Magnitude())
	out, err := New(num, den)
	if err != nil {
		return BigRat{}, err
	}
	out.Exact = r.Exact && o.Exact
	out.Base, out.Fmt = r.Base, r.Fmt
	return out, nil
}

// Cmp compares the mathematical value of r and o.
func (r BigRat) Cmp(o BigRat) int {
	lhs := r.Num.Mul(SIntFromUInt(false, o.Den))
	rhs := o.Num.Mul(SIntFromUInt(false, r.Den))
	return lhs.Cmp(rhs)
}

// Abs returns the absolute value.
func (r BigRat) Abs() BigRat {
	out := r
	out.Num = r.Num.Abs()
	return out
}

// PowInt raises r to a non-negative or negative integer power.
func (r BigRat) PowInt(n int64) (BigRat, error) {
	if n == 0 {
		return IntFromInt64(1), nil
	}
	neg := n < 0
	if neg {
		n = -n
	}
	base := r
	result := IntFromInt64(1)
	for n > 0 {
		if n&1 == 1 {
			var err error
			result, err = result.Mul(base)
			if err != nil {
				return BigRat{}, err
			}
		}
		var err error
		base, err = base.Mul(base)
		if err != nil {
			return BigRat{}, err
		}
		n >>= 1
	}
	if neg {
		return IntFromInt64(1).Div(result)
	}
	return result, nil
}

// AsFloat64 converts to the nearest float64 (used only to seed transcendental
// approximation, never for exact arithmetic).
func (r BigRat) AsFloat64() float64 {
	if r.Den.Cmp(FromUint64(1)) == 0 {
		return r.Num.AsFloat64()
	}
	return r.Num.AsFloat64() / r.Den.AsFloat64()
}

// FromInt64Frac builds an exact rational num/den from machine integers.
func FromInt64Frac(num, den int64) (BigRat, error) {
	r, err := New(SIntFromInt64(num), FromUint64(uint64(absInt64(den))))
	if err != nil {
		return BigRat{}, err
	}
	return r.withSign(den < 0)
}

func (r BigRat) withSign(neg bool) (BigRat, error) {
	if neg {
		r.Num = r.Num.Neg()
	}
	return r, nil
}

func absInt64(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}

// ParseDecimal parses a decimal-literal body (digits, optional '.', optional
// recurring span already located by the lexer) in the given base into an
// exact BigRat. intPart/fracPart are digit runs in `base`; recurring, if
// non-empty, is the repeating digit run of fracPart's tail.
func ParseDecimal(intPart, fracPart, recurring string, base int) (BigRat, error) {
	ip, err := parseOrZero(intPart, base)
	if err != nil {
		return BigRat{}, err
	}
	result := Int(SIntFromUInt(false, ip))

	nonRecurringFrac := fracPart
	if recurring != "" && strings.HasSuffix(fracPart, recurring) {
		nonRecurringFrac = fracPart[:len(fracPart)-len(recurring)]
	}
	if nonRecurringFrac != "" {
		fp, err := Parse(nonRecurringFrac, base)
		if err != nil {
			return BigRat{}, err
		}
		den := pow(uint64(base), len(nonRecurringFrac))
		frac, err := New(SIntFromUInt(false, fp), den)
		if err != nil {
			return BigRat{}, err
		}
		result, err = result.Add(frac)
		if err != nil {
			return BigRat{}, err
		}
	}
	if recurring != "" {
		rp, err := Parse(recurring, base)
		if err != nil {
			return BigRat{}, err
		}
		denDigits := pow(uint64(base), len(recurring))
		nines := denDigits.Sub(FromUint64(1))
		scale := pow(uint64(base), len(nonRecurringFrac))
		recFrac, err := New(SIntFromUInt(false, rp), nines.Mul(scale))
		if err != nil {
			return BigRat{}, err
		}
		result, err = result.Add(recFrac)
		if err != nil {
			return BigRat{}, err
		}
	}
	result.Base = base
	return result, nil
}

func parseOrZero(s string, base int) (BigUInt, error) {
	if s == "" {
		return BigUInt{}, nil
	}
	return Parse(s, base)
}

func pow(base uint64, exp int) BigUInt {
	out := FromUint64(1)
	b := FromUint64(base)
	for i := 0; i < exp; i++ {
		out = out.Mul(b)
	}
	return out
}
