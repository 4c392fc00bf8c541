// Package units implements dimensional unit algebra: vectors of base-unit
// exponents (spec.md §3 UnitExponents) and the affine-aware Number unit
// operations (spec.md §4.3 Arithmetic). The named-unit/prefix resolver
// lives in internal/unitdb.
package units

import (
	"sort"

	"github.com/printfn/fend/internal/bignum"
)

// BaseUnit is one of the fixed canonical physical dimensions, or a
// currency token (e.g. "currency:USD") for fiat/crypto currencies, which
// are mutually incompatible base dimensions until converted via a rate.
type BaseUnit string

const (
	Mass        BaseUnit = "mass"
	Length      BaseUnit = "length"
	Time        BaseUnit = "time"
	Current     BaseUnit = "current"
	Temperature BaseUnit = "temperature"
	Amount      BaseUnit = "amount"
	Luminous    BaseUnit = "luminous"
	Angle       BaseUnit = "angle"
	Information BaseUnit = "information"
)

// Currency builds the base-unit identifier for a currency token.
func Currency(code string) BaseUnit { return BaseUnit("currency:" + code) }

// Exponents maps base unit -> exponent. An absent key is exponent zero;
// exponents may be non-integer (e.g. sqrt(second) => 1/2).
type Exponents map[BaseUnit]bignum.BigRat

// Dimensionless is the empty exponent vector.
func Dimensionless() Exponents { return Exponents{} }

// Single builds a vector with one base unit raised to an integer power.
func Single(u BaseUnit, exp int64) Exponents {
	if exp == 0 {
		return Exponents{}
	}
	return Exponents{u: bignum.IntFromInt64(exp)}
}

func (e Exponents) clone() Exponents {
	out := make(Exponents, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// IsDimensionless reports whether every exponent is zero.
func (e Exponents) IsDimensionless() bool {
	for _, v := range e {
		if !v.IsZero() {
			return false
		}
	}
	return true
}

// Equal reports whether e and o represent the same function base-unit ->
// exponent (spec.md §3 compatibility invariant).
func (e Exponents) Equal(o Exponents) bool {
	seen := make(map[BaseUnit]bool)
	for k, v := range e {
		seen[k] = true
		ov, ok := o[k]
		if !ok {
			if !v.IsZero() {
				return false
			}
			continue
		}
		if v.Cmp(ov) != 0 {
			return false
		}
	}
	for k, v := range o {
		if seen[k] {
			continue
		}
		if !v.IsZero() {
			return false
		}
	}
	return true
}

// Mul adds exponents (unit algebra for multiplication of quantities).
func (e Exponents) Mul(o Exponents) Exponents {
	out := e.clone()
	for k, v := range o {
		cur, ok := out[k]
		if !ok {
			cur = bignum.IntFromInt64(0)
		}
		sum, _ := cur.Add(v)
		if sum.IsZero() {
			delete(out, k)
		} else {
			out[k] = sum
		}
	}
	return out
}

// Div subtracts exponents (unit algebra for division of quantities).
func (e Exponents) Div(o Exponents) Exponents {
	neg := make(Exponents, len(o))
	for k, v := range o {
		neg[k] = v.Neg()
	}
	return e.Mul(neg)
}

// Scale multiplies every exponent by a rational factor (used by ^ and by
// sqrt/cbrt: exponents go to 1/2, 1/3 respectively).
func (e Exponents) Scale(factor bignum.BigRat) Exponents {
	out := make(Exponents, len(e))
	for k, v := range e {
		nv, _ := v.Mul(factor)
		if !nv.IsZero() {
			out[k] = nv
		}
	}
	return out
}

// Keys returns the base units with nonzero exponent, sorted for
// deterministic rendering/iteration.
func (e Exponents) Keys() []BaseUnit {
	out := make([]BaseUnit, 0, len(e))
	for k, v := range e {
		if !v.IsZero() {
			out = append(out, k)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
