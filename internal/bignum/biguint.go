// Package bignum implements the arbitrary-precision integer and rational
// types underlying every numeric value in the evaluator: BigUInt (unsigned
// magnitude), BigSInt (signed integer) and BigRat (exact rational, with an
// exactness flag and display hints). The representation follows the
// original fend core's num/biguint.rs: little-endian limbs, normalised so
// there is never a redundant leading (most-significant) zero limb.
package bignum

import (
	"math/big"

	"github.com/remyoudompheng/bigfft"

	"github.com/printfn/fend/internal/ferr"
	"github.com/printfn/fend/internal/kind"
)

// fftThreshold is the limb count above which multiplication switches from
// schoolbook to FFT-based multiplication. Schoolbook is O(n^2) but has no
// conversion overhead; FFT amortises its setup cost only for genuinely large
// operands (factorial-scale integers, `words`/`roman` of huge magnitudes).
const fftThreshold = 32

// BigUInt is an unbounded unsigned integer: little-endian uint64 limbs, no
// trailing (most-significant) zero limb. The zero value (nil/empty slice)
// represents zero.
type BigUInt struct {
	limbs []uint64
}

// Zero returns the BigUInt 0.
func Zero() BigUInt { return BigUInt{} }

// FromUint64 builds a BigUInt from a machine-width unsigned integer.
func FromUint64(n uint64) BigUInt {
	if n == 0 {
		return BigUInt{}
	}
	return BigUInt{limbs: []uint64{n}}
}

func (b BigUInt) normalized() BigUInt {
	limbs := b.limbs
	n := len(limbs)
	for n > 0 && limbs[n-1] == 0 {
		n--
	}
	if n == len(limbs) {
		return b
	}
	return BigUInt{limbs: limbs[:n]}
}

// IsZero reports whether the value is exactly zero.
func (b BigUInt) IsZero() bool {
	for _, l := range b.limbs {
		if l != 0 {
			return false
		}
	}
	return true
}

// limb returns limb i, or 0 if out of range.
func (b BigUInt) limb(i int) uint64 {
	if i < 0 || i >= len(b.limbs) {
		return 0
	}
	return b.limbs[i]
}

// Cmp returns -1, 0 or 1 as b is less than, equal to, or greater than o.
func (b BigUInt) Cmp(o BigUInt) int {
	b = b.normalized()
	o = o.normalized()
	if len(b.limbs) != len(o.limbs) {
		if len(b.limbs) < len(o.limbs) {
			return -1
		}
		return 1
	}
	for i := len(b.limbs) - 1; i >= 0; i-- {
		if b.limbs[i] != o.limbs[i] {
			if b.limbs[i] < o.limbs[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Add returns b + o.
func (b BigUInt) Add(o BigUInt) BigUInt {
	n := len(b.limbs)
	if len(o.limbs) > n {
		n = len(o.limbs)
	}
	out := make([]uint64, n+1)
	var carry uint64
	for i := 0; i < n; i++ {
		sum := b.limb(i) + o.limb(i) + carry
		if sum < b.limb(i) || (carry == 1 && sum == b.limb(i)) {
			carry = 1
		} else {
			carry = 0
		}
		out[i] = sum
	}
	out[n] = carry
	return BigUInt{limbs: out}.normalized()
}

// Sub returns b - o, saturating at zero. Callers (BigSInt, BigRat) are
// responsible for ensuring non-negativity where that matters; the core
// invariant here is simply "never underflow the limb array".
func (b BigUInt) Sub(o BigUInt) BigUInt {
	if b.Cmp(o) < 0 {
		return BigUInt{}
	}
	out := make([]uint64, len(b.limbs))
	var borrow uint64
	for i := range b.limbs {
		ov := o.limb(i)
		d := b.limbs[i] - ov - borrow
		if b.limbs[i] < ov+borrow || (ov == ^uint64(0) && borrow == 1) {
			borrow = 1
		} else {
			borrow = 0
		}
		out[i] = d
	}
	return BigUInt{limbs: out}.normalized()
}

func mulLimb(a, b uint64) (hi, lo uint64) {
	const mask = 0xffffffff
	aLo, aHi := a&mask, a>>32
	bLo, bHi := b&mask, b>>32

	lo1 := aLo * bLo
	mid1 := aLo * bHi
	mid2 := aHi * bLo
	hi1 := aHi * bHi

	mid := mid1 + mid2
	if mid < mid1 {
		hi1 += 1 << 32
	}

	loRes := lo1 + (mid << 32)
	carry := uint64(0)
	if loRes < lo1 {
		carry = 1
	}
	hiRes := hi1 + (mid >> 32) + carry
	return hiRes, loRes
}

func (b BigUInt) schoolbookMul(o BigUInt) BigUInt {
	if b.IsZero() || o.IsZero() {
		return BigUInt{}
	}
	out := make([]uint64, len(b.limbs)+len(o.limbs)+1)
	for i, av := range b.limbs {
		if av == 0 {
			continue
		}
		var carry uint64
		for j, bv := range o.limbs {
			hi, lo := mulLimb(av, bv)
			sum := out[i+j] + lo
			if sum < out[i+j] {
				hi++
			}
			sum2 := sum + carry
			if sum2 < sum {
				hi++
			}
			out[i+j] = sum2
			carry = hi
		}
		k := i + len(o.limbs)
		for carry != 0 {
			sum := out[k] + carry
			carry = 0
			if sum < out[k] {
				carry = 1
			}
			out[k] = sum
			k++
		}
	}
	return BigUInt{limbs: out}.normalized()
}

// Mul returns b * o, using FFT multiplication for large operands.
func (b BigUInt) Mul(o BigUInt) BigUInt {
	b = b.normalized()
	o = o.normalized()
	if len(b.limbs) < fftThreshold || len(o.limbs) < fftThreshold {
		return b.schoolbookMul(o)
	}
	bx, ox := b.toBigInt(), o.toBigInt()
	return fromBigInt(bigfft.Mul(bx, ox))
}

// DivMod returns (b/o, b%o). It reports kind.DivisionByZero if o is zero.
func (b BigUInt) DivMod(o BigUInt) (BigUInt, BigUInt, error) {
	if o.IsZero() {
		return BigUInt{}, BigUInt{}, ferr.New(kind.DivisionByZero, "division by zero")
	}
	if b.Cmp(o) < 0 {
		return BigUInt{}, b, nil
	}
	// Schoolbook long division, bit by bit: simple and correct for all
	// magnitudes without a separate Knuth Algorithm D implementation.
	bits := b.BitLen()
	var quotient BigUInt
	var remainder BigUInt
	for i := bits - 1; i >= 0; i-- {
		remainder = remainder.Shl(1)
		if b.Bit(i) {
			remainder = remainder.Add(FromUint64(1))
		}
		if remainder.Cmp(o) >= 0 {
			remainder = remainder.Sub(o)
			quotient = quotient.setBit(i)
		}
	}
	return quotient.normalized(), remainder.normalized(), nil
}

func (b BigUInt) setBit(i int) BigUInt {
	limbIdx := i / 64
	bitIdx := uint(i % 64)
	limbs := make([]uint64, len(b.limbs))
	copy(limbs, b.limbs)
	for len(limbs) <= limbIdx {
		limbs = append(limbs, 0)
	}
	limbs[limbIdx] |= 1 << bitIdx
	return BigUInt{limbs: limbs}.normalized()
}

// Bit reports whether bit i (0 = least significant) is set.
func (b BigUInt) Bit(i int) bool {
	limbIdx := i / 64
	bitIdx := uint(i % 64)
	if limbIdx >= len(b.limbs) {
		return false
	}
	return (b.limbs[limbIdx]>>bitIdx)&1 == 1
}

// BitLen returns the number of bits required to represent b (0 for zero).
func (b BigUInt) BitLen() int {
	b = b.normalized()
	if len(b.limbs) == 0 {
		return 0
	}
	top := b.limbs[len(b.limbs)-1]
	n := (len(b.limbs) - 1) * 64
	for top != 0 {
		n++
		top >>= 1
	}
	return n
}

// Shl returns b << n.
func (b BigUInt) Shl(n int) BigUInt {
	if b.IsZero() || n == 0 {
		return b
	}
	limbShift := n / 64
	bitShift := uint(n % 64)
	out := make([]uint64, len(b.limbs)+limbShift+1)
	for i, l := range b.limbs {
		out[i+limbShift] |= l << bitShift
		if bitShift != 0 {
			out[i+limbShift+1] |= l >> (64 - bitShift)
		}
	}
	return BigUInt{limbs: out}.normalized()
}

// Shr returns b >> n.
func (b BigUInt) Shr(n int) BigUInt {
	if n == 0 {
		return b
	}
	limbShift := n / 64
	bitShift := uint(n % 64)
	if limbShift >= len(b.limbs) {
		return BigUInt{}
	}
	src := b.limbs[limbShift:]
	out := make([]uint64, len(src))
	for i := range src {
		out[i] = src[i] >> bitShift
		if bitShift != 0 && i+1 < len(src) {
			out[i] |= src[i+1] << (64 - bitShift)
		}
	}
	return BigUInt{limbs: out}.normalized()
}

func bitwise(a, b BigUInt, f func(x, y uint64) uint64) BigUInt {
	n := len(a.limbs)
	if len(b.limbs) > n {
		n = len(b.limbs)
	}
	out := make([]uint64, n)
	for i := 0; i < n; i++ {
		out[i] = f(a.limb(i), b.limb(i))
	}
	return BigUInt{limbs: out}.normalized()
}

func (b BigUInt) And(o BigUInt) BigUInt { return bitwise(b, o, func(x, y uint64) uint64 { return x & y }) }
func (b BigUInt) Or(o BigUInt) BigUInt  { return bitwise(b, o, func(x, y uint64) uint64 { return x | y }) }
func (b BigUInt) Xor(o BigUInt) BigUInt { return bitwise(b, o, func(x, y uint64) uint64 { return x ^ y }) }

// Gcd returns the greatest common divisor of a and b via the binary (Stein's)
// algorithm, which only needs shifts/subtracts over our limb representation.
func Gcd(a, b BigUInt) BigUInt {
	if a.IsZero() {
		return b
	}
	if b.IsZero() {
		return a
	}
	shift := 0
	for !a.Bit(0) && !b.Bit(0) {
		a, b = a.Shr(1), b.Shr(1)
		shift++
	}
	for !a.Bit(0) {
		a = a.Shr(1)
	}
	for {
		for !b.Bit(0) {
			b = b.Shr(1)
		}
		if a.Cmp(b) > 0 {
			a, b = b, a
		}
		b = b.Sub(a)
		if b.IsZero() {
			break
		}
	}
	return a.Shl(shift)
}

// ModPow computes base^exp mod m using binary exponentiation.
func (b BigUInt) ModPow(exp, m BigUInt) (BigUInt, error) {
	if m.IsZero() {
		return BigUInt{}, ferr.New(kind.DivisionByZero, "modulus must be nonzero")
	}
	result := FromUint64(1)
	base := b
	_, base, err := base.DivMod(m)
	if err != nil {
		return BigUInt{}, err
	}
	bits := exp.BitLen()
	for i := 0; i < bits; i++ {
		if exp.Bit(i) {
			result = result.Mul(base)
			_, result, err = result.DivMod(m)
			if err != nil {
				return BigUInt{}, err
			}
		}
		base = base.Mul(base)
		_, base, err = base.DivMod(m)
		if err != nil {
			return BigUInt{}, err
		}
	}
	return result, nil
}

func (b BigUInt) toBigInt() *big.Int {
	out := new(big.Int)
	for i := len(b.limbs) - 1; i >= 0; i-- {
		out.Lsh(out, 64)
		out.Or(out, new(big.Int).SetUint64(b.limbs[i]))
	}
	return out
}

func fromBigInt(v *big.Int) BigUInt {
	var limbs []uint64
	tmp := new(big.Int).Set(v)
	mask := new(big.Int).SetUint64(^uint64(0))
	for tmp.Sign() != 0 {
		word := new(big.Int).And(tmp, mask)
		limbs = append(limbs, word.Uint64())
		tmp.Rsh(tmp, 64)
	}
	return BigUInt{limbs: limbs}.normalized()
}

const digits = "0123456789abcdefghijklmnopqrstuvwxyz"

// String renders b in the given base (2..36).
func (b BigUInt) String(base int) (string, error) {
	if base < 2 || base > 36 {
		return "", ferr.New(kind.InvalidBase, "base must be between 2 and 36")
	}
	if b.IsZero() {
		return "0", nil
	}
	baseU := FromUint64(uint64(base))
	var out []byte
	cur := b
	for !cur.IsZero() {
		var rem BigUInt
		var err error
		cur, rem, err = cur.DivMod(baseU)
		if err != nil {
			return "", err
		}
		out = append(out, digits[rem.asSmall()])
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return string(out), nil
}

func (b BigUInt) asSmall() uint64 {
	if len(b.limbs) == 0 {
		return 0
	}
	return b.limbs[0]
}

// Parse reads a BigUInt from a string of base-B digits (2 <= base <= 36);
// the caller is responsible for stripping digit separators beforehand.
func Parse(s string, base int) (BigUInt, error) {
	if base < 2 || base > 36 {
		return BigUInt{}, ferr.New(kind.InvalidBase, "base must be between 2 and 36")
	}
	if s == "" {
		return BigUInt{}, ferr.New(kind.ParseError, "empty number")
	}
	out := BigUInt{}
	baseU := FromUint64(uint64(base))
	for _, r := range s {
		d := digitValue(r)
		if d < 0 || d >= base {
			return BigUInt{}, ferr.New(kind.ParseError, "invalid digit %q for base %d", r, base)
		}
		out = out.Mul(baseU).Add(FromUint64(uint64(d)))
	}
	return out, nil
}

func digitValue(r rune) int {
	switch {
	case r >= '0' && r <= '9':
		return int(r - '0')
	case r >= 'a' && r <= 'z':
		return int(r-'a') + 10
	case r >= 'A' && r <= 'Z':
		return int(r-'A') + 10
	default:
		return -1
	}
}

// AsUint64 returns b as a uint64 and whether it fits without truncation.
func (b BigUInt) AsUint64() (uint64, bool) {
	b = b.normalized()
	if len(b.limbs) == 0 {
		return 0, true
	}
	if len(b.limbs) > 1 {
		return 0, false
	}
	return b.limbs[0], true
}

// AsFloat64 converts to the nearest float64, for transcendental-function
// seeding only (never for exact arithmetic).
func (b BigUInt) AsFloat64() float64 {
	var res float64
	for i := len(b.limbs) - 1; i >= 0; i-- {
		res = res*18446744073709551616.0 + float64(b.limbs[i])
	}
	return res
}
