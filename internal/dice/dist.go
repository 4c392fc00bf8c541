// Package dice implements Dist, the discrete probability distribution
// engine behind dice rolls and expressions over them (spec.md §3, §4.6).
package dice

import (
	"sort"

	"github.com/printfn/fend/internal/bignum"
	"github.com/printfn/fend/internal/ferr"
	"github.com/printfn/fend/internal/interrupt"
	"github.com/printfn/fend/internal/kind"
)

// MaxOutcomes bounds the exact-pmf convolution spec.md §4.6 allows
// ("N·S <= 10^4 outcomes").
const MaxOutcomes = 10_000

// Dist is an ordered mapping from integer outcome to non-negative
// probability, summing to 1.
type Dist struct {
	pmf map[int64]bignum.BigRat
}

// Uniform builds the single-die distribution over 1..sides.
func Uniform(sides int64) (Dist, error) {
	if sides < 2 {
		return Dist{}, ferr.New(kind.ValueOutOfRange, "a die must have at least 2 sides")
	}
	p, err := bignum.FromInt64Frac(1, sides)
	if err != nil {
		return Dist{}, err
	}
	pmf := make(map[int64]bignum.BigRat, sides)
	for i := int64(1); i <= sides; i++ {
		pmf[i] = p
	}
	return Dist{pmf: pmf}, nil
}

// NdS builds the N-fold convolution of uniform(1..sides), i.e. the
// distribution of rolling N S-sided dice and summing them.
func NdS(n, sides int64, sig *interrupt.Signal) (Dist, error) {
	if n < 1 {
		return Dist{}, ferr.New(kind.ValueOutOfRange, "dice count must be at least 1")
	}
	if sides < 2 {
		return Dist{}, ferr.New(kind.ValueOutOfRange, "a die must have at least 2 sides")
	}
	if n*sides > MaxOutcomes {
		return Dist{}, ferr.New(kind.ValueOutOfRange, "dice expression has too many outcomes")
	}
	single, err := Uniform(sides)
	if err != nil {
		return Dist{}, err
	}
	result := single
	for i := int64(1); i < n; i++ {
		if err := sig.Check(); err != nil {
			return Dist{}, err
		}
		result, err = result.Convolve(single)
		if err != nil {
			return Dist{}, err
		}
	}
	return result, nil
}

// Convolve returns the distribution of the sum of independent samples from
// d and o.
func (d Dist) Convolve(o Dist) (Dist, error) {
	out := make(map[int64]bignum.BigRat)
	for a, pa := range d.pmf {
		for b, pb := range o.pmf {
			p, err := pa.Mul(pb)
			if err != nil {
				return Dist{}, err
			}
			if cur, ok := out[a+b]; ok {
				p, err = p.Add(cur)
				if err != nil {
					return Dist{}, err
				}
			}
			out[a+b] = p
		}
	}
	return Dist{pmf: out}, nil
}

// Shift maps every outcome o -> o+delta (used by scalar +/-).
func (d Dist) Shift(delta int64) Dist {
	out := make(map[int64]bignum.BigRat, len(d.pmf))
	for k, v := range d.pmf {
		out[k+delta] = v
	}
	return Dist{pmf: out}
}

// ScaleOutcomes maps every outcome o -> o*factor (used by scalar * and
// integer shift).
func (d Dist) ScaleOutcomes(factor int64) Dist {
	out := make(map[int64]bignum.BigRat, len(d.pmf))
	for k, v := range d.pmf {
		out[k*factor] = v
	}
	return Dist{pmf: out}
}

// Add convolves two distributions (dice + dice).
func (d Dist) Add(o Dist) (Dist, error) { return d.Convolve(o) }

// Mean returns the expected value. For NdS this equals N*(S+1)/2 (spec.md §8).
func (d Dist) Mean() (bignum.BigRat, error) {
	sum := bignum.IntFromInt64(0)
	for outcome, p := range d.pmf {
		term, err := p.Mul(bignum.IntFromInt64(outcome))
		if err != nil {
			return bignum.BigRat{}, err
		}
		sum, err = sum.Add(term)
		if err != nil {
			return bignum.BigRat{}, err
		}
	}
	return sum, nil
}

// Outcome is one (value, probability) pair, used for sorted rendering.
type Outcome struct {
	Value       int64
	Probability bignum.BigRat
}

// Outcomes returns the pmf sorted by outcome ascending (spec.md §4.6).
func (d Dist) Outcomes() []Outcome {
	out := make([]Outcome, 0, len(d.pmf))
	for k, v := range d.pmf {
		out = append(out, Outcome{Value: k, Probability: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	return out
}

// FromOutcomes rebuilds a Dist from an explicit outcome list, used when
// restoring a persisted distribution (internal/serialize).
func FromOutcomes(outcomes []Outcome) Dist {
	pmf := make(map[int64]bignum.BigRat, len(outcomes))
	for _, o := range outcomes {
		pmf[o.Value] = o.Probability
	}
	return Dist{pmf: pmf}
}

// Support returns [min, max] outcome.
func (d Dist) Support() (int64, int64) {
	outcomes := d.Outcomes()
	if len(outcomes) == 0 {
		return 0, 0
	}
	return outcomes[0].Value, outcomes[len(outcomes)-1].Value
}

// RandomSource supplies uniformly distributed random bytes; nil means no
// handler is configured (spec.md §4.3 "roll ... absent a handler, it fails
// with random-not-available").
type RandomSource func() (byte, error)

// Sample draws a single outcome weighted by probability, via rejection
// sampling over a common-denominator index space for fairness, consuming
// ceil(ceil(log2(denominator))/8) random bytes (at least one) per attempt
// (spec.md §4.6).
func (d Dist) Sample(rnd RandomSource) (int64, error) {
	if rnd == nil {
		return 0, ferr.New(kind.RandomUnavailable, "random-not-available")
	}
	outcomes := d.Outcomes()
	if len(outcomes) == 0 {
		return 0, ferr.New(kind.InternalInvariantViolation, "empty distribution")
	}

	// Find a common denominator across all probabilities (every pmf built by
	// Uniform/Convolve already normalises to one, since BigRat keeps lowest
	// terms, so just take the LCM of the reduced denominators).
	denom := bignum.FromUint64(1)
	for _, o := range outcomes {
		g := bignum.Gcd(denom, o.Probability.Den)
		lcmNum := denom.Mul(o.Probability.Den)
		lcm, _, _ := lcmNum.DivMod(g)
		denom = lcm
	}
	denomU64, ok := denom.AsUint64()
	if !ok || denomU64 == 0 || denomU64 > (1<<32) {
		return 0, ferr.New(kind.ValueOutOfRange, "distribution has too many outcomes to sample fairly")
	}

	idx, err := uniformUint64(rnd, denomU64)
	if err != nil {
		return 0, err
	}
	var cumulative uint64
	for _, o := range outcomes {
		scaled, _, _ := denom.Mul(o.Probability.Num.Magnitude()).DivMod(o.Probability.Den)
		count, _ := scaled.AsUint64()
		cumulative += count
		if idx < cumulative {
			return o.Value, nil
		}
	}
	return outcomes[len(outcomes)-1].Value, nil
}

func uniformUint64(rnd RandomSource, n uint64) (uint64, error) {
	bits := 0
	for (uint64(1) << bits) < n {
		bits++
	}
	bytesNeeded := (bits + 7) / 8
	if bytesNeeded == 0 {
		bytesNeeded = 1
	}
	for {
		var v uint64
		for i := 0; i < bytesNeeded; i++ {
			b, err := rnd()
			if err != nil {
				return 0, err
			}
			v = v<<8 | uint64(b)
		}
		if bytesNeeded < 8 {
			v &= (uint64(1) << uint(bytesNeeded*8)) - 1
		}
		if v < n {
			return v, nil
		}
	}
}
