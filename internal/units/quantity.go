package units

import (
	"sort"
	"strings"

	"github.com/printfn/fend/internal/bignum"
	"github.com/printfn/fend/internal/cplx"
	"github.com/printfn/fend/internal/ferr"
	"github.com/printfn/fend/internal/kind"
)

// NamePart is one base dimension's contribution to a Quantity's composed
// display name: which named unit supplies that dimension, at what exponent,
// and how many base units one of it is worth (frozen at the moment the name
// was assigned, so later scalar scaling of Magnitude can't drag it along).
type NamePart struct {
	Singular string
	Plural   string
	Exp      bignum.BigRat
	Factor   cplx.Complex
}

// Quantity is the Number Value of spec.md §3: a complex magnitude tagged
// with unit exponents, a multiplicative scale against the base-unit
// product, and an optional additive offset for affine units (°C, °F).
//
// Names carries the resolver's chosen display name through arithmetic,
// dimension by dimension, so it survives cancellation correctly: `100
// km/hr * 36 seconds` cancels the time dimension entirely (hr^-1 * s^1
// collide on the same base dimension) and is left with pure `km`, not a
// nonsense composite. It's assigned once, in resolveIdent, and from there:
// scalar attachment (`5 kg`) keeps it unchanged; Mul/Div's derived-unit
// branch recomposes it dimension-by-dimension from both operands, dropping
// any dimension where both sides contribute (cancelled or not, it can no
// longer be named from a single source); anything that changes what
// Magnitude means (ToBase) clears it outright.
//
// NamesBase distinguishes the two different things Magnitude can mean once
// Names is attached: false (the default, set by resolveIdent and by
// ConvertTo) means Magnitude already IS the display count. true (set by
// Mul/Div's derived-unit branch, where both operands were folded to base
// form first) means Magnitude is in base units relative to Names and needs
// dividing by NamesFactor() to become a display count.
type Quantity struct {
	Magnitude cplx.Complex
	Unit      Exponents
	Scale     bignum.BigRat
	Offset    *bignum.BigRat // non-nil only for affine units
	BaseHint  int
	FmtHint   bignum.Format

	Names     map[BaseUnit]NamePart
	NamesBase bool
}

// FromComplex builds a dimensionless, unit-scale quantity.
func FromComplex(c cplx.Complex) Quantity {
	return Quantity{Magnitude: c, Unit: Dimensionless(), Scale: bignum.IntFromInt64(1), BaseHint: 10, FmtHint: bignum.AutoFormat()}
}

func FromRat(r bignum.BigRat) Quantity { return FromComplex(cplx.FromRat(r)) }

// IsAffine reports whether this quantity carries a non-nil additive offset.
func (q Quantity) IsAffine() bool { return q.Offset != nil }

// toBase converts q to its base-unit representation: magnitude in base
// units, scale 1, offset removed. This is the normalisation spec.md §4.3
// requires before any multiplicative combination of affine quantities.
// Affine units compose as base = raw*scale + offset (e.g. °F: scale 5/9,
// offset 45967/180, so 0 °F = 255.37... K, 32 °F = 273.15 K = 0 °C).
func (q Quantity) ToBase() (Quantity, error) {
	out := q
	scaleC := cplx.FromRat(q.Scale)
	mag, err := q.Magnitude.Mul(scaleC)
	if err != nil {
		return Quantity{}, err
	}
	if q.Offset != nil {
		mag, err = mag.Add(cplx.FromRat(*q.Offset))
		if err != nil {
			return Quantity{}, err
		}
	}
	out.Magnitude = mag
	out.Scale = bignum.IntFromInt64(1)
	out.Offset = nil
	out.Names = nil
	out.NamesBase = false
	return out, nil
}

// toMultiplicativeBase is ToBase's counterpart for Mul/Div: the scale is
// folded in but any affine offset is discarded rather than added, since
// multiplicative combination treats an affine operand as a pure interval
// (spec.md §4.3: "offsets are removed by first promoting both operands to
// base form"). ToBase itself is for Add/Sub, where an affine operand's
// offset must be folded in to preserve absolute-temperature semantics
// (`0 °C + 1 K = 1 °C`).
func (q Quantity) toMultiplicativeBase() (Quantity, error) {
	out := q
	mag, err := q.Magnitude.Mul(cplx.FromRat(q.Scale))
	if err != nil {
		return Quantity{}, err
	}
	out.Magnitude = mag
	out.Scale = bignum.IntFromInt64(1)
	out.Offset = nil
	out.Names = nil
	out.NamesBase = false
	return out, nil
}

// Factor is the number of base units one of q's displayed units is worth.
// For a named unit fresh from the resolver, Magnitude is always 1 and this
// is just Scale. For a composite unit expression built via Mul/Div (e.g.
// `J/°F`, which resets Scale to 1 and folds the factor into Magnitude), this
// recovers that folded-in factor — the piece ConvertTo needs from its
// target that a plain Scale read would miss.
func (q Quantity) Factor() (cplx.Complex, error) {
	return q.Magnitude.Mul(cplx.FromRat(q.Scale))
}

// isPlainScalar reports whether q is a bare dimensionless number (not a
// unit, not a percent-like pre-scaled value) — the "5" in `5 kg`, as
// opposed to the `kg` it's being attached to. Mul/Div use this to tell
// scalar attachment (scale the named operand's Magnitude, keep its name)
// apart from genuine derived-unit formation (fold Scale into Magnitude on
// both sides and compose a new name).
func (q Quantity) isPlainScalar() bool {
	return q.Unit.IsDimensionless() && q.Offset == nil && len(q.Names) == 0 &&
		q.Scale.Cmp(bignum.IntFromInt64(1)) == 0
}

// scaleBy multiplies only Magnitude by factor, preserving Scale, Offset and
// any attached display name unchanged.
func (q Quantity) scaleBy(factor cplx.Complex) (Quantity, error) {
	mag, err := q.Magnitude.Mul(factor)
	if err != nil {
		return Quantity{}, err
	}
	out := q
	out.Magnitude = mag
	return out, nil
}

// scaleByDiv divides only Magnitude by factor, the Div counterpart of
// scaleBy.
func (q Quantity) scaleByDiv(factor cplx.Complex) (Quantity, error) {
	mag, err := q.Magnitude.Div(factor)
	if err != nil {
		return Quantity{}, err
	}
	out := q
	out.Magnitude = mag
	return out, nil
}

// namesCoverUnit reports whether Names fully accounts for every dimension
// in Unit — the gate before Names can be trusted to name q at all.
func (q Quantity) namesCoverUnit() bool {
	if len(q.Names) != len(q.Unit) {
		return false
	}
	for k, exp := range q.Unit {
		p, ok := q.Names[k]
		if !ok || p.Exp.Cmp(exp) != 0 {
			return false
		}
	}
	return true
}

// sortedNameKeys returns q.Names' base units in deterministic order.
func (q Quantity) sortedNameKeys() []BaseUnit {
	keys := make([]BaseUnit, 0, len(q.Names))
	for k := range q.Names {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// DisplayUnitName returns the singular/plural name q's Names compose to,
// when every dimension of q is accounted for by a single exponent-1 or
// exponent-(-1) named part. ok is false when Names is empty, doesn't fully
// cover Unit, or some dimension's exponent isn't ±1 (a shape this display
// scheme can't render as a simple product/quotient of names).
func (q Quantity) DisplayUnitName() (singular, plural string, ok bool) {
	if len(q.Names) == 0 || !q.namesCoverUnit() {
		return "", "", false
	}
	one := bignum.IntFromInt64(1)
	var numS, numP, denS, denP []string
	for _, k := range q.sortedNameKeys() {
		p := q.Names[k]
		switch {
		case p.Exp.Cmp(one) == 0:
			numS = append(numS, p.Singular)
			numP = append(numP, p.Plural)
		case p.Exp.Cmp(one.Neg()) == 0:
			denS = append(denS, p.Singular)
			denP = append(denP, p.Plural)
		default:
			return "", "", false
		}
	}
	singular = strings.Join(numS, "·")
	plural = strings.Join(numP, "·")
	if len(denS) > 0 {
		if singular == "" {
			singular, plural = "1", "1"
		}
		singular += " / " + strings.Join(denS, "·")
		plural += " / " + strings.Join(denP, "·")
	}
	return singular, plural, true
}

// NamesFactor is the base-units-per-one-of-the-composed-display-unit that
// DisplayUnitName names: the product of each surviving part's own Factor,
// raised to ±1. Used to turn a base-referenced Magnitude (one produced by
// Mul/Div's derived-unit-formation branch, NamesBase true) back into a
// display count.
func (q Quantity) NamesFactor() (cplx.Complex, error) {
	one := bignum.IntFromInt64(1)
	f := cplx.FromRat(one)
	for _, k := range q.sortedNameKeys() {
		p := q.Names[k]
		var err error
		if p.Exp.Cmp(one) == 0 {
			f, err = f.Mul(p.Factor)
		} else {
			f, err = f.Div(p.Factor)
		}
		if err != nil {
			return cplx.Complex{}, err
		}
	}
	return f, nil
}

// mergeNames recomposes a Names map for Mul/Div's derived-unit branch:
// dimensions only one side names carry straight through (negated for
// division's right-hand side); a dimension BOTH sides name is dropped
// entirely rather than guessed at, whether the exponents cancel to zero
// (the common case: `km/hr * s`'s two time parts cancel and the result is
// purely `km`) or not (no single name could represent the remainder).
func mergeNames(a, b map[BaseUnit]NamePart, negateB bool) map[BaseUnit]NamePart {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	out := make(map[BaseUnit]NamePart, len(a)+len(b))
	for k, p := range a {
		out[k] = p
	}
	for k, p := range b {
		if _, collide := out[k]; collide {
			delete(out, k)
			continue
		}
		if negateB {
			p.Exp = p.Exp.Neg()
		}
		out[k] = p
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// fromBaseMagnitude re-labels a base-unit-form magnitude into this
// quantity's displayed scale/offset (the inverse of ToBase).
func (q Quantity) fromBaseMagnitude(baseMag cplx.Complex) (cplx.Complex, error) {
	mag := baseMag
	var err error
	if q.Offset != nil {
		mag, err = mag.Sub(cplx.FromRat(*q.Offset))
		if err != nil {
			return cplx.Complex{}, err
		}
	}
	scaleC := cplx.FromRat(q.Scale)
	mag, err = mag.Div(scaleC)
	if err != nil {
		return cplx.Complex{}, err
	}
	return mag, nil
}

// Add implements spec.md §4.3: equal unit exponents required; affine
// operands are normalised to base form first, then the result is
// re-labelled in the first operand's displayed scale (`0 °C + 1 K = 1 °C`).
func (q Quantity) Add(o Quantity) (Quantity, error) {
	if !q.Unit.Equal(o.Unit) {
		return Quantity{}, ferr.New(kind.IncompatibleUnits, "units are incompatible")
	}
	if q.IsAffine() || o.IsAffine() {
		qb, err := q.ToBase()
		if err != nil {
			return Quantity{}, err
		}
		ob, err := o.ToBase()
		if err != nil {
			return Quantity{}, err
		}
		sum, err := qb.Magnitude.Add(ob.Magnitude)
		if err != nil {
			return Quantity{}, err
		}
		display, err := q.fromBaseMagnitude(sum)
		if err != nil {
			return Quantity{}, err
		}
		out := q
		out.Magnitude = display
		return out, nil
	}
	mag, err := q.Magnitude.Mul(cplx.FromRat(q.Scale))
	if err != nil {
		return Quantity{}, err
	}
	omag, err := o.Magnitude.Mul(cplx.FromRat(o.Scale))
	if err != nil {
		return Quantity{}, err
	}
	sum, err := mag.Add(omag)
	if err != nil {
		return Quantity{}, err
	}
	result, err := sum.Div(cplx.FromRat(q.Scale))
	if err != nil {
		return Quantity{}, err
	}
	out := q
	out.Magnitude = result
	return out, nil
}

func (q Quantity) Neg() Quantity {
	out := q
	out.Magnitude = q.Magnitude.Neg()
	return out
}

// Sub implements subtraction. Two affine values of the SAME unit (e.g.
// `T1 °C - T2 °C`) yield a *non-affine* (offset-free) result representing a
// temperature difference, matching `(T1 °C − T2 °C) to K` in spec.md §8.
func (q Quantity) Sub(o Quantity) (Quantity, error) {
	if !q.Unit.Equal(o.Unit) {
		return Quantity{}, ferr.New(kind.IncompatibleUnits, "units are incompatible")
	}
	if q.IsAffine() && o.IsAffine() {
		qb, err := q.ToBase()
		if err != nil {
			return Quantity{}, err
		}
		ob, err := o.ToBase()
		if err != nil {
			return Quantity{}, err
		}
		diff, err := qb.Magnitude.Sub(ob.Magnitude)
		if err != nil {
			return Quantity{}, err
		}
		out := qb
		out.Magnitude = diff
		out.Offset = nil
		return out, nil
	}
	return q.Add(o.Neg())
}

// Mul implements spec.md §4.3 multiplicative combination. Attaching a bare
// scalar to a named unit (`5 kg`, `4 kg * 2`) only scales Magnitude and
// keeps the unit's displayed name/scale/offset intact; combining two
// genuinely-dimensioned (or already-named) operands into a derived unit
// promotes both to multiplicative base form first (offsets removed, scale
// folded into Magnitude) and recomposes a display name dimension by
// dimension from both sides.
func (q Quantity) Mul(o Quantity) (Quantity, error) {
	if o.isPlainScalar() {
		return q.scaleBy(o.Magnitude)
	}
	if q.isPlainScalar() {
		return o.scaleBy(q.Magnitude)
	}
	qb, err := q.toMultiplicativeBase()
	if err != nil {
		return Quantity{}, err
	}
	ob, err := o.toMultiplicativeBase()
	if err != nil {
		return Quantity{}, err
	}
	mag, err := qb.Magnitude.Mul(ob.Magnitude)
	if err != nil {
		return Quantity{}, err
	}
	return Quantity{
		Magnitude: mag,
		Unit:      qb.Unit.Mul(ob.Unit),
		Scale:     bignum.IntFromInt64(1),
		BaseHint:  q.BaseHint,
		FmtHint:   q.FmtHint,
		Names:     mergeNames(q.Names, o.Names, false),
		NamesBase: true,
	}, nil
}

// Div implements division, analogous to Mul: a plain scalar divisor only
// scales Magnitude (`a / 2`); otherwise both operands are promoted to base
// form and a new derived unit is formed and named (`J / °F`).
func (q Quantity) Div(o Quantity) (Quantity, error) {
	if o.isPlainScalar() {
		if o.Magnitude.Re.Value.IsZero() && o.Magnitude.Im.Value.IsZero() {
			return Quantity{}, ferr.New(kind.DivisionByZero, "division by zero")
		}
		return q.scaleByDiv(o.Magnitude)
	}
	qb, err := q.toMultiplicativeBase()
	if err != nil {
		return Quantity{}, err
	}
	ob, err := o.toMultiplicativeBase()
	if err != nil {
		return Quantity{}, err
	}
	if ob.Magnitude.Re.Value.IsZero() && ob.Magnitude.Im.Value.IsZero() {
		return Quantity{}, ferr.New(kind.DivisionByZero, "division by zero")
	}
	mag, err := qb.Magnitude.Div(ob.Magnitude)
	if err != nil {
		return Quantity{}, err
	}
	return Quantity{
		Magnitude: mag,
		Unit:      qb.Unit.Div(ob.Unit),
		Scale:     bignum.IntFromInt64(1),
		BaseHint:  q.BaseHint,
		FmtHint:   q.FmtHint,
		Names:     mergeNames(q.Names, o.Names, true),
		NamesBase: true,
	}, nil
}

// ConvertTo converts q (a value) to the scale/offset/unit of target,
// requiring compatible exponent vectors (spec.md §4.3 Conversion). target's
// Factor (not its bare Scale) is the base-units-per-target-unit divisor,
// since a composite target built via Mul/Div (e.g. `J/°F`) folds its factor
// into Magnitude rather than Scale. The result keeps target's display name
// (it IS the target unit now) with NamesBase reset to false, since Magnitude
// is already the display count and must not be divided again at render time.
func (q Quantity) ConvertTo(target Quantity) (Quantity, error) {
	qb, err := q.ToBase()
	if err != nil {
		return Quantity{}, err
	}
	if !qb.Unit.Equal(target.Unit) {
		return Quantity{}, ferr.New(kind.IncompatibleUnits, "units are incompatible")
	}
	mag := qb.Magnitude
	if target.Offset != nil {
		mag, err = mag.Sub(cplx.FromRat(*target.Offset))
		if err != nil {
			return Quantity{}, err
		}
	}
	factor, err := target.Factor()
	if err != nil {
		return Quantity{}, err
	}
	display, err := mag.Div(factor)
	if err != nil {
		return Quantity{}, err
	}
	out := target
	out.Magnitude = display
	out.NamesBase = false
	return out, nil
}
