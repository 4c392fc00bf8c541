package unitdb

import (
	"strings"

	"github.com/printfn/fend/internal/bignum"
	"github.com/printfn/fend/internal/cplx"
	"github.com/printfn/fend/internal/ferr"
	"github.com/printfn/fend/internal/kind"
	"github.com/printfn/fend/internal/units"
)

// affine sentinel definition bodies: celsius/fahrenheit need an additive
// offset the generic "evaluate an expression" DSL can't express, so they're
// special-cased directly (mirrors original_source/core/src/num/unit.rs's
// hard-coded celsius/fahrenheit handling).
const (
	celsiusBody    = "#celsius"
	fahrenheitBody = "#fahrenheit"
)

var affineDefs = []def{
	{Singular: "celsius", Plural: "celsius", Body: celsiusBody},
	{Singular: "°C", Plural: "°C", Body: celsiusBody},
	{Singular: "fahrenheit", Plural: "fahrenheit", Body: fahrenheitBody},
	{Singular: "°F", Plural: "°F", Body: fahrenheitBody},
}

// EvalFunc evaluates a unit-definition body (a plain expression, e.g.
// "1000 m" or "kg m / s^2") against a scope seeded with already-resolved
// units, per spec.md §4.5. It is supplied by internal/eval to avoid an
// import cycle between the evaluator and the unit database.
type EvalFunc func(expr string) (units.Quantity, error)

// Database is the static unit/prefix table plus a memoising, cycle-safe
// resolver.
type Database struct {
	all       []def
	eval      EvalFunc
	resolved  map[string]units.Quantity
	resolving map[string]bool
}

func NewDatabase(eval EvalFunc) *Database {
	all := make([]def, 0, len(baseDefs)+len(derivedDefs)+len(affineDefs))
	all = append(all, baseDefs...)
	all = append(all, derivedDefs...)
	all = append(all, affineDefs...)
	return &Database{
		all:       all,
		eval:      eval,
		resolved:  make(map[string]units.Quantity),
		resolving: make(map[string]bool),
	}
}

func (db *Database) findExact(name string) (def, bool) {
	for _, d := range db.all {
		if d.Singular == name || d.Plural == name {
			return d, true
		}
	}
	return def{}, false
}

func (db *Database) findCaseInsensitive(name string) (def, bool) {
	lower := strings.ToLower(name)
	for _, d := range db.all {
		if strings.ToLower(d.Singular) == lower || strings.ToLower(d.Plural) == lower {
			return d, true
		}
	}
	return def{}, false
}

// resolveDef evaluates (and memoises) the Quantity a definition denotes,
// detecting cycles via a per-resolution visited set (spec.md §9).
func (db *Database) resolveDef(d def) (units.Quantity, error) {
	if cached, ok := db.resolved[d.Singular]; ok {
		return cached, nil
	}
	if db.resolving[d.Singular] {
		return units.Quantity{}, ferr.New(kind.InternalInvariantViolation, "cyclic unit definition involving %q", d.Singular)
	}
	db.resolving[d.Singular] = true
	defer delete(db.resolving, d.Singular)

	var q units.Quantity
	switch d.Body {
	case "!":
		base := units.BaseUnit(d.Singular)
		if d.Singular == "K" {
			// kelvin shares the Temperature dimension with °C/°F below.
			base = units.Temperature
		}
		q = units.Quantity{
			Magnitude: cplx.FromRat(bignum.IntFromInt64(1)),
			Unit:      units.Single(base, 1),
			Scale:     bignum.IntFromInt64(1),
			BaseHint:  10,
			FmtHint:   bignum.AutoFormat(),
		}
	case celsiusBody:
		offset, _ := bignum.FromInt64Frac(27315, 100)
		q = units.Quantity{
			Magnitude: cplx.FromRat(bignum.IntFromInt64(1)),
			Unit:      units.Single(units.Temperature, 1),
			Scale:     bignum.IntFromInt64(1),
			Offset:    &offset,
			BaseHint:  10,
			FmtHint:   bignum.AutoFormat(),
		}
	case fahrenheitBody:
		scale, _ := bignum.FromInt64Frac(5, 9)
		offset, _ := bignum.FromInt64Frac(45967, 180)
		q = units.Quantity{
			Magnitude: cplx.FromRat(bignum.IntFromInt64(1)),
			Unit:      units.Single(units.Temperature, 1),
			Scale:     scale,
			Offset:    &offset,
			BaseHint:  10,
			FmtHint:   bignum.AutoFormat(),
		}
	default:
		var err error
		q, err = db.eval(d.Body)
		if err != nil {
			return units.Quantity{}, err
		}
	}
	db.resolved[d.Singular] = q
	return q, nil
}

// prefixMatch tries the longest SI/binary prefix (long or short form) whose
// remainder is a known, prefix-permitting name. Returns the scaled
// Quantity and the combined display name.
func (db *Database) prefixMatch(ident string) (units.Quantity, string, string, bool, error) {
	tryTable := func(table []prefix, allowLong, allowShort func(def) bool) (units.Quantity, string, string, bool, error) {
		type candidate struct {
			p        prefix
			form     string
			remStart int
		}
		var best *candidate
		for i := range table {
			p := table[i]
			for _, form := range []string{p.Long, p.Short} {
				if form == "" || !strings.HasPrefix(ident, form) {
					continue
				}
				rem := ident[len(form):]
				if rem == "" {
					continue
				}
				d, ok := db.findExact(rem)
				if !ok {
					continue
				}
				isLongForm := form == p.Long
				if isLongForm && !allowLong(d) {
					continue
				}
				if !isLongForm && !allowShort(d) {
					continue
				}
				if best == nil || len(form) > len(best.form) {
					best = &candidate{p: p, form: form}
				}
			}
		}
		if best == nil {
			return units.Quantity{}, "", "", false, nil
		}
		rem := ident[len(best.form):]
		d, _ := db.findExact(rem)
		base, err := db.resolveDef(d)
		if err != nil {
			return units.Quantity{}, "", "", false, err
		}
		out := base
		out.Scale, err = base.Scale.Mul(best.p.PowerOf)
		if err != nil {
			return units.Quantity{}, "", "", false, err
		}
		singular := best.form + d.Singular
		plural := best.form + d.Plural
		return out, singular, plural, true, nil
	}

	if q, s, p, ok, err := tryTable(siPrefixes,
		func(d def) bool { return d.AllowLongPrefix },
		func(d def) bool { return d.AllowShortPrefix },
	); ok || err != nil {
		return q, s, p, ok, err
	}
	return tryTable(binaryPrefixes,
		func(d def) bool { return d.AllowLongPrefix },
		func(d def) bool { return d.AllowShortPrefix },
	)
}

// DisplayName does the reverse of Resolve: given a Quantity's unit/scale/
// offset, find a single named unit from the static table that denotes it
// exactly, for the formatter's unit-suffix rendering (spec.md §4.4). Only
// exact, non-prefixed table entries are considered; a prefixed quantity
// (e.g. km) falls back to the formatter's raw base-unit exponent rendering,
// since prefix combinations aren't individually memoised.
func (db *Database) DisplayName(q units.Quantity) (singular, plural string, ok bool) {
	for _, d := range db.all {
		resolved, err := db.resolveDef(d)
		if err != nil {
			continue
		}
		if !resolved.Unit.Equal(q.Unit) {
			continue
		}
		if resolved.Scale.Cmp(q.Scale) != 0 {
			continue
		}
		if (resolved.Offset == nil) != (q.Offset == nil) {
			continue
		}
		if resolved.Offset != nil && resolved.Offset.Cmp(*q.Offset) != 0 {
			continue
		}
		return d.Singular, d.Plural, true
	}
	return "", "", false
}

// Resolve implements spec.md §4.5 steps 1-3 (exact match, case-insensitive
// match, prefix split). Steps 4 (custom units) and 5 (currency) are the
// caller's responsibility, since they depend on Context state this package
// does not own.
func (db *Database) Resolve(ident string) (NamedUnit, bool, error) {
	if d, ok := db.findExact(ident); ok {
		q, err := db.resolveDef(d)
		if err != nil {
			return NamedUnit{}, false, err
		}
		return NamedUnit{Singular: d.Singular, Plural: d.Plural, Value: q}, true, nil
	}
	if d, ok := db.findCaseInsensitive(ident); ok {
		q, err := db.resolveDef(d)
		if err != nil {
			return NamedUnit{}, false, err
		}
		return NamedUnit{Singular: d.Singular, Plural: d.Plural, Value: q}, true, nil
	}
	if q, s, p, ok, err := db.prefixMatch(ident); ok || err != nil {
		if err != nil {
			return NamedUnit{}, false, err
		}
		return NamedUnit{Singular: s, Plural: p, Value: q}, true, nil
	}
	return NamedUnit{}, false, nil
}
