package format

import (
	"fmt"
	"strings"

	"github.com/printfn/fend/internal/bignum"
	"github.com/printfn/fend/internal/unitdb"
	"github.com/printfn/fend/internal/units"
	"github.com/printfn/fend/internal/value"
)

// baseUnitNames gives the canonical symbol for each of the fixed physical
// dimensions (spec.md §3 UnitExponents), used when a Quantity's exponent
// vector doesn't match any single named unit in the database (e.g. a
// compound derived unit like kg·m/s^2 that was never given its own name).
var baseUnitNames = map[units.BaseUnit]string{
	units.Mass:        "kg",
	units.Length:      "m",
	units.Time:        "s",
	units.Current:     "A",
	units.Temperature: "K",
	units.Amount:      "mol",
	units.Luminous:    "cd",
	units.Angle:       "rad",
	units.Information: "bit",
}

func renderNumber(n value.Number, db *unitdb.Database, opts Options) (string, error) {
	if n.TextStyle != "" {
		return renderTextStyle(n.TextStyle, n.Quantity)
	}
	q := n.Quantity
	singular, plural, named := q.DisplayUnitName()
	if named && q.NamesBase {
		factor, err := q.NamesFactor()
		if err != nil {
			return "", err
		}
		mag, err := q.Magnitude.Div(factor)
		if err != nil {
			return "", err
		}
		q.Magnitude = mag
	}
	magStr, err := renderMagnitude(q, opts)
	if err != nil {
		return "", err
	}
	if q.Unit.IsDimensionless() {
		return magStr, nil
	}
	unitStr := renderUnitSuffix(q, singular, plural, named, db)
	if unitStr == "" {
		return magStr, nil
	}
	return magStr + " " + unitStr, nil
}

func renderUnitSuffix(q units.Quantity, singular, plural string, named bool, db *unitdb.Database) string {
	if named {
		if isUnitMagnitude(q) {
			return singular
		}
		return plural
	}
	if db != nil {
		if s, p, ok := db.DisplayName(q); ok {
			if isUnitMagnitude(q) {
				return s
			}
			return p
		}
	}
	return renderDimensionExponents(q.Unit)
}

func isUnitMagnitude(q units.Quantity) bool {
	if !q.Magnitude.IsReal() {
		return false
	}
	return q.Magnitude.Re.Value.Abs().Cmp(bignum.IntFromInt64(1)) == 0
}

// renderDimensionExponents falls back to printing each base dimension's
// symbol raised to its exponent when no single named unit covers the whole
// Quantity, joining positive powers with '·' and collecting negative powers
// after a single '/'.
func renderDimensionExponents(u units.Exponents) string {
	var numer, denom []string
	for _, k := range u.Keys() {
		exp := u[k]
		name := dimensionSymbol(k)
		if exp.IsNegative() {
			denom = append(denom, powerSuffix(name, exp.Neg()))
		} else {
			numer = append(numer, powerSuffix(name, exp))
		}
	}
	out := strings.Join(numer, "·")
	if len(denom) > 0 {
		if out == "" {
			out = "1"
		}
		out += "/" + strings.Join(denom, "·")
	}
	return out
}

func dimensionSymbol(u units.BaseUnit) string {
	if name, ok := baseUnitNames[u]; ok {
		return name
	}
	s := string(u)
	if strings.HasPrefix(s, "currency:") {
		return strings.TrimPrefix(s, "currency:")
	}
	return s
}

func powerSuffix(name string, exp bignum.BigRat) string {
	if exp.IsInteger() && exp.Cmp(bignum.IntFromInt64(1)) == 0 {
		return name
	}
	expStr, _ := renderFraction(exp, 10)
	return fmt.Sprintf("%s^%s", name, expStr)
}
