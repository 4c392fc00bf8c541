package eval

import (
	"strings"

	"github.com/printfn/fend/internal/ast"
	"github.com/printfn/fend/internal/bignum"
	"github.com/printfn/fend/internal/fdate"
	"github.com/printfn/fend/internal/ferr"
	"github.com/printfn/fend/internal/kind"
	"github.com/printfn/fend/internal/units"
	"github.com/printfn/fend/internal/value"
)

// epoch is the reference point for the "date" conversion target applied to a
// plain day-count Number.
var epoch = fdate.Date{Year: 1970, Month: 1, Day: 1}

// evalConvert implements `expr to target` / `expr as target` / `expr in
// target` (spec.md §4.3 Conversion): target is either a format/base spec or
// a general unit-bearing expression.
func evalConvert(ctx *Context, n *ast.ConvertTo) (value.Value, error) {
	x, err := Eval(ctx, n.X)
	if err != nil {
		return nil, err
	}
	if spec, ok := n.Target.(*ast.FormatSpec); ok {
		return applyFormatSpec(ctx, spec, x)
	}
	target, err := Eval(ctx, n.Target)
	if err != nil {
		return nil, err
	}
	xn, ok := x.(value.Number)
	if !ok {
		return nil, ferr.New(kind.DomainError, "conversion requires a number")
	}
	var targetQ units.Quantity
	switch t := target.(type) {
	case value.Number:
		targetQ = t.Quantity
	case value.Unit:
		targetQ = t.Q
	default:
		return nil, ferr.New(kind.DomainError, "conversion target must be a unit")
	}
	out, err := xn.Quantity.ConvertTo(targetQ)
	if err != nil {
		return nil, err
	}
	return value.Number{Quantity: out}, nil
}

func applyFormatSpec(ctx *Context, spec *ast.FormatSpec, x value.Value) (value.Value, error) {
	switch spec.Name {
	case "auto", "exact", "float", "fraction", "mixed_fraction":
		n, ok := x.(value.Number)
		if !ok {
			return nil, ferr.New(kind.DomainError, "%s applies only to numbers", spec.Name)
		}
		n.Quantity.FmtHint = bignum.Format{Style: numericStyle(spec.Name)}
		n.TextStyle = ""
		return n, nil

	case "dp", "sf":
		n, ok := x.(value.Number)
		if !ok {
			return nil, ferr.New(kind.DomainError, "%s applies only to numbers", spec.Name)
		}
		count, err := evalSpecCount(ctx, spec.N)
		if err != nil {
			return nil, err
		}
		style := bignum.DecimalPlaces
		if spec.Name == "sf" {
			style = bignum.SigFigs
		}
		n.Quantity.FmtHint = bignum.Format{Style: style, N: count}
		n.TextStyle = ""
		return n, nil

	case "binary", "octal", "hex", "decimal":
		n, ok := x.(value.Number)
		if !ok {
			return nil, ferr.New(kind.DomainError, "%s applies only to numbers", spec.Name)
		}
		n.Quantity.BaseHint = baseFor(spec.Name)
		return n, nil

	case "base":
		n, ok := x.(value.Number)
		if !ok {
			return nil, ferr.New(kind.DomainError, "base applies only to numbers")
		}
		base, err := evalSpecCount(ctx, spec.N)
		if err != nil {
			return nil, err
		}
		if base < 2 || base > 36 {
			return nil, ferr.New(kind.InvalidBase, "base must be between 2 and 36")
		}
		n.Quantity.BaseHint = base
		return n, nil

	case "roman", "words", "string", "text":
		n, ok := x.(value.Number)
		if !ok {
			return nil, ferr.New(kind.DomainError, "%s applies only to numbers", spec.Name)
		}
		n.TextStyle = spec.Name
		return n, nil

	case "codepoint":
		return convertToCodepoint(x)

	case "character":
		return convertToCharacter(x)

	case "date":
		return convertToDate(x)
	}
	return nil, ferr.New(kind.InvalidFormat, "unknown conversion target %q", spec.Name)
}

func numericStyle(name string) bignum.FormatStyle {
	switch name {
	case "exact":
		return bignum.Exact
	case "float":
		return bignum.Float
	case "fraction":
		return bignum.Fraction
	case "mixed_fraction":
		return bignum.MixedFraction
	default:
		return bignum.Auto
	}
}

func baseFor(name string) int {
	switch name {
	case "binary":
		return 2
	case "octal":
		return 8
	case "hex":
		return 16
	default:
		return 10
	}
}

func evalSpecCount(ctx *Context, e ast.Expr) (int, error) {
	if e == nil {
		return 0, ferr.New(kind.InternalInvariantViolation, "format spec missing count")
	}
	v, err := Eval(ctx, e)
	if err != nil {
		return 0, err
	}
	n, ok := asInt64(v)
	if !ok {
		return 0, ferr.New(kind.DomainError, "expected an integer count")
	}
	return int(n), nil
}

func convertToCodepoint(x value.Value) (value.Value, error) {
	s, ok := x.(value.String)
	if !ok {
		return nil, ferr.New(kind.DomainError, "codepoint conversion requires a single-character string")
	}
	runes := []rune(s.S)
	if len(runes) != 1 {
		return nil, ferr.New(kind.DomainError, "codepoint conversion requires exactly one character")
	}
	return value.Number{Quantity: units.FromRat(bignum.IntFromInt64(int64(runes[0])))}, nil
}

func convertToCharacter(x value.Value) (value.Value, error) {
	n, ok := x.(value.Number)
	if !ok || !n.Quantity.Unit.IsDimensionless() {
		return nil, ferr.New(kind.DomainError, "character conversion requires a dimensionless integer")
	}
	i, ok := asInt64(n)
	if !ok || i < 0 {
		return nil, ferr.New(kind.DomainError, "character conversion requires a non-negative integer codepoint")
	}
	var sb strings.Builder
	sb.WriteRune(rune(i))
	return value.String{S: sb.String()}, nil
}

func convertToDate(x value.Value) (value.Value, error) {
	n, ok := x.(value.Number)
	if !ok || !n.Quantity.Unit.IsDimensionless() {
		return nil, ferr.New(kind.DomainError, "date conversion requires a dimensionless integer day count")
	}
	i, ok := asInt64(n)
	if !ok {
		return nil, ferr.New(kind.DomainError, "date conversion requires an integer day count")
	}
	return value.Date{D: epoch.AddDays(i)}, nil
}
