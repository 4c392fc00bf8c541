package eval

import (
	"github.com/printfn/fend/internal/ast"
	"github.com/printfn/fend/internal/bignum"
	"github.com/printfn/fend/internal/ferr"
	"github.com/printfn/fend/internal/kind"
	"github.com/printfn/fend/internal/units"
	"github.com/printfn/fend/internal/value"
)

func evalUnary(ctx *Context, n *ast.UnaryOp) (value.Value, error) {
	switch n.Kind {
	case ast.Pos:
		v, err := Eval(ctx, n.X)
		if err != nil {
			return nil, err
		}
		if _, ok := v.(value.Number); !ok {
			return nil, ferr.New(kind.DomainError, "unary + requires a number")
		}
		return v, nil

	case ast.Neg:
		v, err := Eval(ctx, n.X)
		if err != nil {
			return nil, err
		}
		return negateValue(v)

	case ast.Factorial:
		v, err := Eval(ctx, n.X)
		if err != nil {
			return nil, err
		}
		return factorial(v)

	case ast.PercentSuffix:
		v, err := Eval(ctx, n.X)
		if err != nil {
			return nil, err
		}
		num, ok := v.(value.Number)
		if !ok {
			return nil, ferr.New(kind.DomainError, "%% requires a number")
		}
		percentUnit, ok2, err := ctx.UnitDB.Resolve("percent")
		if err != nil {
			return nil, err
		}
		if !ok2 {
			return nil, ferr.New(kind.InternalInvariantViolation, "percent unit missing from unit database")
		}
		q, err := num.Quantity.Mul(percentUnit.Value)
		if err != nil {
			return nil, err
		}
		return value.Number{Quantity: q}, nil
	}
	return nil, ferr.New(kind.InternalInvariantViolation, "unhandled unary op")
}

// negateValue implements Neg over every negatable Value kind, including
// spec.md §4.2's "`-x` binds tighter than function application" allowance
// for `-sin pi`: negating a callable yields a new callable that negates
// whatever the original returns.
func negateValue(v value.Value) (value.Value, error) {
	switch t := v.(type) {
	case value.Number:
		return value.Number{Quantity: t.Quantity.Neg()}, nil
	case value.Dist:
		return value.Dist{D: t.D.ScaleOutcomes(-1)}, nil
	case value.BuiltinFn, value.Lambda:
		inner := t
		return value.BuiltinFn{Name: "-" + callableName(t), Fn: func(callCtx any, args []value.Value) (value.Value, error) {
			r, err := callValue(callCtx.(*Context), inner, args)
			if err != nil {
				return nil, err
			}
			return negateValue(r)
		}}, nil
	}
	return nil, ferr.New(kind.DomainError, "cannot negate this value")
}

func callableName(v value.Value) string {
	switch t := v.(type) {
	case value.BuiltinFn:
		return t.Name
	case value.Lambda:
		return "lambda"
	}
	return "value"
}

func factorial(v value.Value) (value.Value, error) {
	n, ok := v.(value.Number)
	if !ok || !n.Quantity.Unit.IsDimensionless() {
		return nil, ferr.New(kind.DomainError, "factorial requires a dimensionless number")
	}
	if !n.Quantity.Magnitude.IsReal() || !n.Quantity.Magnitude.Re.Value.IsInteger() || n.Quantity.Magnitude.Re.Value.IsNegative() {
		return nil, ferr.New(kind.DomainError, "factorial requires a non-negative integer")
	}
	i, ok := n.Quantity.Magnitude.Re.Value.Num.AsInt64()
	if !ok || i > 1_000_000 {
		return nil, ferr.New(kind.OverflowGuard, "factorial argument too large")
	}
	result := bignum.FromUint64(1)
	for k := int64(2); k <= i; k++ {
		result = result.Mul(bignum.FromUint64(uint64(k)))
	}
	r := bignum.Int(bignum.SIntFromUInt(false, result))
	return value.Number{Quantity: units.FromRat(r)}, nil
}
