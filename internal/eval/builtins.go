package eval

import (
	"github.com/printfn/fend/internal/bignum"
	"github.com/printfn/fend/internal/cplx"
	"github.com/printfn/fend/internal/ferr"
	"github.com/printfn/fend/internal/kind"
	"github.com/printfn/fend/internal/real"
	"github.com/printfn/fend/internal/units"
	"github.com/printfn/fend/internal/value"
)

// builtins holds the constants and host-implemented functions spec.md §4.3's
// Functions bullet list names. Constants are plain Number Values; functions
// are single-argument BuiltinFns (currying via repeated Apply covers the
// multi-argument cases the grammar can express).
var builtins map[string]value.Value

func init() {
	builtins = map[string]value.Value{
		"pi": value.Number{Quantity: units.FromComplex(cplx.FromReal(real.RealApprox{Value: piRat(), Precision: real.DefaultPrecisionBits}))},
		"e":  value.Number{Quantity: units.FromComplex(cplx.FromReal(real.RealApprox{Value: eRat(), Precision: real.DefaultPrecisionBits}))},
		"i":  value.Number{Quantity: units.FromComplex(cplx.Complex{Re: real.FromRat(bignum.IntFromInt64(0)), Im: real.FromRat(bignum.IntFromInt64(1))})},

		"sqrt":      unaryReal("sqrt", func(a real.RealApprox) (real.RealApprox, error) { return real.Sqrt(a) }),
		"cbrt":      unaryRealNoErr("cbrt", real.Cbrt),
		"exp":       unaryRealNoErr("exp", real.Exp),
		"ln":        unaryReal("ln", real.Ln),
		"log":       unaryReal("log", real.Log10),
		"log10":     unaryReal("log10", real.Log10),
		"log2":      unaryReal("log2", real.Log2),
		"sin":       unaryRealNoErr("sin", real.Sin),
		"cos":       unaryRealNoErr("cos", real.Cos),
		"tan":       unaryRealNoErr("tan", real.Tan),
		"asin":      unaryReal("asin", real.Asin),
		"acos":      unaryReal("acos", real.Acos),
		"atan":      unaryRealNoErr("atan", real.Atan),
		"sinh":      unaryRealNoErr("sinh", real.Sinh),
		"cosh":      unaryRealNoErr("cosh", real.Cosh),
		"tanh":      unaryRealNoErr("tanh", real.Tanh),
		"asinh":     unaryRealNoErr("asinh", real.Asinh),
		"acosh":     unaryReal("acosh", real.Acosh),
		"atanh":     unaryReal("atanh", real.Atanh),
		"floor":     unaryRealNoErr("floor", real.Floor),
		"ceil":      unaryRealNoErr("ceil", real.Ceil),
		"round":     unaryRealNoErr("round", roundHalfToEven),
		"abs":       value.BuiltinFn{Name: "abs", Fn: builtinAbs},
		"conjugate": value.BuiltinFn{Name: "conjugate", Fn: builtinConjugate},
		"real":      value.BuiltinFn{Name: "real", Fn: builtinRealPart},
		"imag":      value.BuiltinFn{Name: "imag", Fn: builtinImagPart},
		"arg":       value.BuiltinFn{Name: "arg", Fn: builtinArg},
		"not":       value.BuiltinFn{Name: "not", Fn: builtinNot},
		"square":    value.BuiltinFn{Name: "square", Fn: builtinSquare},
		"cubic":     value.BuiltinFn{Name: "cubic", Fn: builtinCubic},
		"fib":       value.BuiltinFn{Name: "fib", Fn: builtinFib},
		"mean":      value.BuiltinFn{Name: "mean", Fn: builtinMean},
		"average":   value.BuiltinFn{Name: "average", Fn: builtinMean},
		"roll":      value.BuiltinFn{Name: "roll", Fn: builtinRoll},
	}
}

func piRat() bignum.BigRat {
	r, _ := bignum.FromInt64Frac(3141592653589793238, 1000000000000000000)
	r.Exact = false
	return r
}

func eRat() bignum.BigRat {
	r, _ := bignum.FromInt64Frac(2718281828459045235, 1000000000000000000)
	r.Exact = false
	return r
}

func roundHalfToEven(a real.RealApprox) real.RealApprox {
	return real.RealApprox{Value: real.RoundHalfToEven(a.Value), Precision: a.Precision}
}

func requireDimensionlessNumber(v value.Value) (value.Number, error) {
	n, ok := v.(value.Number)
	if !ok || !n.Quantity.Unit.IsDimensionless() {
		return value.Number{}, ferr.New(kind.DomainError, "expected a dimensionless number")
	}
	return n, nil
}

func unaryReal(name string, f func(real.RealApprox) (real.RealApprox, error)) value.BuiltinFn {
	return value.BuiltinFn{Name: name, Fn: func(_ any, args []value.Value) (value.Value, error) {
		if len(args) != 1 {
			return nil, ferr.New(kind.InternalInvariantViolation, "%s takes exactly one argument", name)
		}
		n, err := requireDimensionlessNumber(args[0])
		if err != nil {
			return nil, err
		}
		if !n.Quantity.Magnitude.IsReal() {
			return nil, ferr.New(kind.DomainError, "%s requires a real argument", name)
		}
		out, err := f(n.Quantity.Magnitude.Re)
		if err != nil {
			return nil, err
		}
		q := n.Quantity
		q.Magnitude = cplx.FromReal(out)
		return value.Number{Quantity: q}, nil
	}}
}

func unaryRealNoErr(name string, f func(real.RealApprox) real.RealApprox) value.BuiltinFn {
	return unaryReal(name, func(a real.RealApprox) (real.RealApprox, error) { return f(a), nil })
}

func builtinAbs(_ any, args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return nil, ferr.New(kind.InternalInvariantViolation, "abs takes exactly one argument")
	}
	n, ok := args[0].(value.Number)
	if !ok {
		return nil, ferr.New(kind.DomainError, "abs requires a number")
	}
	if n.Quantity.Magnitude.IsReal() {
		q := n.Quantity
		q.Magnitude = cplx.FromRat(q.Magnitude.Re.Value.Abs())
		return value.Number{Quantity: q}, nil
	}
	modulus, err := n.Quantity.Magnitude.Abs()
	if err != nil {
		return nil, err
	}
	q := n.Quantity
	q.Magnitude = cplx.FromReal(modulus)
	return value.Number{Quantity: q}, nil
}

func builtinConjugate(_ any, args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return nil, ferr.New(kind.InternalInvariantViolation, "conjugate takes exactly one argument")
	}
	n, ok := args[0].(value.Number)
	if !ok {
		return nil, ferr.New(kind.DomainError, "conjugate requires a number")
	}
	q := n.Quantity
	q.Magnitude = q.Magnitude.Conjugate()
	return value.Number{Quantity: q}, nil
}

func builtinRealPart(_ any, args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return nil, ferr.New(kind.InternalInvariantViolation, "real takes exactly one argument")
	}
	n, ok := args[0].(value.Number)
	if !ok {
		return nil, ferr.New(kind.DomainError, "real requires a number")
	}
	q := n.Quantity
	q.Magnitude = cplx.FromReal(q.Magnitude.Re)
	return value.Number{Quantity: q}, nil
}

func builtinImagPart(_ any, args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return nil, ferr.New(kind.InternalInvariantViolation, "imag takes exactly one argument")
	}
	n, ok := args[0].(value.Number)
	if !ok {
		return nil, ferr.New(kind.DomainError, "imag requires a number")
	}
	q := n.Quantity
	q.Magnitude = cplx.FromReal(q.Magnitude.Im)
	return value.Number{Quantity: q}, nil
}

func builtinArg(_ any, args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return nil, ferr.New(kind.InternalInvariantViolation, "arg takes exactly one argument")
	}
	n, ok := args[0].(value.Number)
	if !ok {
		return nil, ferr.New(kind.DomainError, "arg requires a number")
	}
	q := n.Quantity
	q.Magnitude = cplx.FromReal(q.Magnitude.Arg())
	q.Unit = units.Dimensionless()
	return value.Number{Quantity: q}, nil
}

func builtinNot(_ any, args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return nil, ferr.New(kind.InternalInvariantViolation, "not takes exactly one argument")
	}
	b, ok := asBool(args[0])
	if !ok {
		return nil, ferr.New(kind.DomainError, "not requires a number")
	}
	v := int64(1)
	if b {
		v = 0
	}
	return value.Number{Quantity: units.FromRat(bignum.IntFromInt64(v))}, nil
}

func builtinSquare(ctx any, args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return nil, ferr.New(kind.InternalInvariantViolation, "square takes exactly one argument")
	}
	return numOp(args[0], args[0], units.Quantity.Mul)
}

func builtinCubic(ctx any, args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return nil, ferr.New(kind.InternalInvariantViolation, "cubic takes exactly one argument")
	}
	sq, err := numOp(args[0], args[0], units.Quantity.Mul)
	if err != nil {
		return nil, err
	}
	return numOp(sq, args[0], units.Quantity.Mul)
}

func builtinFib(_ any, args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return nil, ferr.New(kind.InternalInvariantViolation, "fib takes exactly one argument")
	}
	n, ok := requireDimensionlessNumberInt(args[0])
	if !ok || n < 0 {
		return nil, ferr.New(kind.DomainError, "fib requires a non-negative integer")
	}
	if n > 1_000_000 {
		return nil, ferr.New(kind.OverflowGuard, "fib argument too large")
	}
	a, b := bignum.FromUint64(0), bignum.FromUint64(1)
	for i := int64(0); i < n; i++ {
		a, b = b, a.Add(b)
	}
	r := bignum.Int(bignum.SIntFromUInt(false, a))
	return value.Number{Quantity: units.FromRat(r)}, nil
}

func requireDimensionlessNumberInt(v value.Value) (int64, bool) {
	return asInt64(v)
}

func builtinMean(ctx any, args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return nil, ferr.New(kind.InternalInvariantViolation, "mean takes exactly one argument")
	}
	d, ok := args[0].(value.Dist)
	if !ok {
		return nil, ferr.New(kind.DomainError, "mean requires a distribution")
	}
	r, err := d.D.Mean()
	if err != nil {
		return nil, err
	}
	return value.Number{Quantity: units.FromRat(r)}, nil
}

func builtinRoll(ctx any, args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return nil, ferr.New(kind.InternalInvariantViolation, "roll takes exactly one argument")
	}
	c, ok := ctx.(*Context)
	if !ok || c.RandomHandler == nil {
		return nil, ferr.New(kind.RandomUnavailable, "no random source is available")
	}
	d, ok := args[0].(value.Dist)
	if !ok {
		return nil, ferr.New(kind.DomainError, "roll requires a distribution")
	}
	outcome, err := d.D.Sample(c.RandomHandler)
	if err != nil {
		return nil, err
	}
	return value.Number{Quantity: units.FromRat(bignum.IntFromInt64(outcome))}, nil
}
