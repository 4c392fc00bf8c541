package eval

import (
	"math"

	"github.com/printfn/fend/internal/ast"
	"github.com/printfn/fend/internal/bignum"
	"github.com/printfn/fend/internal/cplx"
	"github.com/printfn/fend/internal/ferr"
	"github.com/printfn/fend/internal/kind"
	"github.com/printfn/fend/internal/real"
	"github.com/printfn/fend/internal/units"
	"github.com/printfn/fend/internal/value"
)

func evalBinOp(ctx *Context, n *ast.BinOp) (value.Value, error) {
	switch n.Kind {
	case ast.ApplyOp:
		return evalApply(ctx, n)
	}

	l, err := Eval(ctx, n.L)
	if err != nil {
		return nil, err
	}
	r, err := Eval(ctx, n.R)
	if err != nil {
		return nil, err
	}

	switch n.Kind {
	case ast.Add:
		return numOp(l, r, units.Quantity.Add)
	case ast.Sub:
		return numOp(l, r, units.Quantity.Sub)
	case ast.Mul, ast.Of:
		return distAwareMul(l, r)
	case ast.Div, ast.Per:
		return numOp(l, r, units.Quantity.Div)
	case ast.Pow:
		return evalPow(l, r)
	case ast.Mod:
		return evalMod(l, r)
	case ast.BitAnd, ast.BitOr, ast.BitXor, ast.Shl, ast.Shr:
		return evalBitwise(n.Kind, l, r)
	case ast.Or, ast.And, ast.Xor:
		return evalLogical(n.Kind, l, r)
	case ast.Permute:
		return permuteOrChoose(l, r, true)
	case ast.Choose:
		return permuteOrChoose(l, r, false)
	}
	return nil, ferr.New(kind.InternalInvariantViolation, "unhandled binary op")
}

func numOp(l, r value.Value, op func(units.Quantity, units.Quantity) (units.Quantity, error)) (value.Value, error) {
	if ld, ok := l.(value.Dist); ok {
		return distArith(ld, r, op)
	}
	if rd, ok := r.(value.Dist); ok {
		return distArith(rd, l, op)
	}
	ln, ok := l.(value.Number)
	if !ok {
		return nil, ferr.New(kind.DomainError, "expected a number")
	}
	rn, ok := r.(value.Number)
	if !ok {
		return nil, ferr.New(kind.DomainError, "expected a number")
	}
	q, err := op(ln.Quantity, rn.Quantity)
	if err != nil {
		return nil, err
	}
	q = simplify(q)
	return value.Number{Quantity: q}, nil
}

// distArith supports the scalar-Dist arithmetic spec.md §4.3 "Dice" allows
// (dice + number, dice * scalar, etc.) by reinterpreting the Quantity op as
// a pmf reindex when one operand is a Dist.
func distArith(d value.Dist, other value.Value, op func(units.Quantity, units.Quantity) (units.Quantity, error)) (value.Value, error) {
	if od, ok := other.(value.Dist); ok {
		conv, err := d.D.Convolve(od.D)
		if err != nil {
			return nil, err
		}
		return value.Dist{D: conv}, nil
	}
	n, ok := other.(value.Number)
	if !ok || !n.Quantity.Unit.IsDimensionless() {
		return nil, ferr.New(kind.DomainError, "distributions only combine with dimensionless numbers or other distributions")
	}
	delta, ok := asInt64(n)
	if !ok {
		return nil, ferr.New(kind.DomainError, "distribution arithmetic requires an integer operand")
	}
	probe, err := op(units.FromRat(bignum.IntFromInt64(0)), units.FromRat(bignum.IntFromInt64(delta)))
	if err != nil {
		return nil, err
	}
	sample, _ := probe.Magnitude.Re.Value.Num.AsInt64()
	switch {
	case sample == delta:
		return value.Dist{D: d.D.Shift(delta)}, nil
	case sample == -delta:
		return value.Dist{D: d.D.Shift(-delta)}, nil
	default:
		return value.Dist{D: d.D.ScaleOutcomes(delta)}, nil
	}
}

func distAwareMul(l, r value.Value) (value.Value, error) {
	if ld, ok := l.(value.Dist); ok {
		return distMulArith(ld, r)
	}
	if rd, ok := r.(value.Dist); ok {
		return distMulArith(rd, l)
	}
	return numOp(l, r, units.Quantity.Mul)
}

func distMulArith(d value.Dist, other value.Value) (value.Value, error) {
	if od, ok := other.(value.Dist); ok {
		conv, err := d.D.Convolve(od.D)
		if err != nil {
			return nil, err
		}
		return value.Dist{D: conv}, nil
	}
	n, ok := other.(value.Number)
	if !ok {
		return nil, ferr.New(kind.DomainError, "distributions only multiply by dimensionless numbers")
	}
	factor, ok := asInt64(n)
	if !ok {
		return nil, ferr.New(kind.DomainError, "distribution scaling requires an integer operand")
	}
	return value.Dist{D: d.D.ScaleOutcomes(factor)}, nil
}

// simplify scans the unit database-independent derived-unit table for a
// named equivalent after a multiplicative op (spec.md §4.3 "Automatic
// simplification"). The full named-derived-unit search lives in
// internal/unitdb; here we only handle the identity case (dimensionless
// results collapse their unit map), leaving richer substitution to the
// formatter, which already has access to the unit database's display names.
func simplify(q units.Quantity) units.Quantity {
	if q.Unit.IsDimensionless() {
		q.Unit = units.Dimensionless()
	}
	return q
}

func evalPow(l, r value.Value) (value.Value, error) {
	ln, ok := l.(value.Number)
	if !ok {
		return nil, ferr.New(kind.DomainError, "expected a number as the base")
	}
	rn, ok := r.(value.Number)
	if !ok || !rn.Quantity.Unit.IsDimensionless() {
		return nil, ferr.New(kind.DomainError, "exponent must be a dimensionless number")
	}
	return powQuantity(ln.Quantity, rn.Quantity.Magnitude.Re.Value)
}

func powQuantity(base units.Quantity, exponent bignum.BigRat) (value.Value, error) {
	if base.IsAffine() {
		var err error
		base, err = base.ToBase()
		if err != nil {
			return nil, err
		}
	}
	newUnit := base.Unit.Scale(exponent)

	if exponent.IsInteger() {
		n, ok := exponent.Num.AsInt64()
		if !ok {
			return nil, ferr.New(kind.OverflowGuard, "exponent too large")
		}
		scale, err := base.Scale.PowInt(n)
		if err != nil {
			return nil, err
		}
		mag, err := complexPowInt(base.Magnitude, n)
		if err != nil {
			return nil, err
		}
		return value.Number{Quantity: units.Quantity{
			Magnitude: mag, Unit: newUnit, Scale: scale, BaseHint: base.BaseHint, FmtHint: base.FmtHint,
		}}, nil
	}

	if !base.Unit.IsDimensionless() {
		// Fractional power of a unit-bearing quantity (e.g. sqrt via `^
		// 0.5`): unit exponents scale exactly; magnitude approximates.
	}
	expReal := real.RealApprox{Value: exponent, Precision: real.DefaultPrecisionBits}
	if base.Magnitude.IsReal() {
		mag, err := real.Pow(base.Magnitude.Re, expReal)
		if err == nil {
			scaleApprox, serr := real.Pow(real.RealApprox{Value: base.Scale, Precision: real.DefaultPrecisionBits}, expReal)
			if serr != nil {
				scaleApprox = real.RealApprox{Value: base.Scale, Precision: real.DefaultPrecisionBits}
			}
			return value.Number{Quantity: units.Quantity{
				Magnitude: cplx.FromReal(mag), Unit: newUnit, Scale: scaleApprox.Value, BaseHint: base.BaseHint, FmtHint: base.FmtHint,
			}}, nil
		}
		// negative base, non-integer exponent: promote to complex via the
		// principal branch exp(e * log(x)) = |x|^e * (cos(e*pi) + i sin(e*pi)).
		return complexPowNegativeBase(base, exponent, newUnit)
	}
	return nil, ferr.New(kind.DomainError, "complex base with non-integer exponent is not supported")
}

func complexPowInt(c cplx.Complex, n int64) (cplx.Complex, error) {
	neg := n < 0
	if neg {
		n = -n
	}
	result := cplx.FromRat(bignum.IntFromInt64(1))
	base := c
	for n > 0 {
		if n&1 == 1 {
			var err error
			result, err = result.Mul(base)
			if err != nil {
				return cplx.Complex{}, err
			}
		}
		var err error
		base, err = base.Mul(base)
		if err != nil {
			return cplx.Complex{}, err
		}
		n >>= 1
	}
	if neg {
		one := cplx.FromRat(bignum.IntFromInt64(1))
		return one.Div(result)
	}
	return result, nil
}

func complexPowNegativeBase(base units.Quantity, exponent bignum.BigRat, newUnit units.Exponents) (value.Value, error) {
	absVal := base.Magnitude.Re.Value.Abs().AsFloat64()
	e := exponent.AsFloat64()
	modulus := math.Pow(absVal, e)
	angle := e * math.Pi
	re, _ := bignum.FromInt64Frac(int64(modulus*math.Cos(angle)*1e12), 1e12)
	im, _ := bignum.FromInt64Frac(int64(modulus*math.Sin(angle)*1e12), 1e12)
	re.Exact, im.Exact = false, false
	return value.Number{Quantity: units.Quantity{
		Magnitude: cplx.Complex{Re: real.RealApprox{Value: re, Precision: real.DefaultPrecisionBits}, Im: real.RealApprox{Value: im, Precision: real.DefaultPrecisionBits}},
		Unit:      newUnit, Scale: bignum.IntFromInt64(1), BaseHint: base.BaseHint, FmtHint: base.FmtHint,
	}}, nil
}

func evalMod(l, r value.Value) (value.Value, error) {
	ln, ok := l.(value.Number)
	if !ok {
		return nil, ferr.New(kind.DomainError, "modulo requires numbers")
	}
	rn, ok := r.(value.Number)
	if !ok {
		return nil, ferr.New(kind.DomainError, "modulo requires numbers")
	}
	li, ok1 := asInt64(ln)
	ri, ok2 := asInt64(rn)
	if !ok1 || !ok2 {
		return nil, ferr.New(kind.DomainError, "modulo requires integers")
	}
	if ri == 0 {
		return nil, ferr.New(kind.DivisionByZero, "division by zero")
	}
	m := li % ri
	if m != 0 && (m < 0) != (ri < 0) {
		m += ri
	}
	return value.Number{Quantity: units.FromRat(bignum.IntFromInt64(m))}, nil
}

func evalBitwise(k ast.BinOpKind, l, r value.Value) (value.Value, error) {
	ln, ok := l.(value.Number)
	if !ok {
		return nil, ferr.New(kind.DomainError, "bitwise operators require integers")
	}
	rn, ok := r.(value.Number)
	if !ok {
		return nil, ferr.New(kind.DomainError, "bitwise operators require integers")
	}
	if !ln.Quantity.Unit.Equal(rn.Quantity.Unit) {
		return nil, ferr.New(kind.IncompatibleUnits, "units are incompatible")
	}
	li, ok1 := asInt64(ln)
	ri, ok2 := asInt64(rn)
	if !ok1 || !ok2 {
		return nil, ferr.New(kind.DomainError, "bitwise operators require integers")
	}
	var result int64
	switch k {
	case ast.BitAnd:
		result = li & ri
	case ast.BitOr:
		result = li | ri
	case ast.BitXor:
		result = li ^ ri
	case ast.Shl:
		result = li << uint(ri)
	case ast.Shr:
		result = li >> uint(ri)
	}
	out := ln.Quantity
	out.Magnitude = cplx.FromRat(bignum.IntFromInt64(result))
	return value.Number{Quantity: out}, nil
}

func evalLogical(k ast.BinOpKind, l, r value.Value) (value.Value, error) {
	lb, ok1 := asBool(l)
	rb, ok2 := asBool(r)
	if !ok1 || !ok2 {
		return nil, ferr.New(kind.DomainError, "logical operators require numbers")
	}
	var result bool
	switch k {
	case ast.Or:
		result = lb || rb
	case ast.And:
		result = lb && rb
	case ast.Xor:
		result = lb != rb
	}
	v := int64(0)
	if result {
		v = 1
	}
	return value.Number{Quantity: units.FromRat(bignum.IntFromInt64(v))}, nil
}

func asBool(v value.Value) (bool, bool) {
	n, ok := v.(value.Number)
	if !ok {
		return false, false
	}
	return !n.Quantity.Magnitude.Re.Value.IsZero(), true
}

func permuteOrChoose(l, r value.Value, permute bool) (value.Value, error) {
	ln, ok1 := l.(value.Number)
	rn, ok2 := r.(value.Number)
	if !ok1 || !ok2 {
		return nil, ferr.New(kind.DomainError, "permute/choose require integers")
	}
	n, ok1 := asInt64(ln)
	k, ok2 := asInt64(rn)
	if !ok1 || !ok2 || n < 0 || k < 0 || k > n {
		return nil, ferr.New(kind.ValueOutOfRange, "invalid permute/choose arguments")
	}
	result := bignum.FromUint64(1)
	for i := int64(0); i < k; i++ {
		result = result.Mul(bignum.FromUint64(uint64(n - i)))
	}
	if !permute {
		denom := bignum.FromUint64(1)
		for i := int64(2); i <= k; i++ {
			denom = denom.Mul(bignum.FromUint64(uint64(i)))
		}
		q, _, err := result.DivMod(denom)
		if err != nil {
			return nil, err
		}
		result = q
	}
	r2 := bignum.Int(bignum.SIntFromUInt(false, result))
	return value.Number{Quantity: units.FromRat(r2)}, nil
}

func evalApply(ctx *Context, n *ast.BinOp) (value.Value, error) {
	fn, err := Eval(ctx, n.L)
	if err != nil {
		return nil, err
	}
	arg, err := Eval(ctx, n.R)
	if err != nil {
		return nil, err
	}
	return applyValue(ctx, fn, arg)
}

// evalApplyNode handles the dedicated *ast.Apply node the parser emits for
// `roll EXPR` (parseAtom's special-cased callee). Semantically identical to
// the juxtaposition BinOp{Kind: ApplyOp} case above, just a different AST shape.
func evalApplyNode(ctx *Context, n *ast.Apply) (value.Value, error) {
	fn, err := Eval(ctx, n.Fn)
	if err != nil {
		return nil, err
	}
	arg, err := Eval(ctx, n.Arg)
	if err != nil {
		return nil, err
	}
	return applyValue(ctx, fn, arg)
}

func applyValue(ctx *Context, fn, arg value.Value) (value.Value, error) {
	switch t := fn.(type) {
	case value.BuiltinFn, value.Lambda:
		return callValue(ctx, t, []value.Value{arg})
	case value.Number:
		return numOp(fn, arg, units.Quantity.Mul)
	case value.Dist:
		return distMulArith(t, arg)
	}
	return nil, ferr.New(kind.DomainError, "value is not callable")
}

// callValue invokes a BuiltinFn or Lambda with the given arguments.
func callValue(ctx *Context, fn value.Value, args []value.Value) (value.Value, error) {
	switch t := fn.(type) {
	case value.BuiltinFn:
		return t.Fn(ctx, args)
	case value.Lambda:
		if len(args) != 1 {
			return nil, ferr.New(kind.InternalInvariantViolation, "lambda application requires exactly one argument")
		}
		env := t.Env
		if env == nil {
			env = value.NewScope()
		}
		callScope := env.Push()
		callScope.Set(t.Param, args[0])
		astBody, ok := t.Body.(ast.Expr)
		if !ok {
			return nil, ferr.New(kind.InternalInvariantViolation, "lambda body is not an expression")
		}
		subCtx := &Context{
			Scope: callScope, UnitDB: ctx.UnitDB, CurrentBaseHint: ctx.CurrentBaseHint,
			DecimalSeparator: ctx.DecimalSeparator, CoulombFaradMode: ctx.CoulombFaradMode,
			ExchangeRateHandler: ctx.ExchangeRateHandler, RandomHandler: ctx.RandomHandler, Sig: ctx.Sig,
		}
		return Eval(subCtx, astBody)
	}
	return nil, ferr.New(kind.DomainError, "value is not callable")
}
