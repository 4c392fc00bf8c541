package eval

import (
	"github.com/printfn/fend/internal/ast"
	"github.com/printfn/fend/internal/bignum"
	"github.com/printfn/fend/internal/cplx"
	"github.com/printfn/fend/internal/dice"
	"github.com/printfn/fend/internal/fdate"
	"github.com/printfn/fend/internal/ferr"
	"github.com/printfn/fend/internal/kind"
	"github.com/printfn/fend/internal/lexer"
	"github.com/printfn/fend/internal/parser"
	"github.com/printfn/fend/internal/units"
	"github.com/printfn/fend/internal/value"
)

// Eval walks expr against ctx's scope, returning its Value. Scope mutation
// (assignment, `_`/`ans` rebinding) happens only on success, per spec.md's
// failure-semantics invariant.
func Eval(ctx *Context, expr ast.Expr) (value.Value, error) {
	if err := ctx.Sig.Check(); err != nil {
		return nil, err
	}
	switch n := expr.(type) {
	case *ast.Num:
		return evalNum(ctx, n)
	case *ast.StringLit:
		return value.String{S: n.Value}, nil
	case *ast.DateLit:
		d, err := fdate.New(n.Year, n.Month, n.Day)
		if err != nil {
			return nil, err
		}
		return value.Date{D: d}, nil
	case *ast.ParensGroup:
		return Eval(ctx, n.X)
	case *ast.Sequence:
		var result value.Value = value.Unset{}
		for _, item := range n.Items {
			v, err := Eval(ctx, item)
			if err != nil {
				return nil, err
			}
			result = v
			ctx.Scope.SetAns(v)
		}
		return result, nil
	case *ast.Assign:
		v, err := Eval(ctx, n.X)
		if err != nil {
			return nil, err
		}
		ctx.Scope.Set(n.Name, v)
		return v, nil
	case *ast.Ident:
		return resolveIdent(ctx, n.Name)
	case *ast.Lambda:
		return value.Lambda{Param: n.Param, Body: n.Body, Env: ctx.Scope}, nil
	case *ast.Attribute:
		return evalAttribute(ctx, n)
	case *ast.DiceLit:
		return evalDiceLit(ctx, n)
	case *ast.UnaryOp:
		return evalUnary(ctx, n)
	case *ast.ConvertTo:
		return evalConvert(ctx, n)
	case *ast.BinOp:
		return evalBinOp(ctx, n)
	case *ast.Apply:
		return evalApplyNode(ctx, n)
	}
	return nil, ferr.New(kind.InternalInvariantViolation, "unhandled AST node %T", expr)
}

func evalNum(ctx *Context, n *ast.Num) (value.Value, error) {
	r, err := parseNumLiteral(n.Tok)
	if err != nil {
		return nil, err
	}
	q := units.FromRat(r)
	q.BaseHint = r.Base
	return value.Number{Quantity: q}, nil
}

// resolveIdent implements the three-level chain of spec.md §2: user
// variables, then builtin units, then builtin constants/functions, then
// (as a final fallback) a currency-code lookup.
func resolveIdent(ctx *Context, name string) (value.Value, error) {
	if v, ok := ctx.Scope.Get(name); ok {
		return v, nil
	}
	if nu, ok, err := ctx.UnitDB.Resolve(name); err != nil {
		return nil, err
	} else if ok {
		q := nu.Value
		q.BaseHint = ctx.CurrentBaseHint
		q.Names = nil
		q.NamesBase = false
		if len(q.Unit) == 1 {
			for base, exp := range q.Unit {
				factor, err := q.Factor()
				if err != nil {
					return nil, err
				}
				q.Names = map[units.BaseUnit]units.NamePart{
					base: {Singular: nu.Singular, Plural: nu.Plural, Exp: exp, Factor: factor},
				}
			}
		}
		return value.Number{Quantity: q}, nil
	}
	if v, ok := builtins[name]; ok {
		return v, nil
	}
	if isCurrencyCode(name) && ctx.ExchangeRateHandler != nil {
		rate, err := ctx.ExchangeRateHandler(name)
		if err != nil {
			return nil, ferr.New(kind.CurrencyUnavailable, "currency %q is unavailable", name)
		}
		q := units.Quantity{
			Magnitude: cplx.FromRat(bignum.IntFromInt64(1)),
			Unit:      units.Single(units.Currency(name), 1),
			Scale:     rate,
			BaseHint:  10,
			FmtHint:   bignum.AutoFormat(),
		}
		factor, err := q.Factor()
		if err != nil {
			return nil, err
		}
		q.Names = map[units.BaseUnit]units.NamePart{
			units.Currency(name): {Singular: name, Plural: name, Exp: bignum.IntFromInt64(1), Factor: factor},
		}
		return value.Number{Quantity: q}, nil
	}
	return nil, ferr.New(kind.UnknownIdentifier, "unknown identifier %q", name)
}

func isCurrencyCode(s string) bool {
	if len(s) != 3 {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

// evalUnitDefinition evaluates a unit-definition body expression (spec.md
// §4.5) against a fresh, empty scope (ctx's user variables are not visible
// to it), returning the resulting Quantity. This is the callback internal/unitdb invokes without
// importing internal/eval.
func (ctx *Context) evalUnitDefinition(exprSrc string) (units.Quantity, error) {
	toks, err := lexer.New(exprSrc, ctx.DecimalSeparator == ',').Tokenize()
	if err != nil {
		return units.Quantity{}, err
	}
	tree, err := parser.Parse(toks)
	if err != nil {
		return units.Quantity{}, err
	}
	sub := &Context{
		Scope:               value.NewScope(),
		UnitDB:              ctx.UnitDB,
		CurrentBaseHint:      10,
		DecimalSeparator:     ctx.DecimalSeparator,
		ExchangeRateHandler:  ctx.ExchangeRateHandler,
		RandomHandler:        ctx.RandomHandler,
		Sig:                  ctx.Sig,
	}
	v, err := Eval(sub, tree)
	if err != nil {
		return units.Quantity{}, err
	}
	n, ok := v.(value.Number)
	if !ok {
		return units.Quantity{}, ferr.New(kind.InternalInvariantViolation, "unit definition %q did not evaluate to a number", exprSrc)
	}
	return n.Quantity, nil
}

func evalAttribute(ctx *Context, n *ast.Attribute) (value.Value, error) {
	// @noapprox, @plain_number, @debug, @no_trailing_newline are purely
	// output modifiers carried on the Context/formatter side; the core
	// still needs to evaluate the wrapped expression. fend.go reads the
	// attribute names off the top-level ast.Attribute chain and passes them
	// to internal/format as render options, so evaluation here is a
	// pass-through.
	return Eval(ctx, n.X)
}

func evalDiceLit(ctx *Context, n *ast.DiceLit) (value.Value, error) {
	nv, err := Eval(ctx, n.N)
	if err != nil {
		return nil, err
	}
	sv, err := Eval(ctx, n.Sides)
	if err != nil {
		return nil, err
	}
	count, ok := asInt64(nv)
	if !ok {
		return nil, ferr.New(kind.ValueOutOfRange, "dice count must be an integer")
	}
	sides, ok := asInt64(sv)
	if !ok {
		return nil, ferr.New(kind.ValueOutOfRange, "die size must be an integer")
	}
	d, err := dice.NdS(count, sides, ctx.Sig)
	if err != nil {
		return nil, err
	}
	return value.Dist{D: d}, nil
}

func asInt64(v value.Value) (int64, bool) {
	n, ok := v.(value.Number)
	if !ok || !n.Quantity.Unit.IsDimensionless() {
		return 0, false
	}
	if !n.Quantity.Magnitude.IsReal() {
		return 0, false
	}
	r := n.Quantity.Magnitude.Re.Value
	if !r.IsInteger() {
		return 0, false
	}
	i, ok := r.Num.AsInt64()
	return i, ok
}
