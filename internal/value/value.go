// Package value defines Value, the tagged union every expression evaluates
// to (spec.md §3), and Scope, the ordered chain of name→Value frames an
// evaluation walks.
package value

import (
	"github.com/printfn/fend/internal/bignum"
	"github.com/printfn/fend/internal/dice"
	"github.com/printfn/fend/internal/fdate"
	"github.com/printfn/fend/internal/units"
)

// Value is implemented by every concrete runtime value kind. It is a closed
// union (spec.md §9 "Value is a closed tagged union") — Go expresses that as
// an unexported marker method rather than a type switch over an interface{}.
type Value interface {
	valueKind() string
}

// Number wraps a dimensioned Quantity (spec.md's "Number Value"). TextStyle
// carries the non-numeric output-format hints ("roman", "words", "string",
// "text") that a `to`/`as`/`in` conversion can request: these aren't
// properties of the rational magnitude itself (bignum.FormatStyle only
// covers the numeric styles), so the formatter reads this field directly
// when it is non-empty.
type Number struct {
	Quantity  units.Quantity
	TextStyle string
}

func (Number) valueKind() string { return "number" }

// String is an immutable UTF-8 string value.
type String struct {
	S string
}

func (String) valueKind() string { return "string" }

// Date wraps a validated proleptic-Gregorian date.
type Date struct {
	D fdate.Date
}

func (Date) valueKind() string { return "date" }

// Lambda captures its defining Scope and parameter name; the body is left as
// an opaque AST node (typed `any` here to avoid value<->ast import cycles;
// internal/eval asserts it back to *ast.Expr).
type Lambda struct {
	Param string
	Body  any
	Env   *Scope
}

func (Lambda) valueKind() string { return "lambda" }

// Dist wraps a dice probability distribution.
type Dist struct {
	D dice.Dist
}

func (Dist) valueKind() string { return "dist" }

// BuiltinFn is a named, host-implemented function. Ctx is an opaque
// evaluator handle (internal/eval supplies and asserts it) so this package
// never imports internal/eval.
type BuiltinFn struct {
	Name string
	Fn   func(ctx any, args []Value) (Value, error)
}

func (BuiltinFn) valueKind() string { return "builtin" }

// Object is a plain name -> Value record (spec.md §3 "Object(name→Value)").
type Object struct {
	Fields map[string]Value
}

func (Object) valueKind() string { return "object" }

// Unit wraps a bare unit reference (as opposed to a magnitude carrying that
// unit), e.g. the right-hand operand of `to` when it names a unit rather
// than a full expression.
type Unit struct {
	Q units.Quantity
}

func (Unit) valueKind() string { return "unit" }

// FormatSpec is a Value produced by parsing a format-name conversion target
// (`fraction`, `roman`, `words`, `N dp`, …).
type FormatSpec struct {
	Style bignum.FormatStyle
	N     int
	Name  string // for the non-numeric styles: "roman", "words", "string", "date", "codepoint", "character", "text"
}

func (FormatSpec) valueKind() string { return "formatspec" }

// BaseSpec is a Value produced by parsing a base conversion target (`binary`,
// `hex`, `base 6`, …).
type BaseSpec struct {
	Base int
}

func (BaseSpec) valueKind() string { return "basespec" }

// Unset is the unit/"no-op" value: a Sequence with no items evaluates to it.
// An assignment evaluates to the bound value, and a trailing separator is
// dropped by the parser, so neither yields Unset.
type Unset struct{}

func (Unset) valueKind() string { return "unset" }

// IsDimensionless reports whether v carries no unit exponents; values other
// than Number always count as dimensionless.
func IsDimensionless(v Value) bool {
	n, ok := v.(Number)
	if !ok {
		return true
	}
	return n.Quantity.Unit.IsDimensionless()
}
