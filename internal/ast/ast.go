// Package ast defines the expression tree the parser produces and the
// evaluator walks (spec.md §3, "Expr AST").
package ast

import "github.com/printfn/fend/internal/token"

// Expr is implemented by every AST node kind.
type Expr interface {
	exprNode()
}

// Num is a numeric literal, carrying enough of the original token to
// support exact recurring-decimal and explicit-base parsing downstream.
type Num struct {
	Tok token.Token
}

func (*Num) exprNode() {}

// Ident is a bare identifier reference (variable, unit, constant, or
// builtin function name — disambiguated at evaluation time).
type Ident struct {
	Name string
	Tok  token.Token
}

func (*Ident) exprNode() {}

// UnaryOpKind enumerates prefix/postfix unary operators.
type UnaryOpKind int

const (
	Neg UnaryOpKind = iota
	Pos
	Factorial     // postfix !
	Not           // "not"
	PercentSuffix // postfix %, attaches the "percent" unit (scale 1/100)
)

type UnaryOp struct {
	Kind UnaryOpKind
	X    Expr
	Tok  token.Token
}

func (*UnaryOp) exprNode() {}

// BinOpKind enumerates infix binary operators.
type BinOpKind int

const (
	Add BinOpKind = iota
	Sub
	Mul
	Div
	Pow
	Mod
	Percent
	BitAnd
	BitOr
	BitXor
	Shl
	Shr
	Or
	And
	Xor
	Of
	Per
	ApplyOp // juxtaposition function application
	MixedFractionAdjacency
	Permute
	Choose
)

type BinOp struct {
	Kind BinOpKind
	L, R Expr
	Tok  token.Token
}

func (*BinOp) exprNode() {}

// Apply is explicit call syntax / juxtaposition application: fn(arg) or
// fn arg.
type Apply struct {
	Fn  Expr
	Arg Expr
}

func (*Apply) exprNode() {}

// Lambda is `\param. body` or `param => body`.
type Lambda struct {
	Param string
	Body  Expr
}

func (*Lambda) exprNode() {}

// ConvertTo is `expr to target` / `expr as target` / `expr in target`.
type ConvertTo struct {
	X      Expr
	Target Expr
	Kind   token.Type // IDENT_TO, IDENT_AS, or IDENT_IN
}

func (*ConvertTo) exprNode() {}

// Assign is `name = expr`.
type Assign struct {
	Name string
	X    Expr
}

func (*Assign) exprNode() {}

// Sequence is a `;`-separated statement list; its value is the last
// element's value. The parser builds one only for two or more statements
// and drops a trailing `;`, so `x;` has the value of `x`, not Unset.
type Sequence struct {
	Items []Expr
}

func (*Sequence) exprNode() {}

// StringLit is a quoted string literal with escapes already decoded.
type StringLit struct {
	Value string
}

func (*StringLit) exprNode() {}

// DateLit is an `@YYYY-MM-DD` attribute-form date literal.
type DateLit struct {
	Year         int32
	Month, Day   uint8
}

func (*DateLit) exprNode() {}

// DiceLit is `N d S` (NdS dice notation).
type DiceLit struct {
	N, Sides Expr
}

func (*DiceLit) exprNode() {}

// Attribute is a leading `@name` modifier wrapping an expression.
type Attribute struct {
	Name string
	X    Expr
}

func (*Attribute) exprNode() {}

// ParensGroup is an explicitly parenthesised subexpression, kept distinct
// from its child so the parser/quote-heuristic can tell "grouped" from
// "bare" when deciding precedence-sensitive cases.
type ParensGroup struct {
	X Expr
}

func (*ParensGroup) exprNode() {}

// FormatSpec is a conversion target naming an output format rather than a
// unit: `fraction`, `roman`, `N dp`, `N sf`, `binary`, `base N`, etc.
type FormatSpec struct {
	Name string
	N    Expr // nil unless Name is "dp" or "sf" or "base"
}

func (*FormatSpec) exprNode() {}
