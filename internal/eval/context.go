// Package eval implements the Evaluator/Context pair that walks an ast.Expr
// against a value.Scope (spec.md §4.3), owning the unit database, dice
// engine, and built-in function table.
package eval

import (
	"time"

	"github.com/printfn/fend/internal/bignum"
	"github.com/printfn/fend/internal/dice"
	"github.com/printfn/fend/internal/interrupt"
	"github.com/printfn/fend/internal/unitdb"
	"github.com/printfn/fend/internal/units"
	"github.com/printfn/fend/internal/value"
)

// ExchangeRateHandler resolves a currency code (e.g. "usd") to its rate
// relative to a fixed base currency (spec.md §3 Context, §4.5 step 5). With a
// nil handler a currency code is not looked up at all and resolves as an
// unknown identifier; a handler returning an error makes the lookup fail
// with currency-unavailable.
type ExchangeRateHandler func(code string) (bignum.BigRat, error)

// Context is the process-wide state spec.md §3 describes: scope, handlers,
// cancellation, and display defaults. fend.Evaluate builds a new Context
// (and Scope) for every call; variables carry over between calls only
// through the serialized variables blob.
type Context struct {
	Scope *value.Scope

	UnitDB *unitdb.Database

	CurrentBaseHint     int
	DecimalSeparator    byte // '.' or ','
	CoulombFaradMode    bool
	ExchangeRateHandler ExchangeRateHandler
	RandomHandler       dice.RandomSource

	Sig *interrupt.Signal
}

// NewContext builds a fresh Context with an empty scope and the standard
// unit database. The evaluator itself supplies the unitdb.EvalFunc callback
// (Context.evalUnitDefinition in eval.go) so internal/unitdb never imports
// internal/eval.
func NewContext() *Context {
	ctx := &Context{
		Scope:            value.NewScope(),
		CurrentBaseHint:  10,
		DecimalSeparator: '.',
	}
	ctx.UnitDB = unitdb.NewDatabase(func(expr string) (units.Quantity, error) {
		return ctx.evalUnitDefinition(expr)
	})
	return ctx
}

// WithTimeout attaches an interrupt.Signal with the given timeout (0 means
// no deadline) to ctx, replacing any previous one (spec.md §4.7).
func (ctx *Context) WithTimeout(timeout time.Duration) {
	ctx.Sig = interrupt.New(timeout)
}
