// Package fend is the public entry point spec.md §6 names: one call in,
// one call out, with the caller's variable scope threaded through as an
// opaque byte blob rather than a long-lived handle. cmd/fend is the only
// consumer inside this module, but the signature is shaped for any host
// that wants a single-shot, thread-safe evaluator (a REPL, a plugin, a
// batch job) without linking against internal/eval directly.
package fend

import (
	"time"

	"github.com/printfn/fend/internal/ast"
	"github.com/printfn/fend/internal/eval"
	"github.com/printfn/fend/internal/format"
	"github.com/printfn/fend/internal/lexer"
	"github.com/printfn/fend/internal/parser"
	"github.com/printfn/fend/internal/serialize"
)

// Result is what Evaluate returns: either ok with a rendered result and an
// updated variables blob, or not-ok with a message (spec.md §6).
type Result struct {
	Ok        bool
	Message   string
	ResultStr string
	Variables []byte
}

// Evaluate lexes, parses and evaluates input against the scope encoded in
// variablesIn, rendering the result and re-encoding the (possibly mutated)
// scope. timeoutMs <= 0 means no deadline. A failed evaluation leaves
// variablesIn's decoded scope untouched in the returned blob, matching
// spec.md §5's "a failed evaluation leaves the serialised state unchanged".
func Evaluate(input string, timeoutMs int, variablesIn []byte) Result {
	vars, err := serialize.Decode(variablesIn)
	if err != nil {
		return Result{Ok: false, Message: err.Error(), Variables: variablesIn}
	}

	ctx := eval.NewContext()
	for name, v := range vars {
		ctx.Scope.Set(name, v)
	}
	if timeoutMs > 0 {
		ctx.WithTimeout(time.Duration(timeoutMs) * time.Millisecond)
	}

	out, evalErr := evaluate(ctx, input)
	if evalErr != nil {
		unchanged, encErr := serialize.Encode(vars)
		if encErr != nil {
			unchanged = variablesIn
		}
		return Result{Ok: false, Message: evalErr.Error(), Variables: unchanged}
	}

	blob, err := serialize.Encode(ctx.Scope.UserBindings())
	if err != nil {
		return Result{Ok: false, Message: err.Error(), Variables: variablesIn}
	}
	return Result{Ok: true, ResultStr: out, Variables: blob}
}

func evaluate(ctx *eval.Context, input string) (string, error) {
	toks, err := lexer.New(input, ctx.DecimalSeparator == ',').Tokenize()
	if err != nil {
		return "", err
	}
	tree, err := parser.Parse(toks)
	if err != nil {
		return "", err
	}

	v, err := eval.Eval(ctx, tree)
	if err != nil {
		return "", err
	}

	opts := collectOptions(tree)
	return format.Render(v, ctx.UnitDB, opts)
}

// collectOptions walks the leading `@attribute` chain wrapping the
// top-level expression (or the last statement of a top-level sequence) to
// recover the output-format modifiers spec.md §4.4 describes. Evaluation
// itself treats Attribute nodes as a pass-through (internal/eval.evalAttribute),
// so this is the one place that actually interprets their names.
func collectOptions(expr ast.Expr) format.Options {
	var opts format.Options
	n := expr
	if seq, ok := n.(*ast.Sequence); ok && len(seq.Items) > 0 {
		n = seq.Items[len(seq.Items)-1]
	}
	for {
		attr, ok := n.(*ast.Attribute)
		if !ok {
			break
		}
		switch attr.Name {
		case "noapprox":
			opts.NoApprox = true
		case "plain_number":
			opts.PlainNumber = true
		case "debug":
			opts.Debug = true
		case "no_trailing_newline":
			opts.NoTrailingNewline = true
		}
		n = attr.X
	}
	return opts
}
