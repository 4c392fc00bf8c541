// Package format turns an evaluated value.Value into the text the CLI and
// bindings print (spec.md §4.4). It is the mirror image of internal/lexer +
// internal/parser: those turn text into structure, this turns structure back
// into text.
package format

import (
	"fmt"
	"sort"
	"strings"

	"github.com/printfn/fend/internal/dice"
	"github.com/printfn/fend/internal/ferr"
	"github.com/printfn/fend/internal/kind"
	"github.com/printfn/fend/internal/unitdb"
	"github.com/printfn/fend/internal/value"
)

// Options carries the leading `@attribute` modifiers spec.md §4.4 and §4.3
// recognise: @noapprox, @plain_number, @debug, @no_trailing_newline.
type Options struct {
	NoApprox          bool
	PlainNumber       bool
	Debug             bool
	NoTrailingNewline bool
}

// Render turns v into its display string. db supplies unit display names;
// it may be nil for values that carry no units (String, Date, ...).
func Render(v value.Value, db *unitdb.Database, opts Options) (string, error) {
	text, err := render(v, db, opts)
	if err != nil {
		return "", err
	}
	if opts.Debug {
		text = text + "\n" + debugDumpFull(v)
	}
	if !opts.NoTrailingNewline {
		text += "\n"
	}
	return text, nil
}

func render(v value.Value, db *unitdb.Database, opts Options) (string, error) {
	switch t := v.(type) {
	case value.Number:
		return renderNumber(t, db, opts)
	case value.String:
		return t.S, nil
	case value.Date:
		return t.D.Format()
	case value.Dist:
		return renderDist(t.D), nil
	case value.Lambda:
		return "<lambda>", nil
	case value.BuiltinFn:
		return fmt.Sprintf("<function: %s>", t.Name), nil
	case value.Object:
		return renderObject(t, db, opts)
	case value.Unit:
		return renderNumber(value.Number{Quantity: t.Q}, db, opts)
	case value.Unset:
		return "", nil
	}
	return "", ferr.New(kind.InternalInvariantViolation, "unformattable value %T", v)
}

func renderObject(o value.Object, db *unitdb.Database, opts Options) (string, error) {
	names := make([]string, 0, len(o.Fields))
	for k := range o.Fields {
		names = append(names, k)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, k := range names {
		s, err := render(o.Fields[k], db, opts)
		if err != nil {
			return "", err
		}
		parts = append(parts, k+": "+s)
	}
	return "{" + strings.Join(parts, ", ") + "}", nil
}

// distBarWidth is the bar length, in '#' characters, assigned to the most
// likely outcome; every other outcome's bar is scaled proportionally (spec.md
// §4.6). The original source has no display/bar code to ground this
// constant on (dist.rs only implements Debug), so 40 was chosen to keep
// lines readable in a terminal.
const distBarWidth = 40

func renderDist(d dice.Dist) string {
	outcomes := d.Outcomes()
	if len(outcomes) == 0 {
		return ""
	}
	maxP := 0.0
	for _, o := range outcomes {
		if p := o.Probability.AsFloat64(); p > maxP {
			maxP = p
		}
	}
	lines := make([]string, 0, len(outcomes))
	for _, o := range outcomes {
		p := o.Probability.AsFloat64()
		barLen := 0
		if maxP > 0 {
			barLen = int(p/maxP*distBarWidth + 0.5)
		}
		lines = append(lines, fmt.Sprintf("%d: %.2f%% %s", o.Value, p*100, strings.Repeat("#", barLen)))
	}
	return strings.Join(lines, "\n")
}
