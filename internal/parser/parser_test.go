package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/printfn/fend/internal/ast"
	"github.com/printfn/fend/internal/lexer"
)

func parseSrc(t *testing.T, src string) ast.Expr {
	t.Helper()
	toks, err := lexer.New(src, false).Tokenize()
	require.NoError(t, err)
	tree, err := Parse(toks)
	require.NoError(t, err)
	return tree
}

// TestFeetInchesAdjacencyIsSum asserts `5'10"` parses as the sum of a
// feet-juxtaposition and an inches-juxtaposition, not a further
// multiplication of the two (`(5 feet) * 10 * inch`).
func TestFeetInchesAdjacencyIsSum(t *testing.T) {
	tree := parseSrc(t, `5'10"`)
	add, ok := tree.(*ast.BinOp)
	require.True(t, ok, "expected a BinOp, got %T", tree)
	require.Equal(t, ast.Add, add.Kind)

	feet, ok := add.L.(*ast.BinOp)
	require.True(t, ok)
	require.Equal(t, ast.ApplyOp, feet.Kind)
	feetUnit, ok := feet.R.(*ast.Ident)
	require.True(t, ok)
	require.Equal(t, "'", feetUnit.Name)

	inches, ok := add.R.(*ast.BinOp)
	require.True(t, ok)
	require.Equal(t, ast.ApplyOp, inches.Kind)
	inchUnit, ok := inches.R.(*ast.Ident)
	require.True(t, ok)
	require.Equal(t, "\"", inchUnit.Name)
}

func TestJuxtapositionIsMultiplication(t *testing.T) {
	tree := parseSrc(t, "2 kg")
	app, ok := tree.(*ast.BinOp)
	require.True(t, ok)
	require.Equal(t, ast.ApplyOp, app.Kind)
}

func TestRollParsesToDedicatedApplyNode(t *testing.T) {
	tree := parseSrc(t, "roll 2d6")
	app, ok := tree.(*ast.Apply)
	require.True(t, ok, "expected *ast.Apply, got %T", tree)
	fn, ok := app.Fn.(*ast.Ident)
	require.True(t, ok)
	require.Equal(t, "roll", fn.Name)
	_, ok = app.Arg.(*ast.DiceLit)
	require.True(t, ok)
}

func TestConvertToParsesTargetExpression(t *testing.T) {
	tree := parseSrc(t, "100 J/K to J/°F")
	conv, ok := tree.(*ast.ConvertTo)
	require.True(t, ok, "expected *ast.ConvertTo, got %T", tree)
	_, ok = conv.Target.(*ast.BinOp)
	require.True(t, ok)
}

func TestSequenceSplitsOnSemicolons(t *testing.T) {
	tree := parseSrc(t, "a = 4 kg; b = 2; a * b^2")
	seq, ok := tree.(*ast.Sequence)
	require.True(t, ok)
	require.Len(t, seq.Items, 3)
	_, ok = seq.Items[0].(*ast.Assign)
	require.True(t, ok)
}

func TestLambdaParses(t *testing.T) {
	tree := parseSrc(t, `\x.x`)
	_, ok := tree.(*ast.Lambda)
	require.True(t, ok)
}

func TestOperatorPrecedenceMultiplicationBeforeAddition(t *testing.T) {
	tree := parseSrc(t, "1 + 2 * 3")
	add, ok := tree.(*ast.BinOp)
	require.True(t, ok)
	require.Equal(t, ast.Add, add.Kind)
	mul, ok := add.R.(*ast.BinOp)
	require.True(t, ok)
	require.Equal(t, ast.Mul, mul.Kind)
}
