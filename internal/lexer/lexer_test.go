package lexer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/printfn/fend/internal/token"
)

func typesOf(t *testing.T, src string) []token.Type {
	t.Helper()
	toks, err := New(src, false).Tokenize()
	require.NoError(t, err)
	out := make([]token.Type, len(toks))
	for i, tok := range toks {
		out[i] = tok.Type
	}
	return out
}

func TestFeetInchesQuoteHeuristic(t *testing.T) {
	toks, err := New(`5'10" to cm`, false).Tokenize()
	require.NoError(t, err)

	var lexemes []string
	for _, tok := range toks {
		if tok.Type == token.EOF {
			continue
		}
		lexemes = append(lexemes, tok.Lexeme)
	}
	// Both quote marks must lex as unit-suffix identifiers, not string
	// delimiters, since each immediately follows a number.
	require.Equal(t, []string{"5", "'", "10", "\"", "to", "cm"}, lexemes)
}

func TestStringLiteralNotPrecededByNumber(t *testing.T) {
	toks, err := New(`"hello"`, false).Tokenize()
	require.NoError(t, err)
	require.Len(t, toks, 2) // STRING, EOF
	require.Equal(t, token.STRING, toks[0].Type)
	require.Equal(t, "hello", toks[0].Lexeme)
}

func TestSingleQuoteStringWhenNotAfterNumber(t *testing.T) {
	toks, err := New(`'abc'`, false).Tokenize()
	require.NoError(t, err)
	require.Equal(t, token.STRING, toks[0].Type)
}

func TestHexLiteralLexesAsNum(t *testing.T) {
	toks, err := New("0xffff", false).Tokenize()
	require.NoError(t, err)
	require.Equal(t, token.NUM, toks[0].Type)
	require.Equal(t, "0xffff", toks[0].Lexeme)
}

func TestUnicodeOperatorsTranslate(t *testing.T) {
	toks, err := New("2 × 3 ÷ 4", false).Tokenize()
	require.NoError(t, err)
	require.Equal(t, "*", toks[1].Lexeme)
	require.Equal(t, "/", toks[3].Lexeme)
}

func TestDiceLiteralTokenizesAsDice(t *testing.T) {
	types := typesOf(t, "2d6")
	require.Equal(t, token.DICE, types[0])
}

func TestAttributeTokenizesAsAttribute(t *testing.T) {
	types := typesOf(t, "@noapprox pi")
	require.Equal(t, token.ATTRIBUTE, types[0])
}

func TestDecimalCommaSwapsSeparatorRoles(t *testing.T) {
	toks, err := New("1.234,56", true).Tokenize()
	require.NoError(t, err)
	require.Equal(t, token.NUM, toks[0].Type)
}
