package format

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/printfn/fend/internal/bignum"
	"github.com/printfn/fend/internal/cplx"
	"github.com/printfn/fend/internal/dice"
	"github.com/printfn/fend/internal/real"
	"github.com/printfn/fend/internal/units"
	"github.com/printfn/fend/internal/value"
)

func numberOf(r bignum.BigRat) value.Number {
	return value.Number{Quantity: units.FromRat(r)}
}

func withFmt(q units.Quantity, style bignum.FormatStyle, n int) units.Quantity {
	q.FmtHint = bignum.Format{Style: style, N: n}
	return q
}

func TestRenderPlainInteger(t *testing.T) {
	out, err := Render(numberOf(bignum.IntFromInt64(42)), nil, Options{})
	require.NoError(t, err)
	require.Equal(t, "42\n", out)
}

func TestRenderNoTrailingNewline(t *testing.T) {
	out, err := Render(numberOf(bignum.IntFromInt64(42)), nil, Options{NoTrailingNewline: true})
	require.NoError(t, err)
	require.Equal(t, "42", out)
}

func TestRenderNegativeInteger(t *testing.T) {
	out, err := Render(numberOf(bignum.IntFromInt64(-7)), nil, Options{NoTrailingNewline: true})
	require.NoError(t, err)
	require.Equal(t, "-7", out)
}

func TestRenderFractionStyle(t *testing.T) {
	third, _ := bignum.FromInt64Frac(1, 3)
	q := withFmt(units.FromRat(third), bignum.Fraction, 0)
	out, err := Render(value.Number{Quantity: q}, nil, Options{NoTrailingNewline: true})
	require.NoError(t, err)
	require.Equal(t, "1/3", out)
}

func TestRenderMixedFractionStyle(t *testing.T) {
	sevenHalves, _ := bignum.FromInt64Frac(7, 2)
	q := withFmt(units.FromRat(sevenHalves), bignum.MixedFraction, 0)
	out, err := Render(value.Number{Quantity: q}, nil, Options{NoTrailingNewline: true})
	require.NoError(t, err)
	require.Equal(t, "3 1/2", out)
}

func TestRenderDecimalPlaces(t *testing.T) {
	third, _ := bignum.FromInt64Frac(1, 3)
	q := withFmt(units.FromRat(third), bignum.DecimalPlaces, 5)
	out, err := Render(value.Number{Quantity: q}, nil, Options{NoTrailingNewline: true})
	require.NoError(t, err)
	require.Equal(t, "0.33333", out)
}

func TestRenderSigFigs(t *testing.T) {
	q := withFmt(units.FromRat(bignum.IntFromInt64(999)), bignum.SigFigs, 2)
	out, err := Render(value.Number{Quantity: q}, nil, Options{NoTrailingNewline: true})
	require.NoError(t, err)
	// rounding 999 to 2 sig figs carries: 1.0e3
	require.Equal(t, "1000", out)
}

func TestRenderExactRecurringCycle(t *testing.T) {
	third, _ := bignum.FromInt64Frac(1, 3)
	q := withFmt(units.FromRat(third), bignum.Exact, 0)
	out, err := Render(value.Number{Quantity: q}, nil, Options{NoTrailingNewline: true})
	require.NoError(t, err)
	require.Equal(t, "0.(3)", out)
}

func TestRenderAutoApproxFallback(t *testing.T) {
	seventh, _ := bignum.FromInt64Frac(1, 7)
	seventh.Exact = false
	out, err := Render(numberOf(seventh), nil, Options{NoTrailingNewline: true})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "approx. "))
}

func TestRenderNoApproxSuppressesPrefix(t *testing.T) {
	seventh, _ := bignum.FromInt64Frac(1, 7)
	seventh.Exact = false
	out, err := Render(numberOf(seventh), nil, Options{NoApprox: true, NoTrailingNewline: true})
	require.NoError(t, err)
	require.False(t, strings.HasPrefix(out, "approx. "))
}

func TestRenderHexBase(t *testing.T) {
	q := units.FromRat(bignum.IntFromInt64(255))
	q.BaseHint = 16
	out, err := Render(value.Number{Quantity: q}, nil, Options{NoTrailingNewline: true})
	require.NoError(t, err)
	require.Equal(t, "0xff", out)
}

func TestRenderDigitGrouping(t *testing.T) {
	out, err := Render(numberOf(bignum.IntFromInt64(1234567)), nil, Options{NoTrailingNewline: true})
	require.NoError(t, err)
	require.Equal(t, "1,234,567", out)
}

func TestRenderPlainNumberSuppressesGrouping(t *testing.T) {
	out, err := Render(numberOf(bignum.IntFromInt64(1234567)), nil, Options{PlainNumber: true, NoTrailingNewline: true})
	require.NoError(t, err)
	require.Equal(t, "1234567", out)
}

func TestRenderComplex(t *testing.T) {
	c := cplx.Complex{Re: real.FromRat(bignum.IntFromInt64(3)), Im: real.FromRat(bignum.IntFromInt64(4))}
	out, err := Render(value.Number{Quantity: units.FromComplex(c)}, nil, Options{NoTrailingNewline: true})
	require.NoError(t, err)
	require.Equal(t, "3 + 4i", out)
}

func TestRenderString(t *testing.T) {
	out, err := Render(value.String{S: "hi"}, nil, Options{NoTrailingNewline: true})
	require.NoError(t, err)
	require.Equal(t, "hi", out)
}

func TestRenderTextStyleRoman(t *testing.T) {
	n := value.Number{Quantity: units.FromRat(bignum.IntFromInt64(45)), TextStyle: "roman"}
	out, err := Render(n, nil, Options{NoTrailingNewline: true})
	require.NoError(t, err)
	require.Equal(t, "XLV", out)
}

func TestRenderTextStyleWords(t *testing.T) {
	n := value.Number{Quantity: units.FromRat(bignum.IntFromInt64(123)), TextStyle: "words"}
	out, err := Render(n, nil, Options{NoTrailingNewline: true})
	require.NoError(t, err)
	require.Equal(t, "one hundred and twenty-three", out)
}

func TestRenderDistOneLinePerOutcomeAscendingWithBar(t *testing.T) {
	d, err := dice.Uniform(2)
	require.NoError(t, err)
	out, err := Render(value.Dist{D: d}, nil, Options{NoTrailingNewline: true})
	require.NoError(t, err)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)
	require.Equal(t, "1: 50.00% "+strings.Repeat("#", distBarWidth), lines[0])
	require.Equal(t, "2: 50.00% "+strings.Repeat("#", distBarWidth), lines[1])
}

func TestRenderDebugIncludesSummary(t *testing.T) {
	out, err := Render(numberOf(bignum.IntFromInt64(5)), nil, Options{Debug: true, NoTrailingNewline: true})
	require.NoError(t, err)
	require.Contains(t, out, "kind=number")
}
