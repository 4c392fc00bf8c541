package bignum

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBigRatArithmetic(t *testing.T) {
	half, err := FromInt64Frac(1, 2)
	require.NoError(t, err)
	third, err := FromInt64Frac(1, 3)
	require.NoError(t, err)

	sum, err := half.Add(third)
	require.NoError(t, err)
	fiveSixths, err := FromInt64Frac(5, 6)
	require.NoError(t, err)
	require.Equal(t, 0, sum.Cmp(fiveSixths))

	prod, err := half.Mul(third)
	require.NoError(t, err)
	sixth, err := FromInt64Frac(1, 6)
	require.NoError(t, err)
	require.Equal(t, 0, prod.Cmp(sixth))
}

func TestBigRatDivisionByZero(t *testing.T) {
	one := IntFromInt64(1)
	zero := IntFromInt64(0)
	_, err := one.Div(zero)
	require.Error(t, err)
	_, err = New(SIntFromInt64(1), Zero())
	require.Error(t, err)
}

func TestBigRatCommutativityAndAssociativity(t *testing.T) {
	a, _ := FromInt64Frac(2, 3)
	b, _ := FromInt64Frac(5, 7)
	c, _ := FromInt64Frac(-1, 4)

	ab, _ := a.Add(b)
	ba, _ := b.Add(a)
	require.Equal(t, 0, ab.Cmp(ba))

	abc1 := mustAdd(t, mustAdd(t, a, b), c)
	abc2 := mustAdd(t, a, mustAdd(t, b, c))
	require.Equal(t, 0, abc1.Cmp(abc2))
}

func mustAdd(t *testing.T, a, b BigRat) BigRat {
	t.Helper()
	out, err := a.Add(b)
	require.NoError(t, err)
	return out
}

func TestBigRatPowInt(t *testing.T) {
	two := IntFromInt64(2)
	eight, err := two.PowInt(3)
	require.NoError(t, err)
	require.Equal(t, 0, eight.Cmp(IntFromInt64(8)))

	eighth, err := two.PowInt(-3)
	require.NoError(t, err)
	oneEighth, _ := FromInt64Frac(1, 8)
	require.Equal(t, 0, eighth.Cmp(oneEighth))
}

func TestParseDecimalRecurring(t *testing.T) {
	// 0.(3) = 1/3
	r, err := ParseDecimal("0", "3", "3", 10)
	require.NoError(t, err)
	third, _ := FromInt64Frac(1, 3)
	require.Equal(t, 0, r.Cmp(third))
}

func TestParseDecimalTerminating(t *testing.T) {
	r, err := ParseDecimal("1", "5", "", 10)
	require.NoError(t, err)
	threeHalves, _ := FromInt64Frac(3, 2)
	require.Equal(t, 0, r.Cmp(threeHalves))
}

func TestParseDecimalNonDecimalBase(t *testing.T) {
	// 0x1.8 = 1 + 8/16 = 1.5
	r, err := ParseDecimal("1", "8", "", 16)
	require.NoError(t, err)
	threeHalves, _ := FromInt64Frac(3, 2)
	require.Equal(t, 0, r.Cmp(threeHalves))
}
