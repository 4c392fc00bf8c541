package bignum

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBigUIntStringParseRoundTrip(t *testing.T) {
	inputs := []uint64{0, 1, 2, 9, 10, 255, 65535, 1 << 32, 18446744073709551615}
	for _, n := range inputs {
		for base := 2; base <= 36; base++ {
			b := FromUint64(n)
			s, err := b.String(base)
			require.NoErrorf(t, err, "n=%d base=%d", n, base)
			got, err := Parse(s, base)
			require.NoErrorf(t, err, "n=%d base=%d s=%q", n, base, s)
			gotN, ok := got.AsUint64()
			require.True(t, ok)
			require.Equalf(t, n, gotN, "base=%d s=%q", base, s)
		}
	}
}

func TestBigUIntBeyondUint64RoundTrip(t *testing.T) {
	// 2^100, well beyond a single uint64 limb.
	big := FromUint64(1)
	for i := 0; i < 100; i++ {
		big = big.Add(big)
	}
	for _, base := range []int{2, 10, 16, 36} {
		s, err := big.String(base)
		require.NoError(t, err)
		got, err := Parse(s, base)
		require.NoError(t, err)
		require.Equal(t, 0, got.Cmp(big))
	}
}

func TestBigUIntInvalidBase(t *testing.T) {
	_, err := FromUint64(5).String(1)
	require.Error(t, err)
	_, err = FromUint64(5).String(37)
	require.Error(t, err)
	_, err = Parse("10", 1)
	require.Error(t, err)
}

func TestBigUIntParseRejectsBadDigit(t *testing.T) {
	_, err := Parse("12z", 10)
	require.Error(t, err)
}

func TestBigUIntArithmetic(t *testing.T) {
	a := FromUint64(123456789)
	b := FromUint64(987654321)
	require.Equal(t, 0, a.Add(b).Cmp(FromUint64(123456789+987654321)))
	require.True(t, a.Cmp(b) < 0)

	product := a.Mul(b)
	s, err := product.String(10)
	require.NoError(t, err)
	require.Equal(t, "121932631112635269", s)
}

func TestBigUIntDivMod(t *testing.T) {
	q, r, err := FromUint64(17).DivMod(FromUint64(5))
	require.NoError(t, err)
	require.Equal(t, uint64(3), mustUint64(t, q))
	require.Equal(t, uint64(2), mustUint64(t, r))

	_, _, err = FromUint64(17).DivMod(FromUint64(0))
	require.Error(t, err)
}

func mustUint64(t *testing.T, b BigUInt) uint64 {
	t.Helper()
	n, ok := b.AsUint64()
	require.True(t, ok)
	return n
}
