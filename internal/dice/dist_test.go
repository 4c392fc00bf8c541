package dice

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/printfn/fend/internal/bignum"
)

func TestUniformSumsToOne(t *testing.T) {
	d, err := Uniform(6)
	require.NoError(t, err)
	sum := bignum.IntFromInt64(0)
	for _, o := range d.Outcomes() {
		var err error
		sum, err = sum.Add(o.Probability)
		require.NoError(t, err)
	}
	require.Equal(t, 0, sum.Cmp(bignum.IntFromInt64(1)))
}

func TestUniformRejectsSingleSidedDie(t *testing.T) {
	_, err := Uniform(1)
	require.Error(t, err)
}

func TestNdSTwoSixSidedDiceSupportAndMean(t *testing.T) {
	d, err := NdS(2, 6, nil)
	require.NoError(t, err)
	lo, hi := d.Support()
	require.Equal(t, int64(2), lo)
	require.Equal(t, int64(12), hi)

	mean, err := d.Mean()
	require.NoError(t, err)
	seven := bignum.IntFromInt64(7)
	require.Equal(t, 0, mean.Cmp(seven))
}

func TestConvolveOfTwoSingleDiceMatchesNdS(t *testing.T) {
	one, err := NdS(1, 6, nil)
	require.NoError(t, err)
	two, err := one.Convolve(one)
	require.NoError(t, err)

	want, err := NdS(2, 6, nil)
	require.NoError(t, err)

	for _, o := range want.Outcomes() {
		got := outcomeProb(t, two, o.Value)
		require.Equal(t, 0, got.Cmp(o.Probability), "outcome %d", o.Value)
	}
}

func outcomeProb(t *testing.T, d Dist, v int64) bignum.BigRat {
	t.Helper()
	for _, o := range d.Outcomes() {
		if o.Value == v {
			return o.Probability
		}
	}
	t.Fatalf("outcome %d not found", v)
	return bignum.BigRat{}
}

func TestShiftMovesSupport(t *testing.T) {
	d, err := Uniform(6)
	require.NoError(t, err)
	shifted := d.Shift(10)
	lo, hi := shifted.Support()
	require.Equal(t, int64(11), lo)
	require.Equal(t, int64(16), hi)
}

func TestSampleStaysWithinSupport(t *testing.T) {
	d, err := NdS(2, 6, nil)
	require.NoError(t, err)
	calls := 0
	src := func() (byte, error) {
		calls++
		return byte(calls * 37 % 256), nil
	}
	v, err := d.Sample(src)
	require.NoError(t, err)
	require.GreaterOrEqual(t, v, int64(2))
	require.LessOrEqual(t, v, int64(12))
}
