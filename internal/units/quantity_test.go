package units

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/printfn/fend/internal/bignum"
	"github.com/printfn/fend/internal/cplx"
)

// kelvin and fahrenheit mirror the resolver's real definitions closely
// enough to exercise the affine-unit paths without pulling in unitdb.
func kelvin() Quantity {
	return Quantity{
		Magnitude: cplx.FromRat(bignum.IntFromInt64(1)),
		Unit:      Single(Temperature, 1),
		Scale:     bignum.IntFromInt64(1),
		BaseHint:  10,
	}
}

func fahrenheit() Quantity {
	scale, _ := bignum.FromInt64Frac(5, 9)
	offset, _ := bignum.FromInt64Frac(45967, 180)
	return Quantity{
		Magnitude: cplx.FromRat(bignum.IntFromInt64(1)),
		Unit:      Single(Temperature, 1),
		Scale:     scale,
		Offset:    &offset,
		BaseHint:  10,
	}
}

func joule() Quantity {
	return Quantity{
		Magnitude: cplx.FromRat(bignum.IntFromInt64(1)),
		Unit:      Single(BaseUnit("energy"), 1),
		Scale:     bignum.IntFromInt64(1),
		BaseHint:  10,
	}
}

func ratOf(t *testing.T, q Quantity) bignum.BigRat {
	t.Helper()
	require.True(t, q.Magnitude.IsReal())
	return q.Magnitude.Re.Value
}

func TestCelsiusToFahrenheitConversion(t *testing.T) {
	offset, _ := bignum.FromInt64Frac(5463, 20)
	celsius := Quantity{
		Magnitude: cplx.FromRat(bignum.IntFromInt64(0)),
		Unit:      Single(Temperature, 1),
		Scale:     bignum.IntFromInt64(1),
		Offset:    &offset,
		BaseHint:  10,
	}
	out, err := celsius.ConvertTo(fahrenheit())
	require.NoError(t, err)
	expect, _ := bignum.FromInt64Frac(32, 1)
	require.Equal(t, 0, ratOf(t, out).Cmp(expect))
}

// TestDerivedAffineUnitDivision exercises J/°F as a conversion target built
// on the fly by Div, mirroring `100 J/K to J/°F`: since 1 °F interval is
// 5/9 K, one unit of J/°F must equal 1.8 units of J/K in base form, and the
// offset must NOT leak into that factor.
func TestDerivedAffineUnitDivision(t *testing.T) {
	target, err := joule().Div(fahrenheit())
	require.NoError(t, err)
	require.Nil(t, target.Offset)
	expectFactor, _ := bignum.FromInt64Frac(9, 5)
	require.Equal(t, 0, ratOf(t, target).Cmp(expectFactor))

	hundredPerK, err := joule().Div(kelvin())
	require.NoError(t, err)
	hundredPerK.Magnitude = cplx.FromRat(bignum.IntFromInt64(100))

	converted, err := hundredPerK.ConvertTo(target)
	require.NoError(t, err)
	expect, _ := bignum.FromInt64Frac(500, 9)
	require.Equal(t, 0, ratOf(t, converted).Cmp(expect))
}

func TestAddingKelvinToCelsiusUsesLeftOperandScale(t *testing.T) {
	offset, _ := bignum.FromInt64Frac(5463, 20)
	celsius := Quantity{
		Magnitude: cplx.FromRat(bignum.IntFromInt64(0)),
		Unit:      Single(Temperature, 1),
		Scale:     bignum.IntFromInt64(1),
		Offset:    &offset,
		BaseHint:  10,
	}
	oneKelvin := kelvin()
	oneKelvin.Magnitude = cplx.FromRat(bignum.IntFromInt64(1))

	sum, err := celsius.Add(oneKelvin)
	require.NoError(t, err)
	require.NotNil(t, sum.Offset)
	expect, _ := bignum.FromInt64Frac(1, 1)
	require.Equal(t, 0, ratOf(t, sum).Cmp(expect))
}

func TestIncompatibleUnitsRejected(t *testing.T) {
	_, err := kelvin().Add(joule())
	require.Error(t, err)
}

func TestDivisionByZeroRejected(t *testing.T) {
	zero := joule()
	zero.Magnitude = cplx.FromRat(bignum.IntFromInt64(0))
	_, err := joule().Div(zero)
	require.Error(t, err)
}
