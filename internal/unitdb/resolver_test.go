package unitdb_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/printfn/fend/internal/bignum"
	"github.com/printfn/fend/internal/eval"
)

func TestResolveBaseUnitIsMagnitudeOne(t *testing.T) {
	ctx := eval.NewContext()
	nu, ok, err := ctx.UnitDB.Resolve("m")
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, nu.Value.Magnitude.IsReal())
	require.Equal(t, 0, nu.Value.Magnitude.Re.Value.Cmp(bignum.IntFromInt64(1)))
}

func TestResolveDerivedUnitChainsThroughBody(t *testing.T) {
	ctx := eval.NewContext()
	kg, ok, err := ctx.UnitDB.Resolve("kg")
	require.NoError(t, err)
	require.True(t, ok)
	require.False(t, kg.Value.IsAffine())
}

func TestResolveSIPrefixedUnit(t *testing.T) {
	ctx := eval.NewContext()
	_, ok, err := ctx.UnitDB.Resolve("km")
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = ctx.UnitDB.Resolve("cm")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestResolveUnknownUnitIsNotFound(t *testing.T) {
	ctx := eval.NewContext()
	_, ok, err := ctx.UnitDB.Resolve("not_a_real_unit_xyz")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestResolveAffineTemperatureUnit(t *testing.T) {
	ctx := eval.NewContext()
	f, ok, err := ctx.UnitDB.Resolve("°F")
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, f.Value.IsAffine())
}

func TestResolveCaseInsensitiveFallback(t *testing.T) {
	ctx := eval.NewContext()
	_, ok, err := ctx.UnitDB.Resolve("Meters")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestResolveFeetAndInchSingleCharacterUnits(t *testing.T) {
	ctx := eval.NewContext()
	_, ok, err := ctx.UnitDB.Resolve("'")
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = ctx.UnitDB.Resolve("\"")
	require.NoError(t, err)
	require.True(t, ok)
}
