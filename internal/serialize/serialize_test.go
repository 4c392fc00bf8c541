package serialize

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/printfn/fend/internal/bignum"
	"github.com/printfn/fend/internal/cplx"
	"github.com/printfn/fend/internal/dice"
	"github.com/printfn/fend/internal/fdate"
	"github.com/printfn/fend/internal/real"
	"github.com/printfn/fend/internal/units"
	"github.com/printfn/fend/internal/value"
)

func TestEncodeDecodeEmptyScope(t *testing.T) {
	blob, err := Encode(map[string]value.Value{})
	require.NoError(t, err)
	out, err := Decode(blob)
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestDecodeEmptyBytesIsEmptyScope(t *testing.T) {
	out, err := Decode(nil)
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestRoundTripRationalNumber(t *testing.T) {
	third, err := bignum.FromInt64Frac(1, 3)
	require.NoError(t, err)
	vars := map[string]value.Value{
		"x": value.Number{Quantity: units.FromRat(third)},
	}
	blob, err := Encode(vars)
	require.NoError(t, err)
	out, err := Decode(blob)
	require.NoError(t, err)

	got, ok := out["x"].(value.Number)
	require.True(t, ok)
	require.Equal(t, 0, got.Quantity.Magnitude.Re.Value.Cmp(third))
	require.True(t, got.Quantity.Unit.IsDimensionless())
}

func TestRoundTripComplexNumber(t *testing.T) {
	re := bignum.IntFromInt64(3)
	im := bignum.IntFromInt64(4)
	c := cplx.Complex{Re: real.FromRat(re), Im: real.FromRat(im)}
	vars := map[string]value.Value{"z": value.Number{Quantity: units.FromComplex(c)}}

	blob, err := Encode(vars)
	require.NoError(t, err)
	out, err := Decode(blob)
	require.NoError(t, err)

	got, ok := out["z"].(value.Number)
	require.True(t, ok)
	require.False(t, got.Quantity.Magnitude.IsReal())
	require.Equal(t, 0, got.Quantity.Magnitude.Re.Value.Cmp(re))
	require.Equal(t, 0, got.Quantity.Magnitude.Im.Value.Cmp(im))
}

func TestRoundTripQuantityWithUnits(t *testing.T) {
	q := units.Quantity{
		Magnitude: cplx.FromRat(bignum.IntFromInt64(4)),
		Unit:      units.Single(units.Mass, 1),
		Scale:     bignum.IntFromInt64(1000),
		BaseHint:  10,
		FmtHint:   bignum.AutoFormat(),
	}
	vars := map[string]value.Value{"a": value.Number{Quantity: q}}

	blob, err := Encode(vars)
	require.NoError(t, err)
	out, err := Decode(blob)
	require.NoError(t, err)

	got, ok := out["a"].(value.Number)
	require.True(t, ok)
	require.False(t, got.Quantity.Unit.IsDimensionless())
	require.Equal(t, 0, got.Quantity.Scale.Cmp(q.Scale))
}

func TestRoundTripAffineUnit(t *testing.T) {
	offset := bignum.IntFromInt64(32)
	q := units.Quantity{
		Magnitude: cplx.FromRat(bignum.IntFromInt64(212)),
		Unit:      units.Single(units.Temperature, 1),
		Scale:     bignum.IntFromInt64(1),
		Offset:    &offset,
		BaseHint:  10,
		FmtHint:   bignum.AutoFormat(),
	}
	vars := map[string]value.Value{"f": value.Number{Quantity: q}}

	blob, err := Encode(vars)
	require.NoError(t, err)
	out, err := Decode(blob)
	require.NoError(t, err)

	got := out["f"].(value.Number)
	require.NotNil(t, got.Quantity.Offset)
	require.Equal(t, 0, got.Quantity.Offset.Cmp(offset))
}

func TestRoundTripQuantityPreservesDisplayName(t *testing.T) {
	factor := cplx.FromRat(bignum.IntFromInt64(1000))
	q := units.Quantity{
		Magnitude: cplx.FromRat(bignum.IntFromInt64(4)),
		Unit:      units.Single(units.Mass, 1),
		Scale:     bignum.IntFromInt64(1000),
		BaseHint:  10,
		FmtHint:   bignum.AutoFormat(),
		Names: map[units.BaseUnit]units.NamePart{
			units.Mass: {Singular: "kg", Plural: "kg", Exp: bignum.IntFromInt64(1), Factor: factor},
		},
	}
	vars := map[string]value.Value{"a": value.Number{Quantity: q}}

	blob, err := Encode(vars)
	require.NoError(t, err)
	out, err := Decode(blob)
	require.NoError(t, err)

	got := out["a"].(value.Number).Quantity
	require.False(t, got.NamesBase)
	singular, plural, ok := got.DisplayUnitName()
	require.True(t, ok)
	require.Equal(t, "kg", singular)
	require.Equal(t, "kg", plural)
}

func TestRoundTripString(t *testing.T) {
	vars := map[string]value.Value{"s": value.String{S: "hello, world"}}
	blob, err := Encode(vars)
	require.NoError(t, err)
	out, err := Decode(blob)
	require.NoError(t, err)
	require.Equal(t, value.String{S: "hello, world"}, out["s"])
}

func TestRoundTripDate(t *testing.T) {
	d, err := fdate.New(2000, 1, 1)
	require.NoError(t, err)
	vars := map[string]value.Value{"d": value.Date{D: d}}
	blob, err := Encode(vars)
	require.NoError(t, err)
	out, err := Decode(blob)
	require.NoError(t, err)
	require.Equal(t, d, out["d"].(value.Date).D)
}

func TestRoundTripDist(t *testing.T) {
	dist, err := dice.Uniform(6)
	require.NoError(t, err)
	vars := map[string]value.Value{"r": value.Dist{D: dist}}
	blob, err := Encode(vars)
	require.NoError(t, err)
	out, err := Decode(blob)
	require.NoError(t, err)

	got := out["r"].(value.Dist).D
	wantOutcomes := dist.Outcomes()
	gotOutcomes := got.Outcomes()
	require.Equal(t, len(wantOutcomes), len(gotOutcomes))
	for i := range wantOutcomes {
		require.Equal(t, wantOutcomes[i].Value, gotOutcomes[i].Value)
		require.Equal(t, 0, wantOutcomes[i].Probability.Cmp(gotOutcomes[i].Probability))
	}
}

func TestEncodeLambdaFails(t *testing.T) {
	_, err := Encode(map[string]value.Value{"f": value.Lambda{Param: "x"}})
	require.Error(t, err)
}

func TestEncodeIsDeterministicAcrossKeyOrder(t *testing.T) {
	vars := map[string]value.Value{
		"a": value.Number{Quantity: units.FromRat(bignum.IntFromInt64(1))},
		"b": value.Number{Quantity: units.FromRat(bignum.IntFromInt64(2))},
		"c": value.String{S: "x"},
	}
	blob1, err := Encode(vars)
	require.NoError(t, err)
	blob2, err := Encode(vars)
	require.NoError(t, err)
	require.Equal(t, blob1, blob2)
}

func TestDecodeRejectsUnknownVersion(t *testing.T) {
	_, err := Decode([]byte{0x7f, 0x00})
	require.Error(t, err)
}
