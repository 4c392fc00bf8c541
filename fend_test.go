package fend

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// mustEval evaluates input against an empty scope and requires success.
func mustEval(t *testing.T, input string) Result {
	t.Helper()
	res := Evaluate(input, 0, nil)
	require.True(t, res.Ok, "expected %q to evaluate cleanly, got error: %s", input, res.Message)
	return res
}

func trimmed(r Result) string {
	return strings.TrimSuffix(r.ResultStr, "\n")
}

// The numbered scenarios below correspond to spec.md §8's concrete list.

func TestScenario1FeetInchesToCentimetres(t *testing.T) {
	res := mustEval(t, `5'10" to cm`)
	require.Equal(t, "177.8 cm", trimmed(res))
}

func TestScenario2HexToDecimal(t *testing.T) {
	res := mustEval(t, "0xffff to decimal")
	require.Equal(t, "65535", trimmed(res))
}

func TestScenario3CelsiusToFahrenheit(t *testing.T) {
	res := mustEval(t, "0 °C to °F")
	require.Equal(t, "32 °F", trimmed(res))
}

func TestScenario4HeatCapacityConversion(t *testing.T) {
	// 1 °F interval is 5/9 K, so 100 J/K == 100*5/9 J/°F == 55.555...
	res := mustEval(t, "100 J/K to J/°F")
	out := trimmed(res)
	require.True(t, strings.HasPrefix(out, "approx. "), "expected an approx. prefix, got %q", out)
	require.Contains(t, out, "55.5555")
	require.Contains(t, out, "F")
}

func TestScenario5OneThirdToFiveDecimalPlaces(t *testing.T) {
	res := mustEval(t, "1/3 to 5 dp")
	require.Equal(t, "0.33333", trimmed(res))
}

func TestScenario6RollWithoutRandomSourceFails(t *testing.T) {
	res := Evaluate("roll 2d6", 0, nil)
	require.False(t, res.Ok)
	require.Contains(t, res.Message, "random")
}

func TestScenario7TwoDiceMean(t *testing.T) {
	res := mustEval(t, "mean(2d6)")
	require.Equal(t, "7", trimmed(res))

	dist := mustEval(t, "2d6")
	out := trimmed(dist)
	require.Contains(t, out, "2:")
	require.Contains(t, out, "12:")
}

func TestScenario8DateArithmetic(t *testing.T) {
	res := mustEval(t, "@2000-01-01 + 10000 days")
	require.Equal(t, "Wednesday, 19 May 2027", trimmed(res))
}

func TestScenario9VariableAssignmentSequence(t *testing.T) {
	res := mustEval(t, "a = 4 kg; b = 2; a * b^2")
	require.Equal(t, "16 kg", trimmed(res))
}

func TestScenario10LambdaParsesWithoutError(t *testing.T) {
	res := mustEval(t, `(\f.(\x.f (x x)) \x.f(x x))`)
	require.Contains(t, trimmed(res), "lambda")
}

func TestScenario11RomanNumerals(t *testing.T) {
	small := mustEval(t, "45 to roman")
	require.Equal(t, "XLV", trimmed(small))

	big := mustEval(t, "15400 to roman")
	require.Equal(t, "X̅V̅CD", trimmed(big))
}

func TestScenario12Words(t *testing.T) {
	res := mustEval(t, "123 to words")
	require.Equal(t, "one hundred and twenty-three", trimmed(res))
}

func TestScenario13NoApproxPi(t *testing.T) {
	res := mustEval(t, "@noapprox pi")
	out := trimmed(res)
	require.False(t, strings.HasPrefix(out, "approx."))
	require.True(t, strings.HasPrefix(out, "3.14159"), "got %q", out)
}

func TestScenario14IncompatibleUnitsError(t *testing.T) {
	res := Evaluate("1m to kg", 0, nil)
	require.False(t, res.Ok)
	require.Contains(t, res.Message, "incompatible")
}

func TestScenario15RecurringDecimalToFraction(t *testing.T) {
	res := mustEval(t, "0.(3) to fraction")
	require.Equal(t, "1/3", trimmed(res))
}

func TestScenario16AutoSimplification(t *testing.T) {
	res := mustEval(t, "100 km/hr * 36 seconds")
	require.Equal(t, "1 km", trimmed(res))
}

func TestScenario17ModuloAndPercent(t *testing.T) {
	mod := mustEval(t, "5 % 2")
	require.Equal(t, "1", trimmed(mod))

	pct := mustEval(t, "5%")
	require.Equal(t, "0.05", trimmed(pct))

	pctOf := mustEval(t, "5% of 100")
	require.Equal(t, "5", trimmed(pctOf))
}

func TestScenario18BitwiseOperators(t *testing.T) {
	shift := mustEval(t, "1 << 2")
	require.Equal(t, "4", trimmed(shift))

	and := mustEval(t, "0xff & 0xcb")
	require.Equal(t, "0xcb", trimmed(and))
}

// Scope persistence across calls via the serialised variables blob
// (spec.md §5/§6): a failed evaluation must leave the blob unchanged, and a
// successful one must carry bindings forward.

func TestVariablesPersistAcrossCalls(t *testing.T) {
	first := Evaluate("x = 5", 0, nil)
	require.True(t, first.Ok)
	require.NotEmpty(t, first.Variables)

	second := Evaluate("x + 1", 0, first.Variables)
	require.True(t, second.Ok)
	require.Equal(t, "6", trimmed(second))
}

func TestFailedEvaluationLeavesVariablesUnchanged(t *testing.T) {
	first := Evaluate("x = 5", 0, nil)
	require.True(t, first.Ok)

	second := Evaluate("1m to kg", 0, first.Variables)
	require.False(t, second.Ok)
	require.Equal(t, first.Variables, second.Variables)

	third := Evaluate("x", 0, second.Variables)
	require.True(t, third.Ok)
	require.Equal(t, "5", trimmed(third))
}

func TestEmptyVariablesBlobIsEmptyScope(t *testing.T) {
	res := Evaluate("2 + 2", 0, nil)
	require.True(t, res.Ok)
	require.Equal(t, "4", trimmed(res))
}

func TestNoTrailingNewlineAttribute(t *testing.T) {
	res := mustEval(t, "@no_trailing_newline 2 + 2")
	require.Equal(t, "4", res.ResultStr)
}

func TestPlainNumberAttributeStripsGrouping(t *testing.T) {
	res := mustEval(t, "@plain_number 1234567")
	require.Equal(t, "1234567", trimmed(res))
}
